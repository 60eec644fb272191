package handlers

import "net/http"

func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"message": "PartSelect Chat Agent API", "status": "running"})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.orchestrator.Status()
	h.writeJSON(w, map[string]any{
		"status":             "healthy",
		"agent_orchestrator": true,
		"agents_loaded":      status.AgentsLoaded,
	})
}

func (h *Handler) HandleAgentStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.orchestrator.Status())
}
