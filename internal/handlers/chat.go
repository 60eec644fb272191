package handlers

import (
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	sessionID := h.sessionID(w, r)
	resp := h.orchestrator.Process(r.Context(), sessionID, req)
	h.writeJSON(w, resp)
}
