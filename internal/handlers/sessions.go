package handlers

import (
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/storage"
)

type sessionSummary struct {
	ID            string          `json:"session_id"`
	Cart          models.CartView `json:"cart"`
	LastShownPart *models.Part    `json:"last_shown_part,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	LastSeen      time.Time       `json:"last_seen"`
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, exists := h.orchestrator.Sessions().Get(sessionID); !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}

	var summary sessionSummary
	h.orchestrator.Sessions().WithSession(sessionID, func(s *storage.Session) error {
		summary = sessionSummary{
			ID:            s.ID,
			Cart:          s.Cart.View(),
			LastShownPart: s.LastShownPart,
			CreatedAt:     s.CreatedAt,
			LastSeen:      s.LastSeen,
		}
		return nil
	})
	h.writeJSON(w, summary)
}

func (h *Handler) HandleSessionDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, exists := h.orchestrator.Sessions().Get(sessionID); !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.orchestrator.Sessions().Delete(sessionID)
	w.WriteHeader(http.StatusNoContent)
}
