package handlers

import (
	"net/http"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

// HandleCart is read-only: a request without a session gets an empty cart
// and no session is minted.
func (h *Handler) HandleCart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID != "" {
		w.Header().Set(SessionHeader, sessionID)
	}
	h.writeJSON(w, h.orchestrator.Cart(sessionID))
}

func (h *Handler) HandleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.PartNumber == "" {
		h.writeError(w, "part_number is required", http.StatusBadRequest)
		return
	}
	sessionID := h.sessionID(w, r)
	resp, err := h.orchestrator.AddToCart(sessionID, req)
	h.writeTransaction(w, resp, err)
}

func (h *Handler) HandleCartUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.PartNumber == "" && req.CartItemID == "" {
		h.writeError(w, "part_number or cart_item_id is required", http.StatusBadRequest)
		return
	}
	sessionID := h.sessionID(w, r)
	resp, err := h.orchestrator.UpdateCart(sessionID, req)
	h.writeTransaction(w, resp, err)
}

func (h *Handler) HandleCartRemove(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.PartNumber == "" && req.CartItemID == "" {
		h.writeError(w, "part_number or cart_item_id is required", http.StatusBadRequest)
		return
	}
	sessionID := h.sessionID(w, r)
	resp, err := h.orchestrator.RemoveFromCart(sessionID, req)
	h.writeTransaction(w, resp, err)
}

func (h *Handler) HandleCartClear(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	resp, err := h.orchestrator.ClearCart(sessionID)
	h.writeTransaction(w, resp, err)
}

func (h *Handler) writeTransaction(w http.ResponseWriter, resp models.TransactionResponse, err error) {
	if err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, resp)
}
