package orchestrator

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/partsdesk/internal/cart"
	"github.com/lehigh-university-libraries/partsdesk/internal/metrics"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/storage"
)

// AddToCart adds the requested part to the session cart. A zero quantity
// means one.
func (o *Orchestrator) AddToCart(sessionID string, req models.TransactionRequest) (models.TransactionResponse, error) {
	part, err := o.engine.GetByID(req.PartNumber)
	if err != nil {
		metrics.CartMutations.WithLabelValues("add", metrics.OutcomeError).Inc()
		return models.TransactionResponse{}, fmt.Errorf("part %s: %w", req.PartNumber, err)
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	if err := cart.ValidateDiscount(req.DiscountCode); err != nil {
		metrics.CartMutations.WithLabelValues("add", metrics.OutcomeError).Inc()
		return models.TransactionResponse{}, err
	}

	var resp models.TransactionResponse
	_, err = o.sessions.WithSession(sessionID, func(s *storage.Session) error {
		if _, err := s.Cart.Add(part, qty, req.SelectedOptions); err != nil {
			return err
		}
		applyDiscount(s, req.DiscountCode)
		shown := part
		s.LastShownPart = &shown
		resp = models.TransactionResponse{
			Success: true,
			Message: fmt.Sprintf("Added %d x %s to cart", qty, part.Name),
			Cart:    s.Cart.View(),
			SuggestedActions: []string{
				"View cart",
				"Continue shopping",
				"Proceed to checkout",
			},
		}
		return nil
	})
	o.recordMutation("add", sessionID, err)
	return resp, err
}

// UpdateCart sets the quantity of a line, identified by line ID or SKU. A
// zero quantity removes the line.
func (o *Orchestrator) UpdateCart(sessionID string, req models.TransactionRequest) (models.TransactionResponse, error) {
	ref := req.CartItemID
	if ref == "" {
		ref = req.PartNumber
	}
	return o.mutate("update", sessionID, func(s *storage.Session) (string, error) {
		if err := cart.ValidateDiscount(req.DiscountCode); err != nil {
			return "", err
		}
		if err := s.Cart.Update(ref, req.Quantity); err != nil {
			return "", err
		}
		applyDiscount(s, req.DiscountCode)
		if req.Quantity == 0 {
			return "Item removed from cart", nil
		}
		return "Cart updated", nil
	})
}

func (o *Orchestrator) RemoveFromCart(sessionID string, req models.TransactionRequest) (models.TransactionResponse, error) {
	ref := req.CartItemID
	if ref == "" {
		ref = req.PartNumber
	}
	return o.mutate("remove", sessionID, func(s *storage.Session) (string, error) {
		return "Item removed from cart", s.Cart.Remove(ref)
	})
}

func (o *Orchestrator) ClearCart(sessionID string) (models.TransactionResponse, error) {
	return o.mutate("clear", sessionID, func(s *storage.Session) (string, error) {
		s.Cart.Clear()
		return "Cart cleared", nil
	})
}

// Cart returns a snapshot of the session cart. An unknown session has an
// empty cart and is not created.
func (o *Orchestrator) Cart(sessionID string) models.CartView {
	view := cart.New().View()
	o.sessions.ReadSession(sessionID, func(s *storage.Session) {
		view = s.Cart.View()
	})
	return view
}

// applyDiscount records an already validated code. No code leaves the
// current one in place.
func applyDiscount(s *storage.Session, code string) {
	if code == "" {
		return
	}
	if err := s.Cart.ApplyDiscount(code); err != nil {
		slog.Warn("Discount rejected after validation", "session_id", s.ID, "code", code, "err", err)
	}
}

func (o *Orchestrator) mutate(action, sessionID string, fn func(*storage.Session) (string, error)) (models.TransactionResponse, error) {
	var resp models.TransactionResponse
	_, err := o.sessions.WithSession(sessionID, func(s *storage.Session) error {
		message, err := fn(s)
		if err != nil {
			return err
		}
		resp = models.TransactionResponse{Success: true, Message: message, Cart: s.Cart.View()}
		return nil
	})
	o.recordMutation(action, sessionID, err)
	return resp, err
}

func (o *Orchestrator) recordMutation(action, sessionID string, err error) {
	metrics.CartMutations.WithLabelValues(action, metrics.OutcomeOf(err)).Inc()
	if err != nil {
		slog.Warn("Cart mutation failed", "action", action, "session_id", sessionID, "err", err)
	}
}
