package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lehigh-university-libraries/partsdesk/internal/cart"
	"github.com/lehigh-university-libraries/partsdesk/internal/orchestrator"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
	"github.com/lehigh-university-libraries/partsdesk/internal/storage"
)

// SessionHeader carries the chat session across requests.
const SessionHeader = "X-Session-ID"

type Handler struct {
	orchestrator  *orchestrator.Orchestrator
	allowedOrigin string
}

func New(o *orchestrator.Orchestrator, allowedOrigin string) *Handler {
	return &Handler{orchestrator: o, allowedOrigin: allowedOrigin}
}

// Routes registers every endpoint and wraps the mux with CORS.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", h.HandleChat)
	mux.HandleFunc("GET /parts/search", h.HandlePartSearch)
	mux.HandleFunc("GET /parts/{id}", h.HandlePartDetail)
	mux.HandleFunc("GET /parts/{id}/similar", h.HandleSimilarParts)
	mux.HandleFunc("GET /parts/{id}/ordering", h.HandleOrderingInfo)
	mux.HandleFunc("POST /compatibility/check", h.HandleCompatibility)
	mux.HandleFunc("GET /cart", h.HandleCart)
	mux.HandleFunc("POST /cart/add", h.HandleCartAdd)
	mux.HandleFunc("POST /cart/update", h.HandleCartUpdate)
	mux.HandleFunc("POST /cart/remove", h.HandleCartRemove)
	mux.HandleFunc("DELETE /cart/clear", h.HandleCartClear)
	mux.HandleFunc("GET /sessions/{id}", h.HandleSessionDetail)
	mux.HandleFunc("DELETE /sessions/{id}", h.HandleSessionDelete)
	mux.HandleFunc("GET /agents/status", h.HandleAgentStatus)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	return h.withCORS(mux)
}

func (h *Handler) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && origin == h.allowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
			w.Header().Set("Access-Control-Expose-Headers", SessionHeader)
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "status", code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": message}); err != nil {
		slog.Error("Unable to encode JSON error", "err", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case retrieval.IsNotFound(err), errors.Is(err, cart.ErrUnknownLine):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrUnknownDiscount), errors.Is(err, cart.ErrPartNotPurchased):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Session helpers

// sessionID returns the caller's session, minting one when the header is
// absent, and echoes it on the response.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = storage.NewID()
	}
	w.Header().Set(SessionHeader, id)
	return id
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
