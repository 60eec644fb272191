package handlers

import (
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

const maxSearchLimit = 50

func (h *Handler) HandlePartSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("q")
	if text == "" {
		h.writeError(w, "q is required", http.StatusBadRequest)
		return
	}
	limit, ok := h.limit(w, q.Get("limit"), 10)
	if !ok {
		return
	}

	query := retrieval.Query{
		Text:          text,
		ApplianceType: q.Get("appliance_type"),
		Brand:         q.Get("brand"),
		Category:      q.Get("category"),
		Limit:         limit,
	}
	filter := vectorstore.Filter{InStockOnly: q.Get("in_stock") == "true"}
	results := h.orchestrator.Engine().Hybrid(r.Context(), query, filter)
	if results == nil {
		results = []retrieval.Scored{}
	}
	h.writeJSON(w, map[string]any{"query": text, "results": results})
}

func (h *Handler) HandlePartDetail(w http.ResponseWriter, r *http.Request) {
	part, err := h.orchestrator.Engine().GetByID(r.PathValue("id"))
	if err != nil {
		h.writeError(w, "Part not found", statusFor(err))
		return
	}
	h.writeJSON(w, part)
}

func (h *Handler) HandleSimilarParts(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r.URL.Query().Get("limit"), 5)
	if !ok {
		return
	}
	id := r.PathValue("id")
	similar, err := h.orchestrator.Engine().FindSimilar(r.Context(), id, limit)
	if err != nil {
		h.writeError(w, "Part not found", statusFor(err))
		return
	}
	if similar == nil {
		similar = []retrieval.Scored{}
	}
	h.writeJSON(w, map[string]any{"part_number": id, "results": similar})
}

func (h *Handler) HandleOrderingInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.orchestrator.Engine().OrderingInfo(r.PathValue("id"))
	if err != nil {
		h.writeError(w, "Part not found", statusFor(err))
		return
	}
	h.writeJSON(w, info)
}

// HandleCompatibility reads part_number and model_number from the query
// string.
func (h *Handler) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	part := r.URL.Query().Get("part_number")
	model := r.URL.Query().Get("model_number")
	if part == "" || model == "" {
		h.writeError(w, "part_number and model_number are required", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, h.orchestrator.Engine().CheckCompatibility(part, model))
}

func (h *Handler) limit(w http.ResponseWriter, raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		h.writeError(w, "limit must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return min(n, maxSearchLimit), true
}
