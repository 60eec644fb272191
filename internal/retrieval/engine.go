// Package retrieval ranks catalog parts for free-text queries and answers
// identifier-based lookups (compatibility, installation, alternatives).
package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/catalog"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

// Result sources.
const (
	SourceTraditional = "traditional"
	SourceSemantic    = "semantic"
)

// Relevance tiers of the keyword scoring chain.
const (
	ScoreIdentifier = 1.0
	ScoreCategory   = 0.9
	ScoreAppliance  = 0.8
	ScoreName       = 0.7
	ScoreBrand      = 0.6
	ScoreSymptom    = 0.8
)

const defaultLimit = 10

// Semantic is a nearest-neighbor backend over the catalog.
type Semantic interface {
	Name() string
	Search(ctx context.Context, text string, k int, filter vectorstore.Filter) ([]vectorstore.Match, error)
}

// Query is a keyword search request. Non-empty filter fields exclude
// non-matching parts outright.
type Query struct {
	Text          string
	Category      string
	ApplianceType string
	Brand         string
	Limit         int
}

// Scored is a ranked part.
type Scored struct {
	Part   models.Part `json:"part"`
	Score  float64     `json:"relevance_score"`
	Source string      `json:"source"`
}

// Parts strips scores.
func Parts(scored []Scored) []models.Part {
	parts := make([]models.Part, len(scored))
	for i, s := range scored {
		parts[i] = s.Part
	}
	return parts
}

type Engine struct {
	catalog  *catalog.Catalog
	semantic Semantic
}

// NewEngine builds an engine. semantic may be nil for keyword-only search.
func NewEngine(c *catalog.Catalog, semantic Semantic) *Engine {
	return &Engine{catalog: c, semantic: semantic}
}

// SemanticBackend names the configured backend, or "none".
func (e *Engine) SemanticBackend() string {
	if e.semantic == nil {
		return "none"
	}
	return e.semantic.Name()
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Search runs the keyword scoring chain over the catalog.
func (e *Engine) Search(q Query) []Scored {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	text := strings.ToLower(q.Text)
	tokens := strings.Fields(text)

	var results []Scored
	for _, p := range e.catalog.All() {
		if !passesFilters(p, q) {
			continue
		}
		score := keywordScore(p, q, text, tokens)
		if score == 0 {
			continue
		}
		results = append(results, Scored{Part: p, Score: score, Source: SourceTraditional})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func passesFilters(p models.Part, q Query) bool {
	if q.ApplianceType != "" && !strings.EqualFold(p.ApplianceType, q.ApplianceType) {
		return false
	}
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if q.Brand != "" && !strings.EqualFold(p.Brand, q.Brand) {
		return false
	}
	return true
}

// keywordScore returns the first tier of the priority chain that matches.
// A symptom phrase found in the query lifts weaker scores to ScoreSymptom
// but never lowers an identifier or category match.
func keywordScore(p models.Part, q Query, text string, tokens []string) float64 {
	var score float64
	switch {
	case containsID(text, p.PartSelectNumber) || containsID(text, p.ManufacturerPartNumber):
		score = ScoreIdentifier
	case q.Category != "" && strings.EqualFold(p.Category, q.Category):
		score = ScoreCategory
	case q.ApplianceType != "" && strings.EqualFold(p.ApplianceType, q.ApplianceType):
		score = ScoreAppliance
	case anyTokenIn(tokens, strings.ToLower(p.Name)):
		score = ScoreName
	case anyTokenIn(tokens, strings.ToLower(p.Brand)):
		score = ScoreBrand
	}

	if score < ScoreSymptom {
		for _, symptom := range p.Troubleshooting.SymptomsFixed {
			if s := strings.ToLower(strings.TrimSpace(symptom)); s != "" && strings.Contains(text, s) {
				score = ScoreSymptom
				break
			}
		}
	}
	return score
}

func containsID(text, id string) bool {
	id = strings.ToLower(strings.TrimSpace(id))
	return id != "" && strings.Contains(text, id)
}

func anyTokenIn(tokens []string, field string) bool {
	if field == "" {
		return false
	}
	for _, t := range tokens {
		if strings.Contains(field, t) {
			return true
		}
	}
	return false
}

// Hybrid merges keyword results with semantic results. Keyword results
// come first and win identifier collisions. Without a semantic backend, or
// when the backend fails, it returns the keyword results alone.
func (e *Engine) Hybrid(ctx context.Context, q Query, filter vectorstore.Filter) []Scored {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	kq := q
	if filter.InStockOnly {
		kq.Limit = max(e.catalog.Len(), 1)
	}
	keyword := e.Search(kq)
	if filter.InStockOnly {
		keyword = inStock(keyword)
	}
	if e.semantic == nil {
		if len(keyword) > limit {
			keyword = keyword[:limit]
		}
		return keyword
	}

	if filter.ApplianceType == "" {
		filter.ApplianceType = q.ApplianceType
	}
	if filter.Brand == "" {
		filter.Brand = q.Brand
	}
	if filter.Category == "" {
		filter.Category = q.Category
	}
	semantic := e.semanticSearch(ctx, q.Text, limit, filter)
	merged := merge(keyword, semantic, limit)
	if filter.InStockOnly {
		merged = inStock(merged)
	}
	return merged
}

func inStock(results []Scored) []Scored {
	out := results[:0:0]
	for _, s := range results {
		if s.Part.InStock {
			out = append(out, s)
		}
	}
	return out
}

func merge(keyword, semantic []Scored, limit int) []Scored {
	merged := make([]Scored, 0, len(keyword)+len(semantic))
	seen := make(map[string]bool, len(keyword))
	for _, s := range keyword {
		seen[s.Part.PartSelectNumber] = true
		merged = append(merged, s)
	}
	for _, s := range semantic {
		if seen[s.Part.PartSelectNumber] {
			continue
		}
		seen[s.Part.PartSelectNumber] = true
		merged = append(merged, s)
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// semanticSearch queries the backend and re-hydrates hits from the catalog.
// Errors degrade to no results.
func (e *Engine) semanticSearch(ctx context.Context, text string, k int, filter vectorstore.Filter) []Scored {
	if e.semantic == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	matches, err := e.semantic.Search(ctx, text, k, filter)
	if err != nil {
		slog.Warn("Semantic search unavailable, using keyword results",
			"backend", e.semantic.Name(),
			"err", err)
		return nil
	}
	results := make([]Scored, 0, len(matches))
	for _, m := range matches {
		p, err := e.catalog.Lookup(m.ID)
		if err != nil {
			slog.Debug("Semantic hit not in catalog", "part", m.ID)
			continue
		}
		results = append(results, Scored{Part: p, Score: m.Score, Source: SourceSemantic})
	}
	return results
}

// GetByID finds a part by SKU or manufacturer number.
func (e *Engine) GetByID(id string) (models.Part, error) {
	return e.catalog.Lookup(id)
}

// GetByCategory returns parts whose category matches exactly, in catalog order.
func (e *Engine) GetByCategory(category, applianceType string, limit int) []models.Part {
	if limit <= 0 {
		limit = defaultLimit
	}
	var parts []models.Part
	for _, p := range e.catalog.All() {
		if !strings.EqualFold(p.Category, category) {
			continue
		}
		if applianceType != "" && !strings.EqualFold(p.ApplianceType, applianceType) {
			continue
		}
		parts = append(parts, p)
		if len(parts) == limit {
			break
		}
	}
	return parts
}
