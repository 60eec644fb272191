package specialists

import (
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

const searchLimit = 10

// Search resolves part identifiers, categories or free text to parts.
type Search struct {
	retriever Retriever
}

func NewSearch(r Retriever) *Search {
	return &Search{retriever: r}
}

func (s *Search) Name() string { return "search" }

// Handle tries direct lookup, then category search, then hybrid text
// search, stopping at the first strategy that finds anything.
func (s *Search) Handle(ctx context.Context, req Request) (res result.Result[Outcome]) {
	defer recoverStage(s.Name(), &res)
	e := req.Classification.Entities

	if len(e.PartNumbers) > 0 {
		var parts []models.Part
		for _, id := range e.PartNumbers {
			p, err := s.retriever.GetByID(id)
			if err != nil {
				continue
			}
			parts = append(parts, p)
		}
		if len(parts) > 0 {
			return result.Success(Outcome{
				Kind:       "direct_lookup",
				Parts:      parts,
				Message:    fmt.Sprintf("Found %d parts by direct lookup", len(parts)),
				Confidence: 1.0,
			}, "get_part_by_id")
		}
	}

	if len(e.Categories) > 0 {
		parts := s.byCategory(e.Categories, first(e.ApplianceTypes))
		if len(parts) > 0 {
			return result.Success(Outcome{
				Kind:       "category_search",
				Parts:      parts,
				Message:    fmt.Sprintf("Found %d parts in matching categories", len(parts)),
				Confidence: 0.8,
			}, "get_parts_by_category")
		}
	}

	// Category already failed above, so only appliance and brand narrow
	// the text search.
	q := retrieval.Query{
		Text:          req.Query,
		ApplianceType: first(e.ApplianceTypes),
		Brand:         first(e.Brands),
		Limit:         searchLimit,
	}
	scored := s.retriever.Hybrid(ctx, q, vectorstore.Filter{})
	parts := retrieval.Parts(scored)
	confidence := 0.7
	if len(parts) == 0 {
		confidence = 0.3
	}
	return result.Success(Outcome{
		Kind:       "text_search",
		Parts:      parts,
		Message:    fmt.Sprintf("Found %d parts matching your search", len(parts)),
		Confidence: confidence,
	}, "search_parts")
}

func (s *Search) byCategory(categories []string, applianceType string) []models.Part {
	seen := make(map[string]bool)
	var parts []models.Part
	for _, c := range categories {
		for _, p := range s.retriever.GetByCategory(c, applianceType, searchLimit) {
			if seen[p.PartSelectNumber] {
				continue
			}
			seen[p.PartSelectNumber] = true
			parts = append(parts, p)
			if len(parts) == searchLimit {
				return parts
			}
		}
	}
	return parts
}
