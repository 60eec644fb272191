package specialists

import (
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
)

// Compatibility checks parts against appliance model numbers.
type Compatibility struct {
	retriever Retriever
}

func NewCompatibility(r Retriever) *Compatibility {
	return &Compatibility{retriever: r}
}

func (c *Compatibility) Name() string { return "compatibility" }

func (c *Compatibility) Handle(_ context.Context, req Request) (res result.Result[Outcome]) {
	defer recoverStage(c.Name(), &res)
	e := req.Classification.Entities
	partIDs := e.PartNumbers
	modelIDs := e.ModelNumbers

	switch {
	case len(partIDs) > 0 && len(modelIDs) > 0:
		var checks []retrieval.Compatibility
		var parts []models.Part
		for _, pid := range partIDs {
			for _, mid := range modelIDs {
				checks = append(checks, c.retriever.CheckCompatibility(pid, mid))
			}
			if p, err := c.retriever.GetByID(pid); err == nil {
				parts = append(parts, p)
			}
		}
		return result.Success(Outcome{
			Kind:          "direct_check",
			Parts:         parts,
			Compatibility: checks,
			Message:       summarizeChecks(checks),
			Confidence:    0.9,
		}, "check_compatibility", "get_part_by_id")

	case len(partIDs) > 0:
		var parts []models.Part
		for _, pid := range partIDs {
			if p, err := c.retriever.GetByID(pid); err == nil {
				parts = append(parts, p)
			}
		}
		return result.Success(Outcome{
			Kind:       "part_lookup_with_models",
			Parts:      parts,
			Message:    "Please provide your appliance model number to confirm this part fits. The compatible models for this part are listed below.",
			Confidence: 0.7,
		}, "get_part_by_id")

	case len(modelIDs) > 0:
		return result.Success(Outcome{
			Kind:       "model_lookup",
			Message:    "To find compatible parts, please specify what type of part you need (e.g., water filter, ice maker, door seal)",
			Confidence: 0.5,
		})

	default:
		return result.Success(Outcome{
			Kind:       "general_compatibility",
			Message:    "To check compatibility, please provide both a part number (like PS12364199) and your appliance model number (like WDT780SAEM1)",
			Confidence: 0.3,
		})
	}
}

func summarizeChecks(checks []retrieval.Compatibility) string {
	compatible := 0
	for _, c := range checks {
		if c.Compatible {
			compatible++
		}
	}
	return fmt.Sprintf("Checked %d part and model combinations, %d compatible", len(checks), compatible)
}
