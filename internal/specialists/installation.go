package specialists

import (
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
)

// Installation returns installation guides for identified parts.
type Installation struct {
	retriever Retriever
}

func NewInstallation(r Retriever) *Installation {
	return &Installation{retriever: r}
}

func (i *Installation) Name() string { return "installation" }

func (i *Installation) Handle(_ context.Context, req Request) (res result.Result[Outcome]) {
	defer recoverStage(i.Name(), &res)
	partIDs := req.Classification.Entities.PartNumbers

	if len(partIDs) == 0 {
		return result.Success(Outcome{
			Kind:       "general",
			Message:    "To provide specific installation instructions, please provide the part number (like PS12364199) you need help installing.",
			Confidence: 0.3,
			SuggestedActions: []string{
				"Search for your part",
				"Check part compatibility",
			},
		})
	}

	var guides []retrieval.Guide
	var parts []models.Part
	for _, id := range partIDs {
		g, err := i.retriever.InstallationGuide(id)
		if err != nil {
			continue
		}
		guides = append(guides, g)
		if p, err := i.retriever.GetByID(id); err == nil {
			parts = append(parts, p)
		}
	}

	confidence := 0.9
	if len(guides) == 0 {
		confidence = 0.3
	}
	return result.Success(Outcome{
		Kind:       "specific_part",
		Parts:      parts,
		Guides:     guides,
		Message:    fmt.Sprintf("Found installation guides for %d part(s)", len(guides)),
		Confidence: confidence,
	}, "get_installation_guide", "get_part_by_id")
}
