package retrieval

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/catalog"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/semantic"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

// SafetyNote accompanies every installation guide.
const SafetyNote = "Always disconnect power before beginning any repair"

const (
	maxAlternatives = 3
	maxDiagnoses    = 5
	maxListedModels = 5
)

// Compatibility is the verdict for one part and model pair.
type Compatibility struct {
	Compatible       bool     `json:"compatible"`
	PartNumber       string   `json:"part_number"`
	ModelNumber      string   `json:"model_number"`
	PartName         string   `json:"part_name,omitempty"`
	CompatibleModels []string `json:"compatible_models,omitempty"`
	Reason           string   `json:"reason"`
}

// CheckCompatibility tests modelID against the part's compatible models.
// A model matches when either string contains the other, ignoring case.
func (e *Engine) CheckCompatibility(partID, modelID string) Compatibility {
	result := Compatibility{PartNumber: partID, ModelNumber: modelID}
	p, err := e.catalog.Lookup(partID)
	if err != nil {
		result.Reason = "Part not found"
		return result
	}

	result.PartName = p.Name
	listed := p.Compatibility.CompatibleModels
	if len(listed) > maxListedModels {
		listed = listed[:maxListedModels]
	}
	result.CompatibleModels = listed

	model := strings.ToLower(strings.TrimSpace(modelID))
	for _, candidate := range p.Compatibility.CompatibleModels {
		c := strings.ToLower(strings.TrimSpace(candidate))
		if model == "" || c == "" {
			continue
		}
		if strings.Contains(c, model) || strings.Contains(model, c) {
			result.Compatible = true
			break
		}
	}
	if result.Compatible {
		result.Reason = "Model found in compatibility list"
	} else {
		result.Reason = "Model not in compatibility list"
	}
	return result
}

// Alternative is a replacement candidate for a reference part.
type Alternative struct {
	Part            models.Part `json:"part"`
	SimilarityScore float64     `json:"similarity_score"`
	ReplacementType string      `json:"replacement_type"`
}

// FindAlternatives returns parts in the same category and appliance type as
// the reference part, same-brand first, capped at 3.
func (e *Engine) FindAlternatives(partID string, k int) []Alternative {
	ref, err := e.catalog.Lookup(partID)
	if err != nil {
		return nil
	}
	if k <= 0 || k > maxAlternatives {
		k = maxAlternatives
	}

	var alternatives []Alternative
	for _, p := range e.catalog.All() {
		if p.PartSelectNumber == ref.PartSelectNumber {
			continue
		}
		if p.Category != ref.Category || p.ApplianceType != ref.ApplianceType {
			continue
		}
		score := 0.7
		if p.Brand == ref.Brand {
			score = 0.9
		}
		alternatives = append(alternatives, Alternative{Part: p, SimilarityScore: score, ReplacementType: "Direct alternative"})
	}
	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].SimilarityScore > alternatives[j].SimilarityScore
	})
	if len(alternatives) > k {
		alternatives = alternatives[:k]
	}
	return alternatives
}

// FindSimilar returns the k parts nearest to the reference part in the
// semantic index, excluding the reference itself. Without a backend it
// falls back to FindAlternatives.
func (e *Engine) FindSimilar(ctx context.Context, partID string, k int) ([]Scored, error) {
	ref, err := e.catalog.Lookup(partID)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}
	if e.semantic == nil {
		alts := e.FindAlternatives(partID, k)
		results := make([]Scored, len(alts))
		for i, a := range alts {
			results[i] = Scored{Part: a.Part, Score: a.SimilarityScore, Source: SourceTraditional}
		}
		return results, nil
	}

	hits := e.semanticSearch(ctx, semantic.PartText(ref), k+1, vectorstore.Filter{})
	results := make([]Scored, 0, k)
	for _, h := range hits {
		if h.Part.PartSelectNumber == ref.PartSelectNumber {
			continue
		}
		results = append(results, h)
		if len(results) == k {
			break
		}
	}
	return results, nil
}

// Guide is the installation guide for one part.
type Guide struct {
	PartNumber     string `json:"part_number"`
	PartName       string `json:"part_name"`
	Difficulty     string `json:"difficulty"`
	TimeRequired   string `json:"time_required"`
	ToolsRequired  bool   `json:"tools_required"`
	Instructions   string `json:"instructions"`
	VideoAvailable bool   `json:"video_available"`
	SafetyNotes    string `json:"safety_notes"`
}

func (e *Engine) InstallationGuide(partID string) (Guide, error) {
	p, err := e.catalog.Lookup(partID)
	if err != nil {
		return Guide{}, err
	}
	return Guide{
		PartNumber:     p.PartSelectNumber,
		PartName:       p.Name,
		Difficulty:     orDefault(p.Installation.Difficulty, "Unknown"),
		TimeRequired:   orDefault(p.Installation.TimeRequired, "Unknown"),
		ToolsRequired:  p.Installation.ToolsRequired,
		Instructions:   orDefault(p.Installation.Instructions, "No instructions available"),
		VideoAvailable: p.Installation.VideoAvailable,
		SafetyNotes:    SafetyNote,
	}, nil
}

// Diagnosis is a part that may fix reported symptoms.
type Diagnosis struct {
	Part              models.Part `json:"part"`
	SymptomsAddressed []string    `json:"symptoms_addressed"`
	Confidence        float64     `json:"confidence"`
}

// Troubleshoot finds parts whose fixed symptoms or common issues overlap
// the symptom text in either direction. Confidence is 0.8 when more than
// one fixed symptom appears in the text, else 0.6.
func (e *Engine) Troubleshoot(symptoms, applianceType string) []Diagnosis {
	text := strings.ToLower(strings.TrimSpace(symptoms))
	if text == "" {
		return nil
	}

	var diagnoses []Diagnosis
	for _, p := range e.catalog.All() {
		if applianceType != "" && !strings.EqualFold(p.ApplianceType, applianceType) {
			continue
		}
		phrases := append(append([]string{}, p.Troubleshooting.SymptomsFixed...), p.Troubleshooting.CommonIssues...)
		if !overlaps(text, phrases) {
			continue
		}
		var addressed []string
		for _, s := range p.Troubleshooting.SymptomsFixed {
			if ls := strings.ToLower(s); ls != "" && strings.Contains(text, ls) {
				addressed = append(addressed, s)
			}
		}
		confidence := 0.6
		if len(addressed) > 1 {
			confidence = 0.8
		}
		diagnoses = append(diagnoses, Diagnosis{Part: p, SymptomsAddressed: addressed, Confidence: confidence})
	}

	sort.SliceStable(diagnoses, func(i, j int) bool { return diagnoses[i].Confidence > diagnoses[j].Confidence })
	if len(diagnoses) > maxDiagnoses {
		diagnoses = diagnoses[:maxDiagnoses]
	}
	return diagnoses
}

func overlaps(text string, phrases []string) bool {
	for _, phrase := range phrases {
		p := strings.ToLower(strings.TrimSpace(phrase))
		if p == "" {
			continue
		}
		if strings.Contains(text, p) || strings.Contains(p, text) {
			return true
		}
	}
	return false
}

// Ordering summarizes how a part can be bought.
type Ordering struct {
	PartNumber           string  `json:"part_number"`
	PartName             string  `json:"part_name"`
	Price                float64 `json:"price"`
	InStock              bool    `json:"in_stock"`
	ShippingTime         string  `json:"shipping_time"`
	FreeShippingEligible bool    `json:"free_shipping_eligible"`
	Warranty             string  `json:"warranty"`
	ReturnPolicy         string  `json:"return_policy"`
}

func (e *Engine) OrderingInfo(partID string) (Ordering, error) {
	p, err := e.catalog.Lookup(partID)
	if err != nil {
		return Ordering{}, err
	}
	shipping := "3-5 business days"
	if !p.InStock {
		shipping = "Ships when back in stock"
	}
	return Ordering{
		PartNumber:           p.PartSelectNumber,
		PartName:             p.Name,
		Price:                p.Price,
		InStock:              p.InStock,
		ShippingTime:         shipping,
		FreeShippingEligible: p.Price >= 50,
		Warranty:             "1-year manufacturer warranty",
		ReturnPolicy:         "30-day return policy",
	}, nil
}

// IsNotFound reports whether err is a catalog miss.
func IsNotFound(err error) bool { return errors.Is(err, catalog.ErrNotFound) }

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
