// Package intent classifies what a user is asking for and extracts the
// identifiers the specialists need.
package intent

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/scope"
)

const (
	defaultConfidence  = 0.5
	overrideConfidence = 0.8
)

// Classification is the outcome of classifying one query.
type Classification struct {
	Intent     Intent             `json:"intent"`
	Confidence float64            `json:"confidence"`
	Entities   Entities           `json:"extracted_entities"`
	Scores     map[string]float64 `json:"intent_scores,omitempty"`
	Scope      scope.Decision     `json:"scope"`
	Reasoning  string             `json:"reasoning"`
}

// ScopeClassifier is the gate run before intent scoring.
type ScopeClassifier interface {
	Classify(text string) result.Result[scope.Decision]
}

type Classifier struct {
	scope ScopeClassifier
}

func NewClassifier(s ScopeClassifier) *Classifier {
	return &Classifier{scope: s}
}

// Classify returns a failure, never a default intent, when classification
// breaks; callers must stop the pipeline on failure.
func (c *Classifier) Classify(text string) (res result.Result[Classification]) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Intent classification failed", "panic", r)
			res = result.Failure[Classification]("intent classification failed: %v", r)
		}
	}()

	scopeRes := c.scope.Classify(text)
	decision, ok := scopeRes.Get()
	if !ok {
		return result.Failure[Classification]("scope classification failed: %s", scopeRes.Reason())
	}
	if !decision.InScope {
		return result.Success(Classification{
			Intent:     OutOfScope,
			Confidence: decision.Confidence,
			Entities:   Entities{},
			Scope:      decision,
			Reasoning:  "Query is outside refrigerator/dishwasher parts scope: " + decision.Reasoning,
		})
	}

	query := strings.ToLower(strings.TrimSpace(text))
	entities := ExtractEntities(text)
	primary, confidence, scores := score(query)

	if len(entities.PartNumbers) > 0 {
		primary = override(query, primary)
		confidence = max(confidence, overrideConfidence)
	}

	return result.Success(Classification{
		Intent:     primary,
		Confidence: confidence,
		Entities:   entities,
		Scores:     scores,
		Scope:      decision,
		Reasoning:  fmt.Sprintf("Classified as %s based on patterns and entities", primary),
	})
}

// score counts matching trigger patterns per intent, normalized by the
// size of each pattern set.
func score(query string) (Intent, float64, map[string]float64) {
	scores := make(map[string]float64)
	best, bestScore := GeneralInfo, 0.0
	for _, r := range rules {
		matched := 0
		for _, p := range r.patterns {
			if p.MatchString(query) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		s := float64(matched) / float64(len(r.patterns))
		scores[r.intent.String()] = s
		if s > bestScore {
			best, bestScore = r.intent, s
		}
	}
	if bestScore == 0 {
		return GeneralInfo, defaultConfidence, scores
	}
	return best, bestScore, scores
}

// override picks the intent implied by a part number in the query.
func override(query string, current Intent) Intent {
	switch {
	case installMention.MatchString(query):
		return InstallationHelp
	case fitMention.MatchString(query):
		return CompatibilityCheck
	case purchaseMention.MatchString(query):
		if current == PurchaseIntent || current == CartOperations {
			return current
		}
		return PurchaseIntent
	default:
		return PartLookup
	}
}
