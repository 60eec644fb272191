// Package scope decides whether a query is about refrigerator or
// dishwasher parts. Anything it cannot place is rejected.
package scope

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/result"
)

var (
	// PartNumberPattern matches retailer and manufacturer part numbers,
	// e.g. PS12364199, W10712395, WPW10321304.
	PartNumberPattern = regexp.MustCompile(`(?i)\b(?:PS\s?\d{8,}|W\d{8,}|[A-Z]{2,3}\d{6,})\b`)

	// ModelNumberPattern matches appliance model numbers, e.g. WDT780SAEM1.
	ModelNumberPattern = regexp.MustCompile(`(?i)\b[A-Z]{2,4}\d{3,}[A-Z]*\d*\b`)

	confirmationPattern = regexp.MustCompile(`(?i)^\s*(?:yes|yeah|yep|ok|okay|sure|proceed|confirm|add it|yes,? add it|do it|sounds good)\s*[.!]*\s*$`)
	generalQuestion     = regexp.MustCompile(`(?i)^\s*(?:(?:what|who|where|when|why)\s+(?:is|are|was|were)\b|explain\b|tell\s+me\s+about\b|define\b|describe\b)`)
)

var (
	applianceTerms = []string{
		"refrigerator", "fridge", "freezer", "dishwasher", "appliance",
		"part", "filter", "ice maker", "icemaker", "ice", "door", "seal", "pump",
		"motor", "control", "board", "rack", "arm", "valve",
		"water filter", "heating element", "drain", "hose",
		"gasket", "thermostat", "compressor", "fan", "belt",
		"switch", "timer", "sensor", "dispenser", "bin",
		"drawer", "shelf", "handle", "latch", "spring",
		"wheel", "roller", "bearing", "coil", "condenser",
		"whirlpool", "kenmore", "frigidaire", "kitchenaid", "maytag", "bosch", "samsung",
	}
	shoppingTerms = []string{
		"buy", "purchase", "order", "cart", "checkout", "price", "pricing", "cost",
		"shipping", "delivery", "discount", "payment", "pay", "return", "refund",
		"warranty", "in stock", "add to cart", "how much", "check out",
	}
	usageTerms = []string{
		"install", "installation", "installing", "replace", "replacement", "repair",
		"fix", "troubleshoot", "broken", "leaking", "leak", "noise", "noisy",
		"not working", "not cooling", "not draining", "not cleaning", "compatible",
		"compatibility", "fit", "model", "manual", "instructions",
	}
	outOfScopeTerms = []string{
		"cat", "dog", "pet", "animal", "weather", "news", "sports", "football",
		"basketball", "politics", "election", "movie", "music", "song", "book",
		"travel", "flight", "hotel", "food", "recipe", "medicine", "doctor",
		"health", "car", "phone", "computer", "software", "game", "gaming", "anime",
		"religion", "philosophy", "god", "gita", "bhagavad", "krishna", "spiritual",
		"biology", "science", "math", "history", "geography", "poem", "joke",
	}
)

// Decision is the scope verdict for one query.
type Decision struct {
	InScope    bool    `json:"is_in_scope"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type Classifier struct {
	vocabularies []vocabulary
	outOfScope   *regexp.Regexp
	normalize    func(string) string
}

type vocabulary struct {
	name    string
	pattern *regexp.Regexp
}

func NewClassifier() *Classifier {
	return &Classifier{
		vocabularies: []vocabulary{
			{name: "appliance", pattern: wordPattern(applianceTerms)},
			{name: "shopping", pattern: wordPattern(shoppingTerms)},
			{name: "usage", pattern: wordPattern(usageTerms)},
		},
		outOfScope: wordPattern(outOfScopeTerms),
		normalize:  func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
	}
}

// wordPattern matches any term as a whole word or phrase, allowing a plural s.
func wordPattern(terms []string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)(?:s|es)?\b`)
}

// Classify never fails: an internal error yields an in-scope decision so
// the user still gets an answer.
func (c *Classifier) Classify(text string) (res result.Result[Decision]) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Scope classification failed, assuming in scope", "panic", r)
			res = result.Success(Decision{
				InScope:    true,
				Confidence: 0.5,
				Reasoning:  fmt.Sprintf("Error in scope detection: %v", r),
			})
		}
	}()
	return result.Success(c.decide(c.normalize(text)))
}

func (c *Classifier) decide(query string) Decision {
	if PartNumberPattern.MatchString(query) {
		return in(0.95, "Contains part numbers")
	}
	if ModelNumberPattern.MatchString(query) {
		return in(0.95, "Contains model numbers")
	}
	if confirmationPattern.MatchString(query) {
		return in(0.8, "Confirms a previous offer")
	}
	for _, v := range c.vocabularies {
		if v.pattern.MatchString(query) {
			return in(0.9, "Contains "+v.name+" terms")
		}
	}
	if c.outOfScope.MatchString(query) {
		return out(0.9, "Clearly about non-appliance topics")
	}
	if generalQuestion.MatchString(query) {
		return out(0.8, "General question without appliance context")
	}
	return out(0.6, "No refrigerator or dishwasher context")
}

func in(confidence float64, reasoning string) Decision {
	return Decision{InScope: true, Confidence: confidence, Reasoning: reasoning}
}

func out(confidence float64, reasoning string) Decision {
	return Decision{InScope: false, Confidence: confidence, Reasoning: reasoning}
}
