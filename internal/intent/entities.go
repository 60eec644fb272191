package intent

import (
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/scope"
)

// Entities are the identifiers and vocabulary found in a query. Every
// field is a set: values are unique and kept in first-seen order.
type Entities struct {
	PartNumbers    []string `json:"part_numbers"`
	ModelNumbers   []string `json:"model_numbers"`
	Brands         []string `json:"brands"`
	ApplianceTypes []string `json:"appliance_types"`
	Categories     []string `json:"categories"`
	Symptoms       []string `json:"symptoms,omitempty"`
}

// Empty reports whether nothing was extracted.
func (e Entities) Empty() bool {
	return len(e.PartNumbers)+len(e.ModelNumbers)+len(e.Brands)+len(e.ApplianceTypes)+len(e.Categories) == 0
}

var brands = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"Whirlpool", wholeWord("whirlpool")},
	{"Kenmore", wholeWord("kenmore")},
	{"GE", wholeWord("ge")},
	{"Frigidaire", wholeWord("frigidaire")},
	{"LG", wholeWord("lg")},
	{"Samsung", wholeWord("samsung")},
	{"KitchenAid", wholeWord("kitchenaid")},
	{"Bosch", wholeWord("bosch")},
	{"Maytag", wholeWord("maytag")},
}

var appliances = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"refrigerator", regexp.MustCompile(`(?i)\b(refrigerators?|fridges?|freezers?)\b`)},
	{"dishwasher", regexp.MustCompile(`(?i)\bdishwashers?\b`)},
}

var categories = []string{
	"water filter", "ice maker", "door seal", "door shelf", "door bin", "drawer",
	"wash arm", "spray arm", "drain pump", "pump", "rack", "control board",
	"motor", "valve", "gasket", "thermostat", "dispenser", "heating element",
}

// SymptomVocabulary lists the symptom phrases recognized in queries.
var SymptomVocabulary = []string{
	"not working", "broken", "not cooling", "not heating",
	"making noise", "leaking", "not draining", "won't start",
	"not cleaning", "door won't close", "ice not dispensing",
	"water not flowing", "temperature issues", "vibrating",
	"overheating", "freezing up", "not defrosting",
}

func wholeWord(w string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
}

// ExtractEntities pulls identifiers and vocabulary out of text.
func ExtractEntities(text string) Entities {
	lower := strings.ToLower(text)
	var e Entities

	parts := newSet()
	for _, m := range scope.PartNumberPattern.FindAllString(text, -1) {
		parts.add(normalizeID(m))
	}
	e.PartNumbers = parts.values()

	models := newSet()
	for _, m := range scope.ModelNumberPattern.FindAllString(text, -1) {
		if id := normalizeID(m); !parts.has(id) {
			models.add(id)
		}
	}
	e.ModelNumbers = models.values()

	bs := newSet()
	for _, b := range brands {
		if b.pattern.MatchString(lower) {
			bs.add(b.name)
		}
	}
	e.Brands = bs.values()

	as := newSet()
	for _, a := range appliances {
		if a.pattern.MatchString(lower) {
			as.add(a.name)
		}
	}
	e.ApplianceTypes = as.values()

	cs := newSet()
	for _, c := range categories {
		if strings.Contains(lower, c) {
			cs.add(c)
		}
	}
	e.Categories = cs.values()

	e.Symptoms = ExtractSymptoms(text)
	return e
}

// ExtractSymptoms returns the known symptom phrases mentioned in text.
func ExtractSymptoms(text string) []string {
	lower := strings.ToLower(text)
	s := newSet()
	for _, symptom := range SymptomVocabulary {
		if strings.Contains(lower, symptom) {
			s.add(symptom)
		}
	}
	return s.values()
}

func normalizeID(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

type set struct {
	seen  map[string]bool
	order []string
}

func newSet() *set { return &set{seen: make(map[string]bool)} }

func (s *set) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.order = append(s.order, v)
}

func (s *set) has(v string) bool { return s.seen[v] }

func (s *set) values() []string {
	if len(s.order) == 0 {
		return []string{}
	}
	return s.order
}
