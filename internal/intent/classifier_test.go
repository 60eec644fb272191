package intent

import (
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/scope"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(scope.NewClassifier())
	tests := []struct {
		name    string
		query   string
		intent  Intent
		minConf float64
	}{
		{name: "bare part number", query: "PS12364199", intent: PartLookup, minConf: 0.8},
		{name: "install with part", query: "how do I install PS12364199", intent: InstallationHelp, minConf: 0.8},
		{name: "compatibility pair", query: "is PS12364199 compatible with WDT780SAEM1", intent: CompatibilityCheck, minConf: 0.8},
		{name: "buy part", query: "I want to buy PS12364199", intent: PurchaseIntent, minConf: 0.8},
		{name: "confirmation", query: "yes", intent: PurchaseConfirmation},
		{name: "add category to cart", query: "add an ice maker part to my cart", intent: CartOperations},
		{name: "symptom", query: "my dishwasher is not draining", intent: Troubleshooting},
		{name: "common problems", query: "what are common problems with refrigerators", intent: Troubleshooting},
		{name: "pricing", query: "how much does an ice maker cost", intent: PricingInquiry},
		{name: "checkout", query: "help me check out", intent: CheckoutAssistance},
		{name: "search", query: "looking for a water filter for my fridge", intent: ProductSearch},
		{name: "general", query: "tell me about dishwasher racks", intent: GeneralInfo},
		{name: "out of scope", query: "what is the weather today", intent: OutOfScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.query)
			got, ok := res.Get()
			if !ok {
				t.Fatalf("Unexpected failure: %s", res.Reason())
			}
			if got.Intent != tt.intent {
				t.Errorf("Expected %s, got %s (scores %v)", tt.intent, got.Intent, got.Scores)
			}
			if got.Confidence < tt.minConf || got.Confidence > 1 {
				t.Errorf("Confidence %f outside [%f, 1]", got.Confidence, tt.minConf)
			}
		})
	}
}

func TestClassifyDefaultsToGeneralInfo(t *testing.T) {
	c := NewClassifier(scope.NewClassifier())
	got, _ := c.Classify("fridge").Get()
	if got.Intent != GeneralInfo || got.Confidence != 0.5 {
		t.Errorf("Expected general_info at 0.5, got %s at %f", got.Intent, got.Confidence)
	}
}

func TestCompatibilityEntities(t *testing.T) {
	c := NewClassifier(scope.NewClassifier())
	got, _ := c.Classify("is PS12364199 compatible with WDT780SAEM1").Get()
	if !reflect.DeepEqual(got.Entities.PartNumbers, []string{"PS12364199"}) {
		t.Errorf("Unexpected part numbers %v", got.Entities.PartNumbers)
	}
	if !reflect.DeepEqual(got.Entities.ModelNumbers, []string{"WDT780SAEM1"}) {
		t.Errorf("Unexpected model numbers %v", got.Entities.ModelNumbers)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := NewClassifier(scope.NewClassifier())
	queries := []string{
		"is PS12364199 compatible with WDT780SAEM1",
		"my GE dishwasher is leaking and making noise",
		"add an ice maker part to my cart",
	}
	for _, q := range queries {
		a, _ := c.Classify(q).Get()
		b, _ := c.Classify(q).Get()
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Classification of %q changed between runs:\n%+v\n%+v", q, a, b)
		}
	}
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Entities
	}{
		{
			name:  "duplicates collapse",
			query: "PS12364199 or ps12364199 or PS 12364199",
			expected: Entities{
				PartNumbers: []string{"PS12364199"}, ModelNumbers: []string{}, Brands: []string{},
				ApplianceTypes: []string{}, Categories: []string{}, Symptoms: []string{},
			},
		},
		{
			name:  "brands are whole words",
			query: "change the GE fridge water filter in my Refrigerator",
			expected: Entities{
				PartNumbers: []string{}, ModelNumbers: []string{}, Brands: []string{"GE"},
				ApplianceTypes: []string{"refrigerator"}, Categories: []string{"water filter"}, Symptoms: []string{},
			},
		},
		{
			name:  "symptoms and categories",
			query: "Whirlpool dishwasher drain pump leaking, not draining",
			expected: Entities{
				PartNumbers: []string{}, ModelNumbers: []string{}, Brands: []string{"Whirlpool"},
				ApplianceTypes: []string{"dishwasher"}, Categories: []string{"drain pump", "pump"},
				Symptoms: []string{"leaking", "not draining"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEntities(tt.query)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

type panickingScope struct{}

func (panickingScope) Classify(string) result.Result[scope.Decision] { panic("boom") }

type failingScope struct{}

func (failingScope) Classify(string) result.Result[scope.Decision] {
	return result.Failure[scope.Decision]("unavailable")
}

func TestClassifyFailureCarriesNoIntent(t *testing.T) {
	for _, s := range []ScopeClassifier{panickingScope{}, failingScope{}} {
		res := NewClassifier(s).Classify("PS12364199")
		if res.OK() {
			t.Fatal("Expected failure")
		}
		if _, ok := res.Get(); ok {
			t.Error("Failure must not expose a payload")
		}
		if res.Reason() == "" {
			t.Error("Expected a failure reason")
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, i := range All() {
		got, err := Parse(i.String())
		if err != nil {
			t.Fatalf("Parse(%s): %v", i, err)
		}
		if got != i {
			t.Errorf("Expected %s, got %s", i, got)
		}
	}
	if _, err := Parse("refund_request"); err == nil {
		t.Error("Expected error for unknown intent")
	}
	if len(All()) != 13 {
		t.Errorf("Expected 13 intents, got %d", len(All()))
	}
}
