package specialists

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/catalog"
	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
)

func fixtureParts() []models.Part {
	return []models.Part{
		{
			PartSelectNumber: "PS11752778", ManufacturerPartNumber: "WPW10321304",
			Name: "Refrigerator Door Shelf Bin", Brand: "Whirlpool", ApplianceType: "refrigerator",
			Category: "door bin", Price: 44.95, InStock: true,
			Compatibility: models.Compatibility{CompatibleModels: []string{"WDT780SAEM1", "WRS325FDAM04"}},
			Troubleshooting: models.Troubleshooting{
				SymptomsFixed: []string{"door won't close", "leaking"},
				CommonIssues:  []string{"cracked bin"},
			},
		},
		{
			PartSelectNumber: "PS12364199", ManufacturerPartNumber: "W10190965",
			Name: "Ice Maker Assembly", Brand: "Whirlpool", ApplianceType: "refrigerator",
			Category: "ice maker", Price: 89.99, InStock: true,
			Installation: models.Installation{Difficulty: "Easy", TimeRequired: "30 - 60 mins", ToolsRequired: true, Instructions: "Unplug, remove old unit."},
			Troubleshooting: models.Troubleshooting{
				SymptomsFixed: []string{"ice not dispensing", "not making ice"},
			},
		},
		{
			PartSelectNumber: "PS3406971", ManufacturerPartNumber: "WD26X10013",
			Name: "Dishwasher Drain Pump", Brand: "GE", ApplianceType: "dishwasher",
			Category: "pump", Price: 62.50, InStock: false,
			Troubleshooting: models.Troubleshooting{SymptomsFixed: []string{"not draining"}},
		},
		{
			PartSelectNumber: "PS8260087", ManufacturerPartNumber: "W10712395",
			Name: "Upper Rack Adjuster", Brand: "Whirlpool", ApplianceType: "dishwasher",
			Category: "rack", Price: 28.14, InStock: true,
		},
		{
			PartSelectNumber: "PS3406972", ManufacturerPartNumber: "WD26X10051",
			Name: "Circulation Pump", Brand: "Bosch", ApplianceType: "dishwasher",
			Category: "pump", Price: 120.00, InStock: true,
		},
		{
			PartSelectNumber: "PS3406973", ManufacturerPartNumber: "WD26X10052",
			Name: "Drain Pump Kit", Brand: "GE", ApplianceType: "dishwasher",
			Category: "pump", Price: 58.00, InStock: true,
		},
	}
}

func newRouter() *Router {
	return NewRouter(retrieval.NewEngine(catalog.New(fixtureParts()), nil))
}

func request(i intent.Intent, query string) Request {
	return Request{
		Query:          query,
		Classification: intent.Classification{Intent: i, Entities: intent.ExtractEntities(query)},
	}
}

func handle(t *testing.T, s Specialist, req Request) Outcome {
	t.Helper()
	res := s.Handle(t.Context(), req)
	out, ok := res.Get()
	if !ok {
		t.Fatalf("%s failed: %s", s.Name(), res.Reason())
	}
	return out
}

func skus(parts []models.Part) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.PartSelectNumber
	}
	return out
}

func TestRouterCoversEveryIntent(t *testing.T) {
	r := newRouter()
	for _, i := range intent.All() {
		s, ok := r.For(i)
		if i == intent.OutOfScope {
			if ok || s != nil {
				t.Errorf("Expected no specialist for %s", i)
			}
			continue
		}
		if !ok || s == nil {
			t.Errorf("No specialist for %s", i)
		}
	}
	if len(r.All()) != 5 {
		t.Errorf("Expected 5 specialists, got %d", len(r.All()))
	}
}

func TestSearch(t *testing.T) {
	r := newRouter()
	tests := []struct {
		name     string
		query    string
		kind     string
		expected []string
	}{
		{name: "direct lookup", query: "PS12364199", kind: "direct_lookup", expected: []string{"PS12364199"}},
		{name: "manufacturer number", query: "W10712395", kind: "direct_lookup", expected: []string{"PS8260087"}},
		{name: "category", query: "show me a drain pump for my dishwasher", kind: "category_search", expected: []string{"PS3406971", "PS3406972", "PS3406973"}},
		{name: "text", query: "adjuster for whirlpool", kind: "text_search", expected: []string{"PS8260087", "PS11752778", "PS12364199"}},
		{name: "nothing", query: "zzz", kind: "text_search", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := handle(t, r.Search, request(intent.ProductSearch, tt.query))
			if out.Kind != tt.kind {
				t.Errorf("Expected %s, got %s", tt.kind, out.Kind)
			}
			if !reflect.DeepEqual(skus(out.Parts), tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, skus(out.Parts))
			}
		})
	}
}

func TestSearchUnknownPartFallsThrough(t *testing.T) {
	out := handle(t, newRouter().Search, request(intent.PartLookup, "PS99999999"))
	if out.Kind == "direct_lookup" {
		t.Errorf("Unknown part must not produce a direct lookup")
	}
}

func TestCompatibility(t *testing.T) {
	r := newRouter()
	tests := []struct {
		name       string
		query      string
		kind       string
		compatible []bool
	}{
		{name: "listed model", query: "is PS11752778 compatible with WDT780SAEM1", kind: "direct_check", compatible: []bool{true}},
		{name: "unlisted model", query: "is PS12364199 compatible with WDT780SAEM1", kind: "direct_check", compatible: []bool{false}},
		{name: "part only", query: "does PS12364199 fit", kind: "part_lookup_with_models"},
		{name: "model only", query: "what fits WDT780SAEM1", kind: "model_lookup"},
		{name: "nothing", query: "will this fit", kind: "general_compatibility"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := handle(t, r.Compatibility, request(intent.CompatibilityCheck, tt.query))
			if out.Kind != tt.kind {
				t.Fatalf("Expected %s, got %s", tt.kind, out.Kind)
			}
			var got []bool
			for _, c := range out.Compatibility {
				got = append(got, c.Compatible)
			}
			if !reflect.DeepEqual(got, tt.compatible) {
				t.Errorf("Expected %v, got %v", tt.compatible, got)
			}
		})
	}
}

func TestCompatibilityUnknownPart(t *testing.T) {
	out := handle(t, newRouter().Compatibility, request(intent.CompatibilityCheck, "is PS99999999 compatible with WDT780SAEM1"))
	if len(out.Compatibility) != 1 || out.Compatibility[0].Reason != "Part not found" {
		t.Errorf("Expected a single part-not-found verdict, got %+v", out.Compatibility)
	}
	if len(out.Parts) != 0 {
		t.Errorf("Expected no parts, got %v", skus(out.Parts))
	}
}

func TestInstallation(t *testing.T) {
	r := newRouter()

	out := handle(t, r.Installation, request(intent.InstallationHelp, "how do I install PS12364199"))
	if out.Kind != "specific_part" || len(out.Guides) != 1 {
		t.Fatalf("Expected one guide, got %s with %d", out.Kind, len(out.Guides))
	}
	g := out.Guides[0]
	if g.Difficulty != "Easy" || g.SafetyNotes != retrieval.SafetyNote {
		t.Errorf("Unexpected guide %+v", g)
	}

	out = handle(t, r.Installation, request(intent.InstallationHelp, "how do I install a door bin"))
	if out.Kind != "general" || !strings.Contains(out.Message, "part number") {
		t.Errorf("Expected general guidance, got %s: %s", out.Kind, out.Message)
	}
}

func TestTroubleshooting(t *testing.T) {
	r := newRouter()

	out := handle(t, r.Troubleshooting, request(intent.Troubleshooting, "what are common problems with dishwashers"))
	if out.Kind != "common_problems" || !reflect.DeepEqual(out.CommonProblems, dishwasherProblems) {
		t.Errorf("Expected dishwasher problems, got %s %v", out.Kind, out.CommonProblems)
	}

	out = handle(t, r.Troubleshooting, request(intent.Troubleshooting, "what are common problems"))
	if len(out.CommonProblems) != len(refrigeratorProblems)+len(dishwasherProblems) {
		t.Errorf("Expected both appliance lists, got %d problems", len(out.CommonProblems))
	}

	out = handle(t, r.Troubleshooting, request(intent.Troubleshooting, "my dishwasher is not draining"))
	if out.Kind != "symptom_match" || out.Symptoms != "not draining" {
		t.Fatalf("Expected symptom match on 'not draining', got %s %q", out.Kind, out.Symptoms)
	}
	if !reflect.DeepEqual(skus(out.Parts), []string{"PS3406971"}) {
		t.Errorf("Unexpected parts %v", skus(out.Parts))
	}

	out = handle(t, r.Troubleshooting, request(intent.Troubleshooting, "making a weird sound"))
	if out.Kind != "general_guidance" || out.Symptoms != "making a weird sound" {
		t.Errorf("Expected general guidance over the raw query, got %s %q", out.Kind, out.Symptoms)
	}
}

func TestPurchaseIntentOffersWithoutAdding(t *testing.T) {
	r := newRouter()
	req := request(intent.PurchaseIntent, "I want to buy PS12364199")
	part, _ := retrieval.NewEngine(catalog.New(fixtureParts()), nil).GetByID("PS12364199")
	req.Parts = []models.Part{part}

	out := handle(t, r.Transaction, req)
	if out.Kind != "purchase_intent" || out.CartAction != "" {
		t.Errorf("Expected an offer without a cart action, got %s %q", out.Kind, out.CartAction)
	}
	if !strings.Contains(out.SuggestedActions[0], "$89.99") {
		t.Errorf("Expected price in first action, got %q", out.SuggestedActions[0])
	}

	out = handle(t, r.Transaction, request(intent.PurchaseIntent, "I want to buy something"))
	if out.Kind != "purchase_intent_no_parts" {
		t.Errorf("Expected purchase_intent_no_parts, got %s", out.Kind)
	}
}

func TestConfirmationAddsLastShownPart(t *testing.T) {
	r := newRouter()
	last := fixtureParts()[1]

	for _, i := range []intent.Intent{intent.PurchaseConfirmation, intent.CartOperations} {
		req := request(i, "yes")
		req.LastShownPart = &last
		out := handle(t, r.Transaction, req)
		if out.CartAction != CartActionAdd || out.CartPart == nil || out.CartPart.PartSelectNumber != "PS12364199" {
			t.Errorf("%s: expected add of PS12364199, got %q %+v", i, out.CartAction, out.CartPart)
		}
		if !strings.Contains(out.Message, "Ice Maker Assembly (#PS12364199) to your cart for $89.99") {
			t.Errorf("%s: unexpected message %q", i, out.Message)
		}
	}

	out := handle(t, r.Transaction, request(intent.PurchaseConfirmation, "yes"))
	if out.Kind != "purchase_confirmation_no_context" || out.CartAction != "" {
		t.Errorf("Expected no-context reply, got %s", out.Kind)
	}
	out = handle(t, r.Transaction, request(intent.CartOperations, "yes"))
	if out.Kind != "cart_confirmation_no_context" {
		t.Errorf("Expected cart_confirmation_no_context, got %s", out.Kind)
	}
}

func TestCartOperations(t *testing.T) {
	r := newRouter()
	tests := []struct {
		name     string
		query    string
		kind     string
		redirect string
		parts    []string
	}{
		{name: "ice maker", query: "add an ice maker part to my cart", kind: "cart_add_request", redirect: "ice maker parts"},
		{name: "fridge", query: "add a fridge part to my cart", kind: "cart_add_request", redirect: "refrigerator parts"},
		{name: "dishwasher", query: "add a dishwasher part to my cart", kind: "cart_add_request", redirect: "dishwasher parts"},
		{name: "price is not ice", query: "add the best price item to my cart", kind: "cart_operations"},
		{name: "part number", query: "add PS12364199 to my cart", kind: "part_purchase_request", parts: []string{"PS12364199"}},
		{name: "summary", query: "show my cart", kind: "cart_operations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := handle(t, r.Transaction, request(intent.CartOperations, tt.query))
			if out.Kind != tt.kind {
				t.Errorf("Expected %s, got %s", tt.kind, out.Kind)
			}
			if out.RedirectSearch != tt.redirect {
				t.Errorf("Expected redirect %q, got %q", tt.redirect, out.RedirectSearch)
			}
			if tt.parts != nil && !reflect.DeepEqual(skus(out.Parts), tt.parts) {
				t.Errorf("Expected %v, got %v", tt.parts, skus(out.Parts))
			}
			if tt.kind == "cart_operations" && out.Cart == nil {
				t.Error("Expected a cart summary")
			}
		})
	}
}

func TestPricing(t *testing.T) {
	r := newRouter()
	parts := fixtureParts()

	req := request(intent.PricingInquiry, "how much do these cost")
	req.Parts = parts[:2]
	out := handle(t, r.Transaction, req)
	if len(out.Pricing) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(out.Pricing))
	}
	q := out.Pricing[0]
	if q.MSRP != 53.94 || q.SavingsAmount != 8.99 || q.SavingsPercent != 16.7 || q.FreeShippingEligible {
		t.Errorf("Unexpected quote %+v", q)
	}
	if !out.Pricing[1].FreeShippingEligible {
		t.Error("Expected free shipping for a part over $50")
	}
	if out.BundleTotal == nil || *out.BundleTotal != 134.94 {
		t.Errorf("Expected bundle total 134.94, got %v", out.BundleTotal)
	}

	req.Parts = parts
	out = handle(t, r.Transaction, req)
	if len(out.Pricing) != maxPriced {
		t.Errorf("Expected %d quotes, got %d", maxPriced, len(out.Pricing))
	}

	req.Parts = parts[:1]
	out = handle(t, r.Transaction, req)
	if out.BundleTotal != nil {
		t.Error("Single part must not carry a bundle total")
	}

	out = handle(t, r.Transaction, request(intent.PricingInquiry, "how much"))
	if out.Kind != "pricing_inquiry_general" {
		t.Errorf("Expected pricing_inquiry_general, got %s", out.Kind)
	}
}

func TestCheckout(t *testing.T) {
	out := handle(t, newRouter().Transaction, request(intent.CheckoutAssistance, "help me check out"))
	if len(out.CheckoutSteps) != 6 || out.CheckoutSteps[0] != "Review cart items and quantities" {
		t.Errorf("Unexpected checkout steps %v", out.CheckoutSteps)
	}
	if !reflect.DeepEqual(out.PaymentOptions, []string{"Credit Card", "PayPal", "Apple Pay"}) {
		t.Errorf("Unexpected payment options %v", out.PaymentOptions)
	}
}

type brokenRetriever struct{ Retriever }

func TestPanicBecomesFailure(t *testing.T) {
	r := NewRouter(brokenRetriever{})
	res := r.Search.Handle(t.Context(), request(intent.PartLookup, "PS12364199"))
	if res.OK() {
		t.Fatal("Expected failure")
	}
	if !strings.Contains(res.Reason(), "search failed") {
		t.Errorf("Unexpected reason %q", res.Reason())
	}
}
