// Package specialists turns a classified query into structured results.
// Each specialist handles one family of intents.
package specialists

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

// CartActionAdd asks the orchestrator to add CartPart to the session cart.
const CartActionAdd = "add_to_cart"

// Retriever is the subset of the retrieval engine the specialists use.
type Retriever interface {
	GetByID(id string) (models.Part, error)
	GetByCategory(category, applianceType string, limit int) []models.Part
	Hybrid(ctx context.Context, q retrieval.Query, filter vectorstore.Filter) []retrieval.Scored
	CheckCompatibility(partID, modelID string) retrieval.Compatibility
	InstallationGuide(partID string) (retrieval.Guide, error)
	Troubleshoot(symptoms, applianceType string) []retrieval.Diagnosis
}

// Request is everything a specialist may consult.
type Request struct {
	Query          string
	Classification intent.Classification
	// Parts resolved by an earlier specialist in the same turn.
	Parts []models.Part
	// LastShownPart is the first part shown to the user on the previous turn.
	LastShownPart *models.Part
	Cart          models.CartView
}

// Outcome is a specialist's structured result. Kind names the strategy
// taken (search_type, check_type, guide_type or transaction_type).
type Outcome struct {
	Kind             string        `json:"kind"`
	Parts            []models.Part `json:"parts"`
	Message          string        `json:"message,omitempty"`
	Confidence       float64       `json:"confidence,omitempty"`
	SuggestedActions []string      `json:"suggested_actions,omitempty"`

	RedirectSearch string       `json:"redirect_search,omitempty"`
	CartAction     string       `json:"cart_action,omitempty"`
	CartPart       *models.Part `json:"cart_part,omitempty"`

	Compatibility  []retrieval.Compatibility `json:"compatibility_results,omitempty"`
	Guides         []retrieval.Guide         `json:"installation_guides,omitempty"`
	Diagnoses      []retrieval.Diagnosis     `json:"troubleshooting_results,omitempty"`
	CommonProblems []Problem                 `json:"common_problems,omitempty"`
	ApplianceType  string                    `json:"appliance_type,omitempty"`
	Symptoms       string                    `json:"symptoms_analyzed,omitempty"`

	Pricing          []PriceQuote      `json:"pricing_details,omitempty"`
	BundleTotal      *float64          `json:"bundle_total,omitempty"`
	Shipping         *ShippingInfo     `json:"shipping_info,omitempty"`
	Cart             *models.CartView  `json:"cart_summary,omitempty"`
	AvailableActions []string          `json:"available_actions,omitempty"`
	CheckoutSteps    []string          `json:"checkout_steps,omitempty"`
	PaymentOptions   []string          `json:"payment_options,omitempty"`
	Policies         map[string]string `json:"policies,omitempty"`
}

type Specialist interface {
	Name() string
	Handle(ctx context.Context, req Request) result.Result[Outcome]
}

// recoverStage converts a panic in a specialist into a failure result.
func recoverStage(name string, res *result.Result[Outcome]) {
	if r := recover(); r != nil {
		slog.Error("Specialist failed", "specialist", name, "panic", r)
		*res = result.Failure[Outcome]("%s failed: %v", name, r)
	}
}

// Router maps every intent to the specialist that handles it.
type Router struct {
	Search          Specialist
	Compatibility   Specialist
	Installation    Specialist
	Troubleshooting Specialist
	Transaction     Specialist
}

// NewRouter wires the five specialists over one retriever.
func NewRouter(r Retriever) *Router {
	return &Router{
		Search:          NewSearch(r),
		Compatibility:   NewCompatibility(r),
		Installation:    NewInstallation(r),
		Troubleshooting: NewTroubleshooting(r),
		Transaction:     NewTransaction(r),
	}
}

// For returns the specialist for i. Out-of-scope queries have none.
func (r *Router) For(i intent.Intent) (Specialist, bool) {
	switch i {
	case intent.PartLookup, intent.ProductSearch, intent.OrderingInfo, intent.GeneralInfo:
		return r.Search, true
	case intent.CompatibilityCheck:
		return r.Compatibility, true
	case intent.InstallationHelp:
		return r.Installation, true
	case intent.Troubleshooting:
		return r.Troubleshooting, true
	case intent.PurchaseIntent, intent.PurchaseConfirmation, intent.CartOperations,
		intent.PricingInquiry, intent.CheckoutAssistance:
		return r.Transaction, true
	case intent.OutOfScope:
		return nil, false
	}
	panic(fmt.Sprintf("no specialist registered for intent %s", i))
}

// All lists the specialists in a stable order.
func (r *Router) All() []Specialist {
	return []Specialist{r.Search, r.Compatibility, r.Installation, r.Troubleshooting, r.Transaction}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
