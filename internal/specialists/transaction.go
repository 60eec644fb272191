package specialists

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
)

const (
	maxPriced           = 3
	msrpMarkup          = 1.2
	freeShippingMinimum = 50.0
)

// PriceQuote is the pricing detail shown for one part.
type PriceQuote struct {
	PartNumber           string  `json:"part_number"`
	Name                 string  `json:"name"`
	Brand                string  `json:"brand"`
	Price                float64 `json:"price"`
	Availability         string  `json:"availability"`
	MSRP                 float64 `json:"msrp"`
	SavingsAmount        float64 `json:"savings_amount"`
	SavingsPercent       float64 `json:"savings_percent"`
	FreeShippingEligible bool    `json:"free_shipping_eligible"`
}

type ShippingInfo struct {
	Standard          string `json:"standard_shipping"`
	Expedited         string `json:"expedited_shipping"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

var (
	cartConfirmation = regexp.MustCompile(`(?i)\b(yes|add it|proceed)\b`)
	purchaseKeyword  = regexp.MustCompile(`(?i)\b(add|buy|purchase|order)\b`)
	purchasePartID   = regexp.MustCompile(`[A-Z]{2}\d{8,}`)
	iceMention       = regexp.MustCompile(`(?i)\bice\b|icemaker`)
	fridgeMention    = regexp.MustCompile(`(?i)refrigerator|fridge`)
	dishwasherWord   = regexp.MustCompile(`(?i)dishwasher`)
)

var addedActions = []string{"View your cart", "Continue shopping", "Proceed to checkout", "Search for more parts"}

// Transaction handles purchasing, cart, pricing and checkout requests.
// It never mutates the cart itself; it sets CartAction and CartPart and
// the caller applies the change.
type Transaction struct {
	retriever Retriever
}

func NewTransaction(r Retriever) *Transaction {
	return &Transaction{retriever: r}
}

func (t *Transaction) Name() string { return "transaction" }

func (t *Transaction) Handle(_ context.Context, req Request) (res result.Result[Outcome]) {
	defer recoverStage(t.Name(), &res)

	switch req.Classification.Intent {
	case intent.PurchaseIntent:
		return result.Success(t.purchaseIntent(req))
	case intent.PurchaseConfirmation:
		return result.Success(t.confirm(req, "purchase_confirmation_no_context",
			"I'd be happy to help you complete your purchase! However, I need you to specify which part you'd like to add to your cart. Please provide the part number or tell me which specific part you want to purchase."))
	case intent.CartOperations:
		return t.cartOperations(req)
	case intent.PricingInquiry:
		return result.Success(pricing(req.Parts))
	case intent.CheckoutAssistance:
		return result.Success(checkout())
	default:
		return result.Success(general())
	}
}

// purchaseIntent offers the most relevant part. The add happens once the
// user confirms.
func (t *Transaction) purchaseIntent(req Request) Outcome {
	if len(req.Parts) == 0 {
		return Outcome{
			Kind:       "purchase_intent_no_parts",
			Message:    "I'd be happy to help you find the right part to purchase. Could you provide more details about what you're looking for?",
			Confidence: 0.4,
			SuggestedActions: []string{
				"Search for specific part numbers",
				"Browse by appliance type",
				"Get compatibility recommendations",
			},
		}
	}
	p := req.Parts[0]
	return Outcome{
		Kind:       "purchase_intent",
		Parts:      []models.Part{p},
		Message:    fmt.Sprintf("Ready to help you purchase %s (#%s)", p.Name, p.PartSelectNumber),
		Confidence: 0.9,
		SuggestedActions: []string{
			fmt.Sprintf("Add %s to cart for $%.2f", p.Name, p.Price),
			"View installation instructions",
			"Check compatibility with your model",
			"Proceed to checkout",
		},
	}
}

// confirm adds the last shown part, or asks which part when there is none.
func (t *Transaction) confirm(req Request, noContextKind, noContextMessage string) Outcome {
	if req.LastShownPart == nil {
		return Outcome{
			Kind:       noContextKind,
			Message:    noContextMessage,
			Confidence: 0.4,
			SuggestedActions: []string{
				"Specify the part number you want to purchase",
				"Browse available parts",
				"Search for your appliance model",
				"View cart if you have items already",
			},
		}
	}
	p := *req.LastShownPart
	return Outcome{
		Kind:             "add_to_cart",
		Parts:            []models.Part{p},
		CartAction:       CartActionAdd,
		CartPart:         &p,
		Message:          fmt.Sprintf("Perfect! I've added the %s (#%s) to your cart for $%.2f. Your cart now has this item ready for checkout.", p.Name, p.PartSelectNumber, p.Price),
		Confidence:       0.95,
		SuggestedActions: addedActions,
	}
}

func (t *Transaction) cartOperations(req Request) result.Result[Outcome] {
	query := req.Query
	if cartConfirmation.MatchString(query) {
		return result.Success(t.confirm(req, "cart_confirmation_no_context",
			"I'd be happy to add a part to your cart! However, I need you to specify which part you'd like to add. Please provide the part number or tell me which specific part you want to purchase."))
	}

	if purchaseKeyword.MatchString(query) {
		if id := purchasePartID.FindString(strings.ToUpper(query)); id != "" {
			out := Outcome{
				Kind:       "part_purchase_request",
				Message:    fmt.Sprintf("I'll help you purchase part %s. Let me show you the details and add it to your cart.", id),
				Confidence: 0.8,
				SuggestedActions: []string{
					"View part details",
					"Add to cart",
					"Check compatibility",
					"View current cart",
				},
			}
			if p, err := t.retriever.GetByID(id); err == nil {
				out.Parts = []models.Part{p}
			}
			return result.Success(out, "get_part_by_id")
		}
		if out, ok := redirect(query); ok {
			return result.Success(out)
		}
	}

	cart := req.Cart
	return result.Success(Outcome{
		Kind:    "cart_operations",
		Cart:    &cart,
		Message: "Here are your cart options",
		AvailableActions: []string{
			"view_cart",
			"update_quantities",
			"remove_items",
			"proceed_to_checkout",
			"continue_shopping",
		},
		Confidence: 0.7,
		SuggestedActions: []string{
			"View your cart summary",
			"Update item quantities",
			"Proceed to secure checkout",
		},
	})
}

// redirect turns "add a fridge part" style requests into a search the
// caller runs before replying.
func redirect(query string) (Outcome, bool) {
	switch {
	case iceMention.MatchString(query):
		return Outcome{
			Kind:             "cart_add_request",
			Message:          "I'd be happy to help you add an ice maker part to your cart! Let me show you the available ice maker parts first. You can then click 'Add to Cart' on the one you need.",
			RedirectSearch:   "ice maker parts",
			Confidence:       0.7,
			SuggestedActions: []string{"Search for ice maker parts", "Browse refrigerator parts", "View current cart"},
		}, true
	case fridgeMention.MatchString(query):
		return Outcome{
			Kind:             "cart_add_request",
			Message:          "I'd be happy to help you add refrigerator parts to your cart! Let me show you some popular refrigerator parts that you can add to your cart.",
			RedirectSearch:   "refrigerator parts",
			Confidence:       0.7,
			SuggestedActions: []string{"Browse refrigerator parts", "Search for specific parts", "View current cart"},
		}, true
	case dishwasherWord.MatchString(query):
		return Outcome{
			Kind:             "cart_add_request",
			Message:          "I'd be happy to help you add dishwasher parts to your cart! Let me show you some popular dishwasher parts that you can add to your cart.",
			RedirectSearch:   "dishwasher parts",
			Confidence:       0.7,
			SuggestedActions: []string{"Browse dishwasher parts", "Search for specific parts", "View current cart"},
		}, true
	}
	return Outcome{}, false
}

func pricing(parts []models.Part) Outcome {
	if len(parts) == 0 {
		return Outcome{
			Kind:       "pricing_inquiry_general",
			Message:    "I can help you with pricing information. Please specify which part you're interested in.",
			Confidence: 0.4,
			SuggestedActions: []string{
				"Search for a specific part number",
				"Browse parts by category",
				"Compare similar parts",
			},
		}
	}

	shown := parts
	if len(shown) > maxPriced {
		shown = shown[:maxPriced]
	}
	quotes := make([]PriceQuote, len(shown))
	total := 0.0
	for i, p := range shown {
		quotes[i] = quote(p)
		total += p.Price
	}

	out := Outcome{
		Kind:    "pricing_inquiry",
		Parts:   shown,
		Pricing: quotes,
		Shipping: &ShippingInfo{
			Standard:          "FREE on orders over $50",
			Expedited:         "$15.99",
			EstimatedDelivery: "3-5 business days",
		},
		Message:    fmt.Sprintf("Here's the pricing information for %d part(s)", len(quotes)),
		Confidence: 0.85,
		SuggestedActions: []string{
			"Add to cart",
			"Compare with similar parts",
			"Check installation requirements",
			"View warranty options",
		},
	}
	if len(parts) > 1 {
		bundle := roundTo(total, 2)
		out.BundleTotal = &bundle
	}
	return out
}

// quote derives a list price as a fixed markup over our price.
func quote(p models.Part) PriceQuote {
	msrp := p.Price * msrpMarkup
	savings := msrp - p.Price
	percent := 0.0
	if msrp > 0 {
		percent = savings / msrp * 100
	}
	availability := "in_stock"
	if !p.InStock {
		availability = "out_of_stock"
	}
	return PriceQuote{
		PartNumber:           p.PartSelectNumber,
		Name:                 p.Name,
		Brand:                p.Brand,
		Price:                p.Price,
		Availability:         availability,
		MSRP:                 roundTo(msrp, 2),
		SavingsAmount:        roundTo(savings, 2),
		SavingsPercent:       roundTo(percent, 1),
		FreeShippingEligible: p.Price >= freeShippingMinimum,
	}
}

func checkout() Outcome {
	return Outcome{
		Kind:    "checkout_assistance",
		Message: "I'm here to help you through the checkout process",
		CheckoutSteps: []string{
			"Review cart items and quantities",
			"Enter shipping information",
			"Select payment method",
			"Apply discount codes (if available)",
			"Review order summary",
			"Complete secure payment",
		},
		PaymentOptions: []string{"Credit Card", "PayPal", "Apple Pay"},
		Policies: map[string]string{
			"security": "SSL encrypted checkout, secure payment processing, order confirmation email",
			"support":  "Live chat assistance, Phone support: 1-800-PARTSELECT, Email support",
		},
		Confidence: 0.9,
		SuggestedActions: []string{
			"Proceed to secure checkout",
			"Apply discount code",
			"Contact support if needed",
		},
	}
}

func general() Outcome {
	return Outcome{
		Kind:    "general_transaction",
		Message: "I can help you with purchasing, pricing, and transaction questions",
		AvailableActions: []string{
			"Part search and selection",
			"Price comparisons",
			"Add items to cart",
			"Checkout assistance",
			"Order tracking",
			"Return and warranty support",
		},
		Policies: map[string]string{
			"returns":  "30-day return policy",
			"warranty": "1-year manufacturer warranty",
			"shipping": "Free shipping on orders over $50",
		},
		Confidence: 0.6,
		SuggestedActions: []string{
			"Search for specific parts",
			"Get installation help",
			"Check part compatibility",
			"View your cart",
		},
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
