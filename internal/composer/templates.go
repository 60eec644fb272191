package composer

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
)

const (
	notFoundMessage = "I couldn't find that part number in our system. Please verify the part number or share your appliance model number so I can help you find the right part."
	defaultMessage  = "I'm here to help with refrigerator and dishwasher parts. Please let me know what specific part you're looking for, or describe the issue you're experiencing."
)

// renderTemplate fills the template for the intent from the first part or
// result in the outcome.
func renderTemplate(in Input) string {
	o := in.Outcome

	switch in.Intent {
	case intent.PartLookup:
		if len(o.Parts) == 0 {
			return notFoundMessage
		}
		p := o.Parts[0]
		stock := "currently out of stock"
		if p.InStock {
			stock = "in stock"
		}
		return fmt.Sprintf("I found the %s (Part #%s) for $%.2f. This %s part is %s.", p.Name, p.PartSelectNumber, p.Price, p.Brand, stock)

	case intent.CompatibilityCheck:
		if len(o.Compatibility) > 0 {
			c := o.Compatibility[0]
			if c.Compatible {
				return fmt.Sprintf("Yes, part %s is compatible with model %s. %s", c.PartNumber, c.ModelNumber, c.Reason)
			}
			return fmt.Sprintf("Part %s is not compatible with model %s. %s", c.PartNumber, c.ModelNumber, c.Reason)
		}

	case intent.InstallationHelp:
		if len(o.Guides) > 0 {
			g := o.Guides[0]
			tools := "No tools needed."
			if g.ToolsRequired {
				tools = "Tools required."
			}
			return fmt.Sprintf("To install %s: This is a %s repair taking about %s. %s %s %s.", g.PartName, g.Difficulty, g.TimeRequired, g.Instructions, tools, g.SafetyNotes)
		}

	case intent.Troubleshooting:
		if len(o.CommonProblems) > 0 {
			lines := make([]string, 0, contextProblems)
			for _, p := range o.CommonProblems[:min(len(o.CommonProblems), contextProblems)] {
				lines = append(lines, fmt.Sprintf("• %s: %s", p.Problem, strings.Join(p.Solutions, ", ")))
			}
			return fmt.Sprintf("Here are the most common %s problems and their solutions:\n\n%s", orAppliance(o.ApplianceType), strings.Join(lines, "\n"))
		}
		if len(o.Diagnoses) > 0 {
			return fmt.Sprintf("Based on the symptoms described, I found %d potential solutions. The most likely cause could be related to the %s.", len(o.Diagnoses), o.Diagnoses[0].Part.Category)
		}

	case intent.ProductSearch, intent.GeneralInfo, intent.OrderingInfo:
		if len(o.Parts) > 0 {
			return fmt.Sprintf("I found %d parts matching your search. Here are the top results with pricing and availability information.", len(o.Parts))
		}

	case intent.CartOperations, intent.PurchaseIntent, intent.PurchaseConfirmation, intent.PricingInquiry, intent.CheckoutAssistance:
		if o.Message != "" {
			return o.Message
		}
		return transactionDefault(in.Intent)
	}

	if guidanceKinds[o.Kind] && o.Message != "" {
		return o.Message
	}
	return defaultMessage
}

// guidanceKinds are outcomes whose message asks the user for a missing detail.
var guidanceKinds = map[string]bool{
	"part_lookup_with_models": true,
	"model_lookup":            true,
	"general_compatibility":   true,
	"general":                 true,
	"general_guidance":        true,
}

func transactionDefault(i intent.Intent) string {
	switch i {
	case intent.CartOperations:
		return "I can help you with cart operations. Would you like to view your cart, add items, or proceed to checkout?"
	case intent.PurchaseIntent, intent.PurchaseConfirmation:
		return "I'm ready to help you purchase the parts you need. Please let me know which specific part you'd like to buy."
	case intent.PricingInquiry:
		return "I can provide pricing information for any parts you're interested in. Please specify which part you'd like pricing for."
	default:
		return "I'm here to help you through the checkout process. Let me guide you through each step."
	}
}
