package intent

import (
	"fmt"
)

// Intent is the closed set of things a user can ask for.
type Intent uint8

const (
	PartLookup Intent = iota
	CompatibilityCheck
	InstallationHelp
	Troubleshooting
	ProductSearch
	PurchaseIntent
	PurchaseConfirmation
	CartOperations
	PricingInquiry
	CheckoutAssistance
	OrderingInfo
	GeneralInfo
	OutOfScope

	numIntents
)

var names = [numIntents]string{
	PartLookup:           "part_lookup",
	CompatibilityCheck:   "compatibility_check",
	InstallationHelp:     "installation_help",
	Troubleshooting:      "troubleshooting",
	ProductSearch:        "product_search",
	PurchaseIntent:       "purchase_intent",
	PurchaseConfirmation: "purchase_confirmation",
	CartOperations:       "cart_operations",
	PricingInquiry:       "pricing_inquiry",
	CheckoutAssistance:   "checkout_assistance",
	OrderingInfo:         "ordering_info",
	GeneralInfo:          "general_info",
	OutOfScope:           "out_of_scope",
}

// All lists every intent in registration order.
func All() []Intent {
	all := make([]Intent, numIntents)
	for i := range all {
		all[i] = Intent(i)
	}
	return all
}

func (i Intent) String() string {
	if i >= numIntents {
		return fmt.Sprintf("intent(%d)", uint8(i))
	}
	return names[i]
}

// Parse resolves a wire name. Unknown names are an error.
func Parse(s string) (Intent, error) {
	for i, name := range names {
		if name == s {
			return Intent(i), nil
		}
	}
	return 0, fmt.Errorf("unknown intent %q", s)
}

func (i Intent) MarshalText() ([]byte, error) {
	if i >= numIntents {
		return nil, fmt.Errorf("invalid intent %d", uint8(i))
	}
	return []byte(names[i]), nil
}

func (i *Intent) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// IsTransaction reports whether the intent belongs to the purchase flow.
func (i Intent) IsTransaction() bool {
	switch i {
	case PurchaseIntent, PurchaseConfirmation, CartOperations, PricingInquiry, CheckoutAssistance:
		return true
	}
	return false
}
