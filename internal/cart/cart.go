// Package cart holds a shopping cart and derives its totals.
package cart

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

const (
	FreeShippingThreshold = 50.0
	FlatShipping          = 15.99
	TaxRate               = 0.085
)

var (
	ErrUnknownLine      = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrUnknownDiscount  = errors.New("unknown discount code")
	ErrPartNotPurchased = errors.New("part has no identifier")
)

// discounts maps a code to the fraction taken off the subtotal.
var discounts = map[string]float64{
	"SAVE10": 0.10,
}

// Cart is not safe for concurrent use; callers serialize access per session.
type Cart struct {
	items        []models.CartItem
	discountCode string
	now          func() time.Time
}

func New() *Cart {
	return &Cart{now: time.Now}
}

// Add puts qty of part in the cart. A part already in the cart has its
// quantity increased instead of gaining a second line.
func (c *Cart) Add(part models.Part, qty int, options map[string]string) (models.CartItem, error) {
	if qty <= 0 {
		return models.CartItem{}, ErrInvalidQuantity
	}
	if part.PartSelectNumber == "" {
		return models.CartItem{}, ErrPartNotPurchased
	}
	if i := c.index(part.PartSelectNumber); i >= 0 {
		c.items[i].Quantity += qty
		for k, v := range options {
			if c.items[i].SelectedOptions == nil {
				c.items[i].SelectedOptions = make(map[string]string)
			}
			c.items[i].SelectedOptions[k] = v
		}
		return c.items[i], nil
	}

	item := models.CartItem{
		ID:              ulid.Make().String(),
		Part:            part,
		Quantity:        qty,
		SelectedOptions: options,
		AddedDate:       c.now().UTC(),
	}
	c.items = append(c.items, item)
	return item, nil
}

// Update sets the quantity of the line identified by line ID or SKU. A
// quantity of zero removes the line.
func (c *Cart) Update(ref string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	i := c.index(ref)
	if i < 0 {
		return ErrUnknownLine
	}
	if qty == 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return nil
	}
	c.items[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(ref string) error {
	return c.Update(ref, 0)
}

// Clear empties the cart and drops any discount code.
func (c *Cart) Clear() {
	c.items = nil
	c.discountCode = ""
}

// ValidateDiscount reports whether code is a known discount without
// touching any cart. The empty code is valid.
func ValidateDiscount(code string) error {
	code = normalizeCode(code)
	if code == "" {
		return nil
	}
	if _, ok := discounts[code]; !ok {
		return ErrUnknownDiscount
	}
	return nil
}

// ApplyDiscount records a discount code. An empty code removes it.
func (c *Cart) ApplyDiscount(code string) error {
	if err := ValidateDiscount(code); err != nil {
		return err
	}
	c.discountCode = normalizeCode(code)
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Cart) Len() int { return len(c.items) }

// View returns a snapshot of the cart with totals derived from its lines.
func (c *Cart) View() models.CartView {
	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)

	view := models.CartView{Items: items, DiscountCode: c.discountCode}
	subtotal := 0.0
	for _, item := range items {
		view.TotalItems += item.Quantity
		subtotal += item.Part.Price * float64(item.Quantity)
	}
	view.Subtotal = Round(subtotal)

	// nothing ships from an empty cart
	if len(items) > 0 && view.Subtotal < FreeShippingThreshold {
		view.ShippingCost = FlatShipping
	}
	taxable := view.Subtotal
	if rate, ok := discounts[c.discountCode]; ok {
		view.DiscountAmount = Round(view.Subtotal * rate)
		taxable = Round(view.Subtotal - view.DiscountAmount)
	}
	view.Tax = Round(taxable * TaxRate)
	view.Total = Round(taxable + view.ShippingCost + view.Tax)
	return view
}

// index finds a line by its ID or by the part's SKU.
func (c *Cart) index(ref string) int {
	for i, item := range c.items {
		if item.ID == ref || strings.EqualFold(item.Part.PartSelectNumber, ref) {
			return i
		}
	}
	return -1
}

// Round rounds money to cents.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
