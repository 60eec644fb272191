package cart

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

func part(sku string, price float64) models.Part {
	return models.Part{PartSelectNumber: sku, Name: "Part " + sku, Price: price, InStock: true}
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    map[string]float64
		qty      int
		discount string
		expected models.CartView
	}{
		{
			name:     "free shipping at threshold",
			lines:    map[string]float64{"PS1": 60},
			qty:      1,
			expected: models.CartView{TotalItems: 1, Subtotal: 60, ShippingCost: 0, Tax: 5.10, Total: 65.10},
		},
		{
			name:     "flat shipping below threshold",
			lines:    map[string]float64{"PS1": 20},
			qty:      2,
			expected: models.CartView{TotalItems: 2, Subtotal: 40, ShippingCost: 15.99, Tax: 3.40, Total: 59.39},
		},
		{
			name:     "exactly fifty ships free",
			lines:    map[string]float64{"PS1": 25},
			qty:      2,
			expected: models.CartView{TotalItems: 2, Subtotal: 50, ShippingCost: 0, Tax: 4.25, Total: 54.25},
		},
		{
			name:     "discount before tax",
			lines:    map[string]float64{"PS1": 100},
			qty:      1,
			discount: "save10",
			expected: models.CartView{TotalItems: 1, Subtotal: 100, DiscountCode: "SAVE10", DiscountAmount: 10, Tax: 7.65, Total: 97.65},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			for sku, price := range tt.lines {
				_, err := c.Add(part(sku, price), tt.qty, nil)
				require.NoError(t, err)
			}
			require.NoError(t, c.ApplyDiscount(tt.discount))

			got := c.View()
			got.Items = nil
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEmptyCartIsZero(t *testing.T) {
	v := New().View()
	assert.Empty(t, v.Items)
	assert.Zero(t, v.ShippingCost)
	assert.Zero(t, v.Total)
}

func TestAddMergesSameSKU(t *testing.T) {
	c := New()
	first, err := c.Add(part("PS12364199", 89.99), 1, map[string]string{"color": "white"})
	require.NoError(t, err)
	second, err := c.Add(part("PS12364199", 89.99), 2, map[string]string{"warranty": "extended"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.Equal(t, map[string]string{"color": "white", "warranty": "extended"}, second.SelectedOptions)
	assert.Equal(t, 1, c.Len())

	_, err = ulid.Parse(first.ID)
	assert.NoError(t, err, "line IDs are ULIDs")
}

func TestAddRejectsBadInput(t *testing.T) {
	c := New()
	_, err := c.Add(part("PS1", 10), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.Add(models.Part{Price: 10}, 1, nil)
	assert.ErrorIs(t, err, ErrPartNotPurchased)
	assert.Zero(t, c.Len())
}

func TestUpdateAndRemove(t *testing.T) {
	c := New()
	a, _ := c.Add(part("PS1", 10), 1, nil)
	_, _ = c.Add(part("PS2", 20), 1, nil)

	require.NoError(t, c.Update(a.ID, 4))
	assert.Equal(t, 5, c.View().TotalItems)

	require.NoError(t, c.Update("ps2", 0))
	assert.Equal(t, 1, c.Len())

	assert.ErrorIs(t, c.Update("PS9", 1), ErrUnknownLine)
	assert.ErrorIs(t, c.Update(a.ID, -1), ErrInvalidQuantity)

	require.NoError(t, c.Remove("PS1"))
	assert.Zero(t, c.Len())
	assert.ErrorIs(t, c.Remove("PS1"), ErrUnknownLine)
}

func TestClearDropsDiscount(t *testing.T) {
	c := New()
	_, _ = c.Add(part("PS1", 10), 1, nil)
	require.NoError(t, c.ApplyDiscount("SAVE10"))
	c.Clear()

	v := c.View()
	assert.Zero(t, v.TotalItems)
	assert.Empty(t, v.DiscountCode)
}

func TestUnknownDiscount(t *testing.T) {
	assert.ErrorIs(t, New().ApplyDiscount("FREESTUFF"), ErrUnknownDiscount)
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ValidateDiscount(""))
	assert.NoError(t, ValidateDiscount(" save10 "))
	assert.ErrorIs(t, ValidateDiscount("FREESTUFF"), ErrUnknownDiscount)
}

func TestViewIsSnapshot(t *testing.T) {
	c := New()
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	_, _ = c.Add(part("PS1", 10), 1, nil)

	v := c.View()
	v.Items[0].Quantity = 99
	assert.Equal(t, 1, c.View().Items[0].Quantity)
	assert.Equal(t, 2026, v.Items[0].AddedDate.Year())
}
