package catalog

import (
	"errors"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

// ErrNotFound is returned when no part matches an identifier.
var ErrNotFound = errors.New("part not found")

// Catalog is the in-memory part collection. It is built once and never mutated.
type Catalog struct {
	parts []models.Part
	index map[string]int
}

// New builds a catalog, indexing SKUs and manufacturer numbers case-insensitively.
// When a manufacturer number collides with another part, the first part wins.
func New(parts []models.Part) *Catalog {
	c := &Catalog{
		parts: parts,
		index: make(map[string]int, len(parts)*2),
	}
	for i, p := range parts {
		if key := strings.ToLower(p.PartSelectNumber); key != "" {
			c.index[key] = i
		}
	}
	for i, p := range parts {
		key := strings.ToLower(p.ManufacturerPartNumber)
		if _, exists := c.index[key]; key != "" && !exists {
			c.index[key] = i
		}
	}
	return c
}

// All returns the parts in load order. Callers must treat the slice as read-only.
func (c *Catalog) All() []models.Part {
	if c == nil {
		return nil
	}
	return c.parts
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.parts)
}

// Lookup finds a part by retailer SKU or manufacturer part number.
func (c *Catalog) Lookup(id string) (models.Part, error) {
	if c == nil {
		return models.Part{}, ErrNotFound
	}
	i, ok := c.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return models.Part{}, ErrNotFound
	}
	return c.parts[i], nil
}

// Counts returns the number of parts per appliance type.
func (c *Catalog) Counts() map[string]int {
	counts := make(map[string]int)
	for _, p := range c.All() {
		counts[p.ApplianceType]++
	}
	return counts
}
