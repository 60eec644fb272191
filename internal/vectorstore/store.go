package vectorstore

import (
	"context"
	"strings"
)

// Metadata is stored alongside each part vector and used for filtering.
type Metadata struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	ApplianceType string  `json:"appliance_type"`
	Price         float64 `json:"price"`
	InStock       bool    `json:"in_stock"`
	Text          string  `json:"text,omitempty"`
}

// Record is one indexed part.
type Record struct {
	ID       string
	Vector   []float64
	Metadata Metadata
}

// Filter restricts a search. Empty fields match everything.
type Filter struct {
	ApplianceType string
	Brand         string
	Category      string
	InStockOnly   bool
}

// Matches reports whether m satisfies f, comparing strings case-insensitively.
func (f Filter) Matches(m Metadata) bool {
	if f.ApplianceType != "" && !strings.EqualFold(f.ApplianceType, m.ApplianceType) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(f.Brand, m.Brand) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, m.Category) {
		return false
	}
	if f.InStockOnly && !m.InStock {
		return false
	}
	return true
}

// Match is a nearest-neighbor hit. Score is cosine similarity.
type Match struct {
	ID    string
	Score float64
}

// Store persists part vectors and answers similarity queries.
type Store interface {
	Name() string
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float64, topK int, filter Filter) ([]Match, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}
