package memory

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

func seed(t *testing.T) *Storage {
	t.Helper()
	s := NewStorage()
	ctx := context.Background()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	err := s.Upsert(ctx, []vectorstore.Record{
		{ID: "PS1", Vector: []float64{1, 0}, Metadata: vectorstore.Metadata{Brand: "Whirlpool", ApplianceType: "refrigerator", InStock: true}},
		{ID: "PS2", Vector: []float64{0.8, 0.6}, Metadata: vectorstore.Metadata{Brand: "GE", ApplianceType: "dishwasher", InStock: false}},
		{ID: "PS3", Vector: []float64{0, 1}, Metadata: vectorstore.Metadata{Brand: "Bosch", ApplianceType: "dishwasher", InStock: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSearchOrdersByScore(t *testing.T) {
	s := seed(t)
	matches, err := s.Search(context.Background(), []float64{1, 0}, 5, vectorstore.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 positive matches, got %d", len(matches))
	}
	if matches[0].ID != "PS1" || matches[1].ID != "PS2" {
		t.Errorf("Unexpected order %v", matches)
	}
}

func TestSearchFilters(t *testing.T) {
	s := seed(t)
	tests := []struct {
		name     string
		filter   vectorstore.Filter
		expected []string
	}{
		{name: "appliance", filter: vectorstore.Filter{ApplianceType: "Dishwasher"}, expected: []string{"PS2", "PS3"}},
		{name: "in stock only", filter: vectorstore.Filter{ApplianceType: "dishwasher", InStockOnly: true}, expected: []string{"PS3"}},
		{name: "brand", filter: vectorstore.Filter{Brand: "whirlpool"}, expected: []string{"PS1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, _ := s.Search(context.Background(), []float64{0.6, 0.8}, 5, tt.filter)
			if len(matches) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, matches)
			}
			seen := map[string]bool{}
			for _, m := range matches {
				seen[m.ID] = true
			}
			for _, id := range tt.expected {
				if !seen[id] {
					t.Errorf("Missing %s in %v", id, matches)
				}
			}
		})
	}
}

func TestUpsertReplacesAndValidates(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	if err := s.Upsert(ctx, []vectorstore.Record{{ID: "PS1", Vector: []float64{0, 1}}}); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 3 {
		t.Errorf("Expected upsert to replace, count=%d", n)
	}
	if err := s.Upsert(ctx, []vectorstore.Record{{ID: "PS9", Vector: []float64{1}}}); err == nil {
		t.Error("Expected dimension mismatch error")
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("Expected empty store after Clear, count=%d", n)
	}
}
