package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

func TestRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "parts.db")
	ctx := context.Background()

	s, err := NewStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	err = s.Upsert(ctx, []vectorstore.Record{
		{ID: "PS1", Vector: []float64{1, 0}, Metadata: vectorstore.Metadata{Name: "Ice Maker", ApplianceType: "refrigerator", InStock: true}},
		{ID: "PS2", Vector: []float64{0.6, 0.8}, Metadata: vectorstore.Metadata{Name: "Pump", ApplianceType: "dishwasher", InStock: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = NewStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 2 {
		t.Fatalf("Expected 2 persisted vectors, got %d", n)
	}

	matches, err := s.Search(ctx, []float64{1, 0}, 5, vectorstore.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 || matches[0].ID != "PS1" {
		t.Errorf("Unexpected matches %v", matches)
	}

	matches, _ = s.Search(ctx, []float64{1, 0}, 5, vectorstore.Filter{ApplianceType: "DISHWASHER"})
	if len(matches) != 1 || matches[0].ID != "PS2" {
		t.Errorf("Expected filtered match PS2, got %v", matches)
	}
}

func TestInitDropsOtherDimensions(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorage(filepath.Join(t.TempDir(), "parts.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	_ = s.Init(ctx, 3)
	if err := s.Upsert(ctx, []vectorstore.Record{{ID: "PS1", Vector: []float64{1, 0, 0}}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("Expected stale vectors removed, got %d", n)
	}
	if err := s.Upsert(ctx, []vectorstore.Record{{ID: "PS1", Vector: []float64{1, 0, 0}}}); err == nil {
		t.Error("Expected dimension mismatch error")
	}
}
