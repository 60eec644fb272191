package pgvector

import (
	"os"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

func TestVectorLiteral(t *testing.T) {
	tests := []struct {
		name     string
		vector   []float64
		dim      int
		expected string
		wantErr  bool
	}{
		{name: "formats values", vector: []float64{0.5, -1, 0}, dim: 3, expected: "[0.5,-1,0]"},
		{name: "dimension unchecked when zero", vector: []float64{1}, dim: 0, expected: "[1]"},
		{name: "empty vector", vector: nil, dim: 3, wantErr: true},
		{name: "dimension mismatch", vector: []float64{1, 2}, dim: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VectorLiteral(tt.vector, tt.dim)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(vectorstore.Filter{ApplianceType: "dishwasher", Brand: "Bosch", InStockOnly: true}, "[1]")
	expected := "embedding IS NOT NULL AND lower(appliance_type) = lower($2) AND lower(brand) = lower($3) AND in_stock"
	if where != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, where)
	}
	if len(args) != 3 || args[0] != "[1]" || args[2] != "Bosch" {
		t.Errorf("Unexpected args %v", args)
	}
}

func TestNewStorageRejectsBadTable(t *testing.T) {
	if _, err := NewStorage("postgres://localhost/none", "parts; drop table x"); err == nil {
		t.Error("Expected invalid table name error")
	}
}

func TestStorageAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("PGVECTOR_TEST_DSN")
	if dsn == "" {
		t.Skip("PGVECTOR_TEST_DSN not set")
	}
	s, err := NewStorage(dsn, "partsdesk_test_vectors")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := t.Context()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	defer s.Clear(ctx)
	if err := s.Upsert(ctx, []vectorstore.Record{{ID: "PS1", Vector: []float64{1, 0}, Metadata: vectorstore.Metadata{ApplianceType: "refrigerator"}}}); err != nil {
		t.Fatal(err)
	}
	matches, err := s.Search(ctx, []float64{1, 0}, 1, vectorstore.Filter{ApplianceType: "Refrigerator"})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != "PS1" {
		t.Errorf("Unexpected matches %v", matches)
	}
}
