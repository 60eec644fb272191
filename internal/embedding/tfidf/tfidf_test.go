package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/embedding"
)

var corpus = []string{
	"Ice Maker Assembly Whirlpool ice maker not making ice",
	"Water Filter Whirlpool water filter bad taste",
	"Dishwasher Door Gasket Bosch leaking door seal",
}

func TestEmbedBeforePrepare(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.Embed(context.Background(), "ice"); err == nil {
		t.Error("Expected error before Prepare")
	}
}

func TestPrepareEmptyCorpus(t *testing.T) {
	if err := NewEmbedder().Prepare(nil); err == nil {
		t.Error("Expected error for empty corpus")
	}
}

func TestEmbedIsNormalizedAndDeterministic(t *testing.T) {
	a := NewEmbedder()
	b := NewEmbedder()
	if err := a.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	if a.Dimension() != b.Dimension() || a.Dimension() == 0 {
		t.Fatalf("Expected equal non-zero dimensions, got %d and %d", a.Dimension(), b.Dimension())
	}

	va, _ := a.Embed(context.Background(), "ice maker broken")
	vb, _ := b.Embed(context.Background(), "ice maker broken")
	var norm float64
	for i := range va {
		if va[i] != vb[i] {
			t.Fatal("Expected identical vectors from identical corpora")
		}
		norm += va[i] * va[i]
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("Expected unit vector, got squared norm %v", norm)
	}
}

func TestEmbedRanksRelatedText(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	query, _ := e.Embed(ctx, "my ice maker stopped")
	ice, _ := e.Embed(ctx, corpus[0])
	gasket, _ := e.Embed(ctx, corpus[2])

	if embedding.Cosine(query, ice) <= embedding.Cosine(query, gasket) {
		t.Error("Expected ice maker text to be closer to the ice maker query")
	}
}

func TestEmbedUnknownTermsIsZero(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	v, err := e.Embed(context.Background(), "zzz qqq")
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range v {
		if x != 0 {
			t.Fatal("Expected zero vector")
		}
	}
}
