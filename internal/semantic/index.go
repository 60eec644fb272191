// Package semantic joins an embedder with a vector store to answer
// free-text nearest-neighbor queries over the parts catalog.
package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/embedding"
	"github.com/lehigh-university-libraries/partsdesk/internal/metrics"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

const (
	batchSize    = 100
	maxTextBytes = 1000
)

type Index struct {
	embedder embedding.Embedder
	store    vectorstore.Store
}

func NewIndex(embedder embedding.Embedder, store vectorstore.Store) *Index {
	return &Index{embedder: embedder, store: store}
}

// Name identifies the backend pair, e.g. "tfidf+memory".
func (ix *Index) Name() string {
	return ix.embedder.Name() + "+" + ix.store.Name()
}

// PartText is the searchable text of a part.
func PartText(p models.Part) string {
	fields := []string{
		p.Name,
		p.Brand,
		p.Category,
		p.Description,
		p.PartSelectNumber,
		strings.Join(p.Compatibility.CompatibleModels, " "),
		strings.Join(p.Keywords, " "),
	}
	var nonEmpty []string
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// Prepare readies the embedder and store without writing vectors. Build
// runs it before deciding whether the store needs filling.
func (ix *Index) Prepare(ctx context.Context, parts []models.Part) error {
	corpus := make([]string, len(parts))
	for i, p := range parts {
		corpus[i] = PartText(p)
	}
	if err := ix.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("prepare %s embedder: %w", ix.embedder.Name(), err)
	}
	t := metrics.StartTimer(ix.store.Name(), "init")
	err := ix.store.Init(ctx, ix.embedder.Dimension())
	t.Done(err)
	if err != nil {
		return fmt.Errorf("init %s store: %w", ix.store.Name(), err)
	}
	return nil
}

// Build embeds and upserts every part. An already populated store is left
// alone unless force is set. It returns the number of vectors written.
func (ix *Index) Build(ctx context.Context, parts []models.Part, force bool) (int, error) {
	if err := ix.Prepare(ctx, parts); err != nil {
		return 0, err
	}
	if force {
		if err := ix.store.Clear(ctx); err != nil {
			return 0, fmt.Errorf("clear %s store: %w", ix.store.Name(), err)
		}
		// Clear may drop the collection entirely.
		if err := ix.store.Init(ctx, ix.embedder.Dimension()); err != nil {
			return 0, fmt.Errorf("init %s store: %w", ix.store.Name(), err)
		}
	} else if n, err := ix.store.Count(ctx); err == nil && n > 0 {
		slog.Info("Semantic index already populated", "backend", ix.Name(), "vectors", n)
		return 0, nil
	}

	written := 0
	batch := make([]vectorstore.Record, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		t := metrics.StartTimer(ix.store.Name(), "upsert")
		err := ix.store.Upsert(ctx, batch)
		t.Done(err)
		if err != nil {
			return fmt.Errorf("upsert batch: %w", err)
		}
		written += len(batch)
		slog.Debug("Uploaded batch", "backend", ix.Name(), "written", written)
		batch = batch[:0]
		return nil
	}

	for _, p := range parts {
		text := PartText(p)
		t := metrics.StartTimer(ix.embedder.Name(), "embed")
		vec, err := ix.embedder.Embed(ctx, text)
		t.Done(err)
		if err != nil {
			slog.Warn("Skipping part without embedding", "part", p.PartSelectNumber, "err", err)
			continue
		}
		if len(text) > maxTextBytes {
			text = text[:maxTextBytes]
		}
		batch = append(batch, vectorstore.Record{
			ID:     p.PartSelectNumber,
			Vector: vec,
			Metadata: vectorstore.Metadata{
				Name:          p.Name,
				Brand:         p.Brand,
				Category:      p.Category,
				ApplianceType: p.ApplianceType,
				Price:         p.Price,
				InStock:       p.InStock,
				Text:          text,
			},
		})
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}
	slog.Info("Semantic index built", "backend", ix.Name(), "vectors", written)
	return written, nil
}

// Search embeds text and returns up to k (id, score) matches.
func (ix *Index) Search(ctx context.Context, text string, k int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	t := metrics.StartTimer(ix.embedder.Name(), "embed")
	vec, err := ix.embedder.Embed(ctx, text)
	t.Done(err)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	t = metrics.StartTimer(ix.store.Name(), "search")
	matches, err := ix.store.Search(ctx, vec, k, filter)
	t.Done(err)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", ix.store.Name(), err)
	}
	return matches, nil
}

func (ix *Index) Close() error { return ix.store.Close() }
