package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/lehigh-university-libraries/partsdesk/internal/embedding"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

// Storage is an in-process vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	records   []vectorstore.Record
	index     map[string]int
}

func NewStorage() *Storage { return &Storage{index: make(map[string]int)} }

func (s *Storage) Name() string { return "memory" }

func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.records = nil
	s.index = make(map[string]int)
	return nil
}

// Upsert replaces records with the same ID and appends new ones.
func (s *Storage) Upsert(_ context.Context, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if len(r.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for _, r := range records {
		if i, ok := s.index[r.ID]; ok {
			s.records[i] = r
			continue
		}
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return nil
}

func (s *Storage) Search(_ context.Context, vector []float64, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	matches := make([]vectorstore.Match, 0, len(s.records))
	for _, r := range s.records {
		if !filter.Matches(r.Metadata) {
			continue
		}
		score := embedding.Cosine(vector, r.Vector)
		if score <= 0 {
			continue
		}
		matches = append(matches, vectorstore.Match{ID: r.ID, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *Storage) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *Storage) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.index = make(map[string]int)
	return nil
}

func (s *Storage) Close() error { return nil }
