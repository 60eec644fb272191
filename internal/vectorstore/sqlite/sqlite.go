package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/lehigh-university-libraries/partsdesk/internal/embedding"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

// Storage persists the semantic index to a local SQLite file so the
// index command and the server can share it. Search is brute-force.
type Storage struct {
	db        *sql.DB
	dimension int
}

func NewStorage(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &Storage{db: db}, nil
}

func (s *Storage) Name() string { return "sqlite" }

func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS part_vectors (
  part_id   TEXT PRIMARY KEY,
  metadata  TEXT NOT NULL,
  embedding TEXT NOT NULL,
  dimension INTEGER NOT NULL
);`)
	if err != nil {
		return err
	}
	// Vectors from a different embedder configuration are unusable.
	_, err = s.db.ExecContext(ctx, `DELETE FROM part_vectors WHERE dimension != ?`, dimension)
	return err
}

func (s *Storage) Upsert(ctx context.Context, records []vectorstore.Record) error {
	for _, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("part %s: vector dimension mismatch", r.ID)
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO part_vectors (part_id, metadata, embedding, dimension) VALUES (?, ?, ?, ?)
ON CONFLICT(part_id) DO UPDATE SET metadata=excluded.metadata, embedding=excluded.embedding, dimension=excluded.dimension`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return err
		}
		vec, err := json.Marshal(r.Vector)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r.ID, string(meta), string(vec), len(r.Vector)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	rows, err := s.db.QueryContext(ctx, `SELECT part_id, metadata, embedding FROM part_vectors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var id, metaJSON, vecJSON string
		if err := rows.Scan(&id, &metaJSON, &vecJSON); err != nil {
			return nil, err
		}
		var meta vectorstore.Metadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("part %s: decode metadata: %w", id, err)
		}
		if !filter.Matches(meta) {
			continue
		}
		var vec []float64
		if err := json.Unmarshal([]byte(vecJSON), &vec); err != nil {
			return nil, fmt.Errorf("part %s: decode embedding: %w", id, err)
		}
		score := embedding.Cosine(vector, vec)
		if score <= 0 {
			continue
		}
		matches = append(matches, vectorstore.Match{ID: id, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM part_vectors`).Scan(&n)
	return n, err
}

func (s *Storage) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM part_vectors`)
	return err
}

func (s *Storage) Close() error { return s.db.Close() }
