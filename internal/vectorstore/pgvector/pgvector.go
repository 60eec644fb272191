package pgvector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Storage keeps part vectors in Postgres with the pgvector extension.
type Storage struct {
	db        *sql.DB
	table     string
	dimension int
}

// NewStorage opens a connection; the table is created by Init.
func NewStorage(dsn, table string) (*Storage, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return NewStorageFromDB(db, table), nil
}

// NewStorageFromDB reuses an existing *sql.DB.
func NewStorageFromDB(db *sql.DB, table string) *Storage {
	return &Storage{db: db, table: table}
}

func (s *Storage) Name() string { return "pgvector" }

func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS %[1]s (
  part_id        text PRIMARY KEY,
  name           text,
  brand          text,
  category       text,
  appliance_type text,
  price          double precision,
  in_stock       boolean,
  content_text   text,
  embedding      vector(%[2]d),
  updated_at     timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[1]s_appliance_idx ON %[1]s (lower(appliance_type));
`, s.table, dimension)
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *Storage) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`
INSERT INTO %s (part_id, name, brand, category, appliance_type, price, in_stock, content_text, embedding, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::vector,$10)
ON CONFLICT (part_id) DO UPDATE SET
  name=EXCLUDED.name,
  brand=EXCLUDED.brand,
  category=EXCLUDED.category,
  appliance_type=EXCLUDED.appliance_type,
  price=EXCLUDED.price,
  in_stock=EXCLUDED.in_stock,
  content_text=EXCLUDED.content_text,
  embedding=EXCLUDED.embedding,
  updated_at=now();
`, s.table)
	for _, r := range records {
		lit, err := VectorLiteral(r.Vector, s.dimension)
		if err != nil {
			return fmt.Errorf("part %s: %w", r.ID, err)
		}
		m := r.Metadata
		if _, err := tx.ExecContext(ctx, stmt,
			r.ID, m.Name, m.Brand, m.Category, m.ApplianceType, m.Price, m.InStock, m.Text, lit, time.Now().UTC(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	lit, err := VectorLiteral(vector, s.dimension)
	if err != nil {
		return nil, err
	}
	where, args := buildWhere(filter, lit)
	query := fmt.Sprintf(`
SELECT part_id, 1 - (embedding <=> $1::vector) AS score
FROM %s
WHERE %s
ORDER BY embedding <=> $1::vector
LIMIT %d;
`, s.table, where, topK)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var m vectorstore.Match
		if err := rows.Scan(&m.ID, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// buildWhere returns the filter clause; $1 is always the query vector.
func buildWhere(f vectorstore.Filter, vectorLiteral string) (string, []any) {
	where := []string{"embedding IS NOT NULL"}
	args := []any{vectorLiteral}
	add := func(column, value string) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("lower(%s) = lower($%d)", column, len(args)))
	}
	if f.ApplianceType != "" {
		add("appliance_type", f.ApplianceType)
	}
	if f.Brand != "" {
		add("brand", f.Brand)
	}
	if f.Category != "" {
		add("category", f.Category)
	}
	if f.InStockOnly {
		where = append(where, "in_stock")
	}
	return strings.Join(where, " AND "), args
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, s.table)).Scan(&n)
	return n, err
}

func (s *Storage) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`TRUNCATE %s`, s.table))
	return err
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// VectorLiteral formats v as a pgvector text literal.
func VectorLiteral(v []float64, dim int) (string, error) {
	if len(v) == 0 {
		return "", errors.New("embedding is required")
	}
	if dim > 0 && len(v) != dim {
		return "", fmt.Errorf("embedding length %d does not match dimension %d", len(v), dim)
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}
