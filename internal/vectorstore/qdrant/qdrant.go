package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
)

// partNamespace derives stable point IDs from SKUs; Qdrant only accepts
// unsigned integers or UUIDs as point IDs.
var partNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("partsdesk/parts"))

// PointID returns the Qdrant point ID for a part SKU.
func PointID(sku string) string {
	return uuid.NewSHA1(partNamespace, []byte(strings.ToUpper(sku))).String()
}

// Storage is a REST client to Qdrant using cosine distance.
type Storage struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

type Config struct {
	URL        string
	APIKeyEnv  string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     os.Getenv(cfg.APIKeyEnv),
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) Name() string { return "qdrant" }

// Init creates the collection unless it already exists.
func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	err := s.do(ctx, http.MethodGet, s.collectionURL(""), nil, nil)
	if err == nil {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, s.collectionURL(""), body, nil)
}

func (s *Storage) Upsert(ctx context.Context, records []vectorstore.Record) error {
	points := make([]map[string]any, len(records))
	for i, r := range records {
		points[i] = map[string]any{
			"id":     PointID(r.ID),
			"vector": r.Vector,
			"payload": map[string]any{
				"part_id":        r.ID,
				"name":           r.Metadata.Name,
				"brand":          strings.ToLower(r.Metadata.Brand),
				"category":       strings.ToLower(r.Metadata.Category),
				"appliance_type": strings.ToLower(r.Metadata.ApplianceType),
				"price":          r.Metadata.Price,
				"in_stock":       r.Metadata.InStock,
				"text":           r.Metadata.Text,
			},
		}
	}
	return s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), map[string]any{"points": points}, nil)
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": []string{"part_id"},
	}
	if f := buildFilter(filter); f != nil {
		req["filter"] = f
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				PartID string `json:"part_id"`
			} `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		if r.Payload.PartID == "" {
			continue
		}
		matches = append(matches, vectorstore.Match{ID: r.Payload.PartID, Score: r.Score})
	}
	return matches, nil
}

func buildFilter(f vectorstore.Filter) map[string]any {
	var must []map[string]any
	add := func(key string, value any) {
		must = append(must, map[string]any{"key": key, "match": map[string]any{"value": value}})
	}
	if f.ApplianceType != "" {
		add("appliance_type", strings.ToLower(f.ApplianceType))
	}
	if f.Brand != "" {
		add("brand", strings.ToLower(f.Brand))
	}
	if f.Category != "" {
		add("category", strings.ToLower(f.Category))
	}
	if f.InStockOnly {
		add("in_stock", true)
	}
	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/count"), map[string]any{"exact": true}, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Clear drops the collection.
func (s *Storage) Clear(ctx context.Context) error {
	return s.do(ctx, http.MethodDelete, s.collectionURL(""), nil, nil)
}

func (s *Storage) Close() error { return nil }

func (s *Storage) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func (s *Storage) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s failed: %s - %s", method, url, resp.Status, string(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
