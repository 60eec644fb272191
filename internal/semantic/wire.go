package semantic

import (
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/partsdesk/internal/config"
	"github.com/lehigh-university-libraries/partsdesk/internal/embedding"
	embedopenai "github.com/lehigh-university-libraries/partsdesk/internal/embedding/openai"
	"github.com/lehigh-university-libraries/partsdesk/internal/embedding/tfidf"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore/memory"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore/pgvector"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore/qdrant"
	"github.com/lehigh-university-libraries/partsdesk/internal/vectorstore/sqlite"
)

// FromConfig builds an index from configuration. It returns (nil, nil)
// when semantic search is disabled.
func FromConfig(cfg *config.AppConfig) (*Index, error) {
	if strings.EqualFold(cfg.VectorStore.Type, "none") {
		return nil, nil
	}
	embedder, err := newEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	store, err := newStore(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	return NewIndex(embedder, store), nil
}

func newEmbedder(cfg config.EmbedderConfig) (embedding.Embedder, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "tfidf":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("embedder.openai configuration is required")
		}
		return embedopenai.NewClient(embedopenai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Dimensions: cfg.OpenAI.Dimensions,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}

func newStore(cfg config.VectorStoreConfig) (vectorstore.Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil || cfg.Qdrant.URL == "" {
			return nil, fmt.Errorf("vector_store.qdrant.url is required")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKeyEnv:  cfg.Qdrant.APIKeyEnv,
			Collection: cfg.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	case "pgvector":
		if cfg.PgVector == nil || cfg.PgVector.DSN == "" {
			return nil, fmt.Errorf("vector_store.pgvector.dsn is required")
		}
		return pgvector.NewStorage(cfg.PgVector.DSN, cfg.PgVector.Table)
	case "sqlite":
		path := "data/index.db"
		if cfg.SQLite != nil && cfg.SQLite.Path != "" {
			path = cfg.SQLite.Path
		}
		return sqlite.NewStorage(path)
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.Type)
	}
}
