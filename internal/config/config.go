package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port          string `yaml:"port"`
	AllowedOrigin string `yaml:"allowed_origin"`
}

// S3Config holds connection details used when the catalog dir is an s3:// URL.
type S3Config struct {
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	AccessKeyIDEnv string `yaml:"access_key_id_env"`
	SecretKeyEnv   string `yaml:"secret_access_key_env"`
	UsePathStyle   bool   `yaml:"use_path_style"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

// CatalogConfig locates the refrigerator and dishwasher part files.
type CatalogConfig struct {
	Dir string    `yaml:"dir"`
	S3  *S3Config `yaml:"s3,omitempty"`
}

// GeneratorConfig selects the text-generation backend used by the response composer.
type GeneratorConfig struct {
	Provider    string  `yaml:"provider"` // deepseek, openai, gemini, ollama, template
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"` // tfidf, openai
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type PgVectorConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// VectorStoreConfig selects the semantic index backend. "none" disables semantic search.
type VectorStoreConfig struct {
	Type     string          `yaml:"type"` // memory, qdrant, pgvector, sqlite, none
	Qdrant   *QdrantConfig   `yaml:"qdrant,omitempty"`
	PgVector *PgVectorConfig `yaml:"pgvector,omitempty"`
	SQLite   *SQLiteConfig   `yaml:"sqlite,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
}

// Load reads a config from path. If the file does not exist, defaults are returned.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// save writes the config to the given path, creating directories as needed.
func save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server:      ServerConfig{Port: "8000", AllowedOrigin: "http://localhost:3000"},
		Embedder:    EmbedderConfig{Type: "tfidf"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Generator:   GeneratorConfig{Temperature: 0.7, MaxTokens: 400, TimeoutSecs: 30},
	}
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("PARTSDESK_PROVIDER"); v != "" {
		cfg.Generator.Provider = v
	}
	if v := os.Getenv("PARTSDESK_CATALOG_DIR"); v != "" {
		cfg.Catalog.Dir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("QDRANT_URL"); v != "" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		cfg.VectorStore.Qdrant.URL = v
	}
	if v := os.Getenv("PGVECTOR_DSN"); v != "" {
		if cfg.VectorStore.PgVector == nil {
			cfg.VectorStore.PgVector = &PgVectorConfig{}
		}
		cfg.VectorStore.PgVector.DSN = v
	}

	// Pick a generator from whichever key is present, preferring DeepSeek.
	if cfg.Generator.Provider == "" {
		switch {
		case usableKey("DEEPSEEK_API_KEY"):
			cfg.Generator.Provider = "deepseek"
		case usableKey("OPENAI_API_KEY"):
			cfg.Generator.Provider = "openai"
		case usableKey("GEMINI_API_KEY"):
			cfg.Generator.Provider = "gemini"
		default:
			cfg.Generator.Provider = "template"
		}
	}
}

// usableKey rejects placeholder values such as "demo_key".
func usableKey(env string) bool {
	v := os.Getenv(env)
	return v != "" && v != "demo_key" && v != "your_openai_key_here"
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = 30
	}
	if cfg.Generator.MaxTokens == 0 {
		cfg.Generator.MaxTokens = 400
	}

	g := &cfg.Generator
	switch g.Provider {
	case "deepseek":
		if g.BaseURL == "" {
			g.BaseURL = "https://api.deepseek.com/v1"
		}
		if g.APIKeyEnv == "" {
			g.APIKeyEnv = "DEEPSEEK_API_KEY"
		}
		if g.Model == "" {
			g.Model = "deepseek-chat"
		}
	case "openai":
		if g.BaseURL == "" {
			g.BaseURL = "https://api.openai.com/v1"
		}
		if g.APIKeyEnv == "" {
			g.APIKeyEnv = "OPENAI_API_KEY"
		}
		if g.Model == "" {
			g.Model = "gpt-4o-mini"
		}
	case "gemini":
		if g.APIKeyEnv == "" {
			g.APIKeyEnv = "GEMINI_API_KEY"
		}
		if g.Model == "" {
			g.Model = "gemini-1.5-flash"
		}
	case "ollama":
		if g.Model == "" {
			g.Model = "llama3.1"
		}
	}

	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.Dimensions == 0 {
			o.Dimensions = 512
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	switch cfg.VectorStore.Type {
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		q := cfg.VectorStore.Qdrant
		if q.URL == "" {
			q.URL = "http://localhost:6333"
		}
		if q.Collection == "" {
			q.Collection = "partselect-parts"
		}
		if q.APIKeyEnv == "" {
			q.APIKeyEnv = "QDRANT_API_KEY"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	case "pgvector":
		if cfg.VectorStore.PgVector == nil {
			cfg.VectorStore.PgVector = &PgVectorConfig{}
		}
		if cfg.VectorStore.PgVector.Table == "" {
			cfg.VectorStore.PgVector.Table = "part_vectors"
		}
	case "sqlite":
		if cfg.VectorStore.SQLite == nil {
			cfg.VectorStore.SQLite = &SQLiteConfig{}
		}
		if cfg.VectorStore.SQLite.Path == "" {
			cfg.VectorStore.SQLite.Path = filepath.Join("data", "index.db")
		}
	}

	if cfg.Catalog.S3 != nil {
		s := cfg.Catalog.S3
		if s.Region == "" {
			s.Region = "us-east-1"
		}
		if s.AccessKeyIDEnv == "" {
			s.AccessKeyIDEnv = "AWS_ACCESS_KEY_ID"
		}
		if s.SecretKeyEnv == "" {
			s.SecretKeyEnv = "AWS_SECRET_ACCESS_KEY"
		}
		if s.TimeoutSecs == 0 {
			s.TimeoutSecs = 30
		}
	}
}
