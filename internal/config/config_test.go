package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PARTSDESK_PROVIDER", "PARTSDESK_CATALOG_DIR", "PORT", "QDRANT_URL", "PGVECTOR_DSN", "DEEPSEEK_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Errorf("Expected port 8000, got %s", cfg.Server.Port)
	}
	if cfg.Generator.Provider != "template" {
		t.Errorf("Expected template provider, got %s", cfg.Generator.Provider)
	}
	if cfg.Generator.TimeoutSecs != 30 {
		t.Errorf("Expected 30s generator timeout, got %d", cfg.Generator.TimeoutSecs)
	}
	if cfg.VectorStore.Type != "memory" || cfg.Embedder.Type != "tfidf" {
		t.Errorf("Unexpected semantic defaults: %s/%s", cfg.VectorStore.Type, cfg.Embedder.Type)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
generator:
  provider: openai
vector_store:
  type: qdrant
embedder:
  type: openai
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Generator.Model != "gpt-4o-mini" || cfg.Generator.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("OpenAI defaults not applied: %+v", cfg.Generator)
	}
	if cfg.VectorStore.Qdrant == nil || cfg.VectorStore.Qdrant.Collection != "partselect-parts" {
		t.Errorf("Qdrant defaults not applied: %+v", cfg.VectorStore.Qdrant)
	}
	if cfg.Embedder.OpenAI == nil || cfg.Embedder.OpenAI.Dimensions != 512 {
		t.Errorf("Embedder defaults not applied: %+v", cfg.Embedder.OpenAI)
	}
}

func TestProviderFromEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{name: "deepseek preferred", env: map[string]string{"DEEPSEEK_API_KEY": "k", "OPENAI_API_KEY": "k"}, expected: "deepseek"},
		{name: "openai", env: map[string]string{"OPENAI_API_KEY": "k"}, expected: "openai"},
		{name: "placeholder key ignored", env: map[string]string{"DEEPSEEK_API_KEY": "demo_key"}, expected: "template"},
		{name: "explicit provider wins", env: map[string]string{"PARTSDESK_PROVIDER": "ollama", "OPENAI_API_KEY": "k"}, expected: "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Generator.Provider != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, cfg.Generator.Provider)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, _ := Load("")
	cfg.Catalog.Dir = "s3://parts/catalog"
	if err := save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Catalog.Dir != "s3://parts/catalog" {
		t.Errorf("Expected catalog dir to survive, got %s", loaded.Catalog.Dir)
	}
}
