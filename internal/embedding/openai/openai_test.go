package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY", "")
	if _, err := NewClient(Config{APIKeyEnv: "TEST_EMBED_KEY"}); err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestEmbed(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("Missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	t.Setenv("TEST_EMBED_KEY", "secret")
	c, err := NewClient(Config{BaseURL: server.URL, APIKeyEnv: "TEST_EMBED_KEY", Dimensions: 3})
	if err != nil {
		t.Fatal(err)
	}

	v, err := c.Embed(context.Background(), "water filter")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(v) != 3 {
		t.Errorf("Expected 3 dims, got %d", len(v))
	}
	if got["input"] != "water filter" || got["dimensions"] != float64(3) {
		t.Errorf("Unexpected request body %v", got)
	}
}

func TestEmbedNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	t.Setenv("TEST_EMBED_KEY", "secret")
	c, _ := NewClient(Config{BaseURL: server.URL, APIKeyEnv: "TEST_EMBED_KEY"})
	if _, err := c.Embed(context.Background(), "x"); err == nil {
		t.Error("Expected error on non-200 response")
	}
}
