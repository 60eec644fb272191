package ollama

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/providers"
)

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
			return
		}
		if body["system"] != "be brief" || body["stream"] != false {
			t.Errorf("Unexpected body %v", body)
		}
		w.Write([]byte(`{"response":"Replace the drain pump.\n"}`))
	}))
	defer server.Close()

	text, err := New(server.URL).Generate(t.Context(), providers.Config{Model: "llama3.1", System: "be brief", Prompt: "not draining"})
	if err != nil {
		t.Fatal(err)
	}
	if text != "Replace the drain pump." {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestNewUsesEnv(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://ollama:11434/")
	if got := New("").baseURL; got != "http://ollama:11434" {
		t.Errorf("Expected env URL, got %s", got)
	}
}
