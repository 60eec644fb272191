package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := New(""); err == nil {
		t.Error("Expected error for missing key")
	}
}

func TestFirstText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{name: "nil", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{name: "empty content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, wantErr: true},
		{
			name: "text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text(" It fits. ")}},
			}}},
			want: "It fits.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := firstText(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unexpected error %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
