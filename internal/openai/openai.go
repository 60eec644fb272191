// Package openai talks to any OpenAI-compatible chat completions API,
// including DeepSeek.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/providers"
)

const defaultBaseURL = "https://api.openai.com/v1"

type OpenAI struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

// New returns a provider for the chat completions API at baseURL. It fails
// when the API key env var is unset so the caller can fall back to
// templates at startup.
func New(name, baseURL, apiKeyEnv string) (*OpenAI, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", apiKeyEnv)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if name == "" {
		name = "openai"
	}
	return &OpenAI{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{},
	}, nil
}

func (o *OpenAI) Name() string { return o.name }

// Generate sends the system and user prompts to the chat completions endpoint.
func (o *OpenAI) Generate(ctx context.Context, config providers.Config) (string, error) {
	messages := make([]map[string]string, 0, 2)
	if config.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": config.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": config.Prompt})

	body := map[string]any{
		"model":       config.Model,
		"messages":    messages,
		"temperature": config.Temperature,
	}
	if config.MaxTokens > 0 {
		body["max_tokens"] = config.MaxTokens
	}
	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s", o.name)
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
