package providers

import (
	"context"
)

// Config is a single text-generation request.
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// System is sent as a system instruction where the backend supports one.
	System string
	Prompt string
}

// Provider generates a reply from an LLM backend. Implementations make a
// single attempt per call.
type Provider interface {
	Name() string
	Generate(ctx context.Context, config Config) (string, error)
}
