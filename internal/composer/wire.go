package composer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/partsdesk/internal/config"
	"github.com/lehigh-university-libraries/partsdesk/internal/gemini"
	"github.com/lehigh-university-libraries/partsdesk/internal/ollama"
	"github.com/lehigh-university-libraries/partsdesk/internal/openai"
	"github.com/lehigh-university-libraries/partsdesk/internal/providers"
)

// NewProvider builds the configured text generator. It returns nil for the
// template provider.
func NewProvider(cfg config.GeneratorConfig) (providers.Provider, error) {
	switch cfg.Provider {
	case "", StrategyTemplate:
		return nil, nil
	case "openai", "deepseek":
		p, err := openai.New(cfg.Provider, cfg.BaseURL, cfg.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "gemini":
		p, err := gemini.New(cfg.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "ollama":
		return ollama.New(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// FromConfig builds a composer. A provider that cannot be built is logged
// and replaced by templates.
func FromConfig(cfg config.GeneratorConfig) *Composer {
	p, err := NewProvider(cfg)
	if err != nil {
		slog.Warn("Text generator unavailable, using templates", "provider", cfg.Provider, "err", err)
		p = nil
	}
	return New(p, Config{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
	})
}
