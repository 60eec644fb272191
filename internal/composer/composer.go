// Package composer renders a specialist outcome into the reply shown to
// the user, through an LLM when one is configured and templates otherwise.
package composer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/metrics"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/providers"
	"github.com/lehigh-university-libraries/partsdesk/internal/specialists"
)

const (
	StrategyLLM      = "llm"
	StrategyTemplate = "template"

	defaultTimeout    = 30 * time.Second
	defaultConfidence = 0.5
)

type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Input is what the composer needs to write one reply.
type Input struct {
	Query   string
	Intent  intent.Intent
	Outcome specialists.Outcome
	History []models.Message
}

type Reply struct {
	Message          string
	Parts            []models.Part
	QueryType        string
	Confidence       float64
	SuggestedActions []string
	// Strategy is the strategy that produced Message.
	Strategy string
}

type Composer struct {
	provider providers.Provider
	cfg      Config
}

// New returns a composer. A nil provider means templates only.
func New(p providers.Provider, cfg Config) *Composer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Composer{provider: p, cfg: cfg}
}

// Backend names the text generator, or "template".
func (c *Composer) Backend() string {
	if c.provider == nil {
		return StrategyTemplate
	}
	return c.provider.Name()
}

// Compose never fails: any generator error, timeout or empty reply falls
// back to the templates.
func (c *Composer) Compose(ctx context.Context, in Input) Reply {
	message, strategy := c.generate(ctx, in)

	confidence := in.Outcome.Confidence
	if confidence == 0 {
		confidence = defaultConfidence
	}
	return Reply{
		Message:          message,
		Parts:            filterParts(in.Outcome.Parts, in.Intent, message),
		QueryType:        in.Intent.String(),
		Confidence:       confidence,
		SuggestedActions: in.Outcome.SuggestedActions,
		Strategy:         strategy,
	}
}

func (c *Composer) generate(ctx context.Context, in Input) (string, string) {
	if c.provider == nil {
		return renderTemplate(in), StrategyTemplate
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	timer := metrics.StartTimer(c.provider.Name(), "generate")
	text, err := c.provider.Generate(ctx, providers.Config{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		System:      systemPrompt,
		Prompt:      userPrompt(in),
	})
	if err == nil && text == "" {
		err = errEmptyReply
	}
	if outcome := timer.Done(err); outcome != metrics.OutcomeSuccess {
		metrics.CollaboratorCalls.WithLabelValues(c.provider.Name(), "generate", metrics.OutcomeFallback).Inc()
		slog.Warn("Falling back to template reply",
			"backend", c.provider.Name(),
			"intent", in.Intent.String(),
			"outcome", outcome,
			"err", err)
		return renderTemplate(in), StrategyTemplate
	}
	return text, StrategyLLM
}

var errEmptyReply = errors.New("empty reply from text generator")
