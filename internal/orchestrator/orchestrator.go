// Package orchestrator runs a chat message through scope, intent, the
// specialists and the response composer, and owns per-session carts.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/partsdesk/internal/composer"
	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/metrics"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
	"github.com/lehigh-university-libraries/partsdesk/internal/scope"
	"github.com/lehigh-university-libraries/partsdesk/internal/specialists"
	"github.com/lehigh-university-libraries/partsdesk/internal/storage"
)

const (
	OutOfScopeMessage = "I can only help with refrigerator and dishwasher parts. Please ask about appliance parts, installation, compatibility, or troubleshooting."
	ErrorMessage      = "I'm sorry, I encountered an error processing your request. Please try rephrasing your question."

	queryTypeError = "error"
)

// IntentClassifier classifies a message, including the scope gate.
type IntentClassifier interface {
	Classify(text string) result.Result[intent.Classification]
}

type Orchestrator struct {
	classifier IntentClassifier
	router     *specialists.Router
	composer   *composer.Composer
	engine     *retrieval.Engine
	sessions   *storage.SessionStore
}

func New(engine *retrieval.Engine, comp *composer.Composer, sessions *storage.SessionStore) *Orchestrator {
	return &Orchestrator{
		classifier: intent.NewClassifier(scope.NewClassifier()),
		router:     specialists.NewRouter(engine),
		composer:   comp,
		engine:     engine,
		sessions:   sessions,
	}
}

func (o *Orchestrator) Sessions() *storage.SessionStore { return o.sessions }

func (o *Orchestrator) Engine() *retrieval.Engine { return o.engine }

// Process answers one chat message for sessionID. It always returns a
// response; failures become an apology with query type "error".
func (o *Orchestrator) Process(ctx context.Context, sessionID string, req models.ChatRequest) (resp models.ChatResponse) {
	start := time.Now()
	trace := []string{"scope", "intent"}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Chat pipeline panicked", "session_id", sessionID, "panic", r)
			metrics.StageFailures.WithLabelValues("pipeline").Inc()
			resp = errorResponse(sessionID, append(trace, "error"))
			metrics.RecordChat(queryTypeError, metrics.OutcomeError, time.Since(start))
		}
	}()

	classified := o.classifier.Classify(req.Message)
	c, ok := classified.Get()
	if !ok {
		slog.Error("Intent classification failed", "session_id", sessionID, "reason", classified.Reason())
		metrics.StageFailures.WithLabelValues("intent").Inc()
		metrics.RecordChat(queryTypeError, metrics.OutcomeError, time.Since(start))
		return errorResponse(sessionID, append(trace, "error"))
	}

	if c.Intent == intent.OutOfScope {
		confidence := c.Confidence
		metrics.RecordChat(c.Intent.String(), metrics.OutcomeSuccess, time.Since(start))
		return models.ChatResponse{
			Message:    OutOfScopeMessage,
			Parts:      []models.Part{},
			QueryType:  c.Intent.String(),
			Confidence: &confidence,
			SessionID:  sessionID,
			AgentTrace: trace,
		}
	}

	var reply composer.Reply
	var failed string
	id, _ := o.sessions.WithSession(sessionID, func(s *storage.Session) error {
		reply, trace, failed = o.run(ctx, s, req, c, trace)
		return nil
	})

	if failed != "" {
		metrics.StageFailures.WithLabelValues(failed).Inc()
		metrics.RecordChat(queryTypeError, metrics.OutcomeError, time.Since(start))
		return errorResponse(id, append(trace, "error"))
	}

	slog.Info("Chat processed",
		"session_id", id,
		"intent", c.Intent.String(),
		"strategy", reply.Strategy,
		"parts", len(reply.Parts),
		"latency", time.Since(start))
	metrics.RecordChat(c.Intent.String(), metrics.OutcomeSuccess, time.Since(start))

	confidence := reply.Confidence
	return models.ChatResponse{
		Message:          reply.Message,
		Parts:            reply.Parts,
		QueryType:        reply.QueryType,
		Confidence:       &confidence,
		SuggestedActions: reply.SuggestedActions,
		SessionID:        id,
		AgentTrace:       trace,
	}
}

// run executes the session-scoped part of the pipeline while the session
// lock is held. failed names the stage that failed, if any.
func (o *Orchestrator) run(ctx context.Context, s *storage.Session, req models.ChatRequest, c intent.Classification, trace []string) (composer.Reply, []string, string) {
	sreq := specialists.Request{
		Query:          req.Message,
		Classification: c,
		LastShownPart:  s.LastShownPart,
		Cart:           s.Cart.View(),
	}

	if o.needsParts(c) {
		trace = append(trace, o.router.Search.Name())
		if out, ok := o.router.Search.Handle(ctx, sreq).Get(); ok {
			sreq.Parts = out.Parts
		}
	}
	if len(sreq.Parts) == 0 && c.Intent == intent.PricingInquiry && s.LastShownPart != nil {
		sreq.Parts = []models.Part{*s.LastShownPart}
	}

	specialist, _ := o.router.For(c.Intent)
	trace = append(trace, specialist.Name())
	res := specialist.Handle(ctx, sreq)
	outcome, ok := res.Get()
	if !ok {
		slog.Error("Specialist failed", "specialist", specialist.Name(), "reason", res.Reason())
		return composer.Reply{}, trace, specialist.Name()
	}

	if outcome.RedirectSearch != "" {
		trace = append(trace, o.router.Search.Name())
		redirect := specialists.Request{
			Query: outcome.RedirectSearch,
			Classification: intent.Classification{
				Intent:   intent.ProductSearch,
				Entities: intent.ExtractEntities(outcome.RedirectSearch),
			},
		}
		if found, ok := o.router.Search.Handle(ctx, redirect).Get(); ok {
			outcome.Parts = found.Parts
		}
	}

	added := false
	if outcome.CartAction == specialists.CartActionAdd && outcome.CartPart != nil {
		_, err := s.Cart.Add(*outcome.CartPart, 1, nil)
		metrics.CartMutations.WithLabelValues("add", metrics.OutcomeOf(err)).Inc()
		if err != nil {
			slog.Warn("Unable to add part to cart", "session_id", s.ID, "part", outcome.CartPart.PartSelectNumber, "err", err)
		} else {
			added = true
		}
	}

	trace = append(trace, "response")
	reply := o.composer.Compose(ctx, composer.Input{
		Query:   req.Message,
		Intent:  c.Intent,
		Outcome: outcome,
		History: req.ConversationHistory,
	})

	switch {
	case added:
		// a confirmation is spent once the part is in the cart
		s.LastShownPart = nil
	case len(reply.Parts) > 0:
		shown := reply.Parts[0]
		s.LastShownPart = &shown
	}
	return reply, trace, ""
}

// needsParts reports whether the specialist expects parts resolved by a
// search first.
func (o *Orchestrator) needsParts(c intent.Classification) bool {
	switch c.Intent {
	case intent.PurchaseIntent:
		return len(c.Entities.PartNumbers) > 0
	case intent.PricingInquiry:
		return !c.Entities.Empty()
	}
	return false
}

func errorResponse(sessionID string, trace []string) models.ChatResponse {
	return models.ChatResponse{
		Message:    ErrorMessage,
		Parts:      []models.Part{},
		QueryType:  queryTypeError,
		SessionID:  sessionID,
		AgentTrace: trace,
	}
}

// Status describes the loaded pipeline.
type Status struct {
	AgentsLoaded    int      `json:"agents_loaded"`
	PartsDataLoaded int      `json:"parts_data_loaded"`
	ToolsAvailable  bool     `json:"tools_available"`
	AgentList       []string `json:"agent_list"`
	SemanticBackend string   `json:"semantic_backend"`
	TextGenerator   string   `json:"text_generator"`
	ActiveSessions  int      `json:"active_sessions"`
}

func (o *Orchestrator) Status() Status {
	agents := []string{"scope", "intent"}
	for _, s := range o.router.All() {
		agents = append(agents, s.Name())
	}
	agents = append(agents, "response")
	return Status{
		AgentsLoaded:    len(agents),
		PartsDataLoaded: o.engine.Catalog().Len(),
		ToolsAvailable:  true,
		AgentList:       agents,
		SemanticBackend: o.engine.SemanticBackend(),
		TextGenerator:   o.composer.Backend(),
		ActiveSessions:  o.sessions.Len(),
	}
}
