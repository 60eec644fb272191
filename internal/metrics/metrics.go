// Package metrics provides Prometheus metrics for the chat pipeline and its
// external collaborators.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomeFallback = "fallback"
	OutcomeSkipped  = "skipped"
)

var (
	// Collaborator metrics (text generation, embeddings, vector stores)
	CollaboratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_collaborator_calls_total",
			Help: "Total number of calls to external collaborators",
		},
		[]string{"backend", "operation", "outcome"},
	)

	CollaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partsdesk_collaborator_call_duration_seconds",
			Help:    "Latency of calls to external collaborators",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"backend", "operation"},
	)

	// Pipeline metrics
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_chat_requests_total",
			Help: "Chat requests by resolved intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partsdesk_pipeline_duration_seconds",
			Help:    "End-to-end chat pipeline latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"intent"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_stage_failures_total",
			Help: "Pipeline stages that returned a failure",
		},
		[]string{"stage"},
	)

	// Cart metrics
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_cart_mutations_total",
			Help: "Cart mutations by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "partsdesk_sessions_active",
			Help: "Number of sessions held in memory",
		},
	)

	CatalogParts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "partsdesk_catalog_parts",
			Help: "Parts loaded per appliance type",
		},
		[]string{"appliance_type"},
	)
)

// OutcomeOf classifies an error returned by a collaborator.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

// RecordCollaborator records one collaborator call and logs it with the same fields.
func RecordCollaborator(backend, operation, outcome string, latency time.Duration) {
	CollaboratorCalls.WithLabelValues(backend, operation, outcome).Inc()
	CollaboratorDuration.WithLabelValues(backend, operation).Observe(latency.Seconds())

	level := slog.LevelDebug
	if outcome != OutcomeSuccess {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "Collaborator call",
		"backend", backend,
		"operation", operation,
		"outcome", outcome,
		"latency", latency)
}

// Timer measures a single collaborator call.
type Timer struct {
	backend   string
	operation string
	start     time.Time
}

func StartTimer(backend, operation string) *Timer {
	return &Timer{backend: backend, operation: operation, start: time.Now()}
}

// Done records the call with the outcome derived from err and returns that outcome.
func (t *Timer) Done(err error) string {
	outcome := OutcomeOf(err)
	RecordCollaborator(t.backend, t.operation, outcome, time.Since(t.start))
	return outcome
}

// RecordChat records a completed pipeline traversal.
func RecordChat(intent, outcome string, latency time.Duration) {
	ChatRequests.WithLabelValues(intent, outcome).Inc()
	PipelineDuration.WithLabelValues(intent).Observe(latency.Seconds())
}

// RecordCatalog publishes per-appliance part counts.
func RecordCatalog(counts map[string]int) {
	for appliance, n := range counts {
		CatalogParts.WithLabelValues(appliance).Set(float64(n))
	}
}
