// Package observe provides application-wide observability primitives for
// the assistant: OpenTelemetry metrics, tracing helpers, and HTTP
// middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all assistant metrics.
const meterName = "github.com/nivaas-labs/assistant"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// TurnDuration tracks end-to-end dialogue turn processing latency.
	TurnDuration metric.Float64Histogram

	// MatchConfidence tracks the confidence score of accepted
	// knowledge-base matches.
	MatchConfidence metric.Float64Histogram

	// --- Counters ---

	// Turns counts handled dialogue turns. Use with attribute:
	//   attribute.String("branch", ...) — unclear, greeting, thanks,
	//   matched, or fallback.
	Turns metric.Int64Counter

	// Fallbacks counts turns no knowledge entry could answer. Use with
	// attribute:
	//   attribute.String("reason", ...)
	Fallbacks metric.Int64Counter

	// Feedback counts thumbs feedback submissions. Use with attribute:
	//   attribute.String("value", ...) — up or down.
	Feedback metric.Int64Counter

	// Suggestions counts follow-up prompts attached to replies.
	Suggestions metric.Int64Counter

	// InteractionLogErrors counts swallowed side-channel write failures.
	InteractionLogErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of live conversation sessions.
	ActiveSessions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// turnBuckets defines histogram bucket boundaries (in seconds) sized for
// the in-memory matching pipeline, which completes in well under a second.
var turnBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1,
}

// confidenceBuckets covers the [0, 1] score range with extra resolution
// around the selection thresholds.
var confidenceBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.TurnDuration, err = m.Float64Histogram("assistant.turn.duration",
		metric.WithDescription("End-to-end dialogue turn processing latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(turnBuckets...),
	); err != nil {
		return nil, err
	}
	if met.MatchConfidence, err = m.Float64Histogram("assistant.match.confidence",
		metric.WithDescription("Confidence score of accepted knowledge-base matches."),
		metric.WithExplicitBucketBoundaries(confidenceBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Turns, err = m.Int64Counter("assistant.turns",
		metric.WithDescription("Total handled dialogue turns by branch."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("assistant.fallbacks",
		metric.WithDescription("Total turns routed to a fallback reply by reason."),
	); err != nil {
		return nil, err
	}
	if met.Feedback, err = m.Int64Counter("assistant.feedback",
		metric.WithDescription("Total feedback submissions by value."),
	); err != nil {
		return nil, err
	}
	if met.Suggestions, err = m.Int64Counter("assistant.suggestions",
		metric.WithDescription("Total follow-up suggestions attached to replies."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.InteractionLogErrors, err = m.Int64Counter("assistant.interaction_log.errors",
		metric.WithDescription("Total swallowed interaction-log write failures."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("assistant.active_sessions",
		metric.WithDescription("Number of live conversation sessions."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("assistant.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordTurn is a convenience method that records one handled turn with its
// dialogue branch and duration.
func (m *Metrics) RecordTurn(ctx context.Context, branch string, seconds float64) {
	m.Turns.Add(ctx, 1,
		metric.WithAttributes(attribute.String("branch", branch)),
	)
	m.TurnDuration.Record(ctx, seconds)
}

// RecordMatch is a convenience method that records the confidence of an
// accepted knowledge-base match.
func (m *Metrics) RecordMatch(ctx context.Context, confidence float64) {
	m.MatchConfidence.Record(ctx, confidence)
}

// RecordFallback is a convenience method that records a fallback turn with
// its reason.
func (m *Metrics) RecordFallback(ctx context.Context, reason string) {
	m.Fallbacks.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)),
	)
}

// RecordFeedback is a convenience method that records one feedback
// submission ("up" or "down").
func (m *Metrics) RecordFeedback(ctx context.Context, value string) {
	m.Feedback.Add(ctx, 1,
		metric.WithAttributes(attribute.String("value", value)),
	)
}
