package observe

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// statusWriter captures the status code written by the wrapped handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the wrapped writer so http.ResponseController and
// interface-probing libraries can reach optional interfaces such as
// http.Hijacker (required by the websocket upgrade).
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// routeLabel returns the mux pattern that matched r with the method prefix
// stripped ("POST /v1/chat" → "/v1/chat"), falling back to the raw URL path
// for unrouted requests. Labelling by pattern keeps one metric series per
// API route — "/v1/sessions/{id}" rather than one series per session ID.
func routeLabel(r *http.Request) string {
	p := r.Pattern
	if p == "" {
		return r.URL.Path
	}
	if _, route, ok := strings.Cut(p, " "); ok && route != "" {
		return route
	}
	return p
}

// Middleware wraps the chat API's route table with the request-scoped
// observability every handler relies on:
//
//   - extracts W3C Trace Context from incoming headers (or starts a new
//     trace) and opens a server span for the request;
//   - exposes the trace ID as X-Correlation-ID — the websocket handler
//     also uses it as the session fallback for anonymous clients;
//   - records [Metrics.HTTPRequestDuration] labelled by method and route;
//   - logs request completion with route, status, and duration.
//
// The span is named after the matched route once the mux has resolved it,
// so "POST /v1/chat" and "DELETE /v1/sessions/{id}" show up as stable span
// names regardless of the concrete URL.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	prop := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := StartSpan(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			if cid := CorrelationID(ctx); cid != "" {
				w.Header().Set("X-Correlation-ID", cid)
			}
			prop.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			r = r.WithContext(ctx)
			next.ServeHTTP(sw, r)

			// The mux fills in r.Pattern during routing, so the route is
			// only known after the handler ran.
			route := routeLabel(r)
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCode(sw.status),
			)

			elapsed := time.Since(start)
			m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(),
				metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("route", route),
				),
			)

			slog.LogAttrs(ctx, slog.LevelInfo, "api request served",
				slog.String("trace_id", CorrelationID(ctx)),
				slog.String("route", r.Method+" "+route),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", elapsed),
			)
		})
	}
}
