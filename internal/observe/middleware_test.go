package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newTestMiddleware builds a Middleware backed by in-memory metric and
// span collectors.
func newTestMiddleware(t *testing.T) (func(http.Handler) http.Handler, *sdkmetric.ManualReader, *tracetest.InMemoryExporter) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	origTP := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(origTP) })

	return Middleware(m), reader, exp
}

// chatMux builds a minimal route table shaped like the chat API so tests
// exercise real mux patterns.
func chatMux(status int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
	mux.HandleFunc("DELETE /v1/sessions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
	return mux
}

func TestMiddleware_CorrelationIDReachesHandlerAndClient(t *testing.T) {
	mw, _, _ := newTestMiddleware(t)

	var inHandler string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inHandler = CorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/chat", nil))

	if len(inHandler) != 32 {
		t.Fatalf("correlation ID in handler = %q, want 32 hex chars", inHandler)
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != inHandler {
		t.Errorf("X-Correlation-ID header = %q, handler saw %q", got, inHandler)
	}
}

func TestMiddleware_SpanNamedAfterRoute(t *testing.T) {
	mw, _, exp := newTestMiddleware(t)
	h := mw(chatMux(http.StatusOK))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("DELETE", "/v1/sessions/abc123", nil))

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans recorded = %d, want 1", len(spans))
	}
	// Pattern, not the concrete session ID.
	if spans[0].Name != "DELETE /v1/sessions/{id}" {
		t.Errorf("span name = %q, want DELETE /v1/sessions/{id}", spans[0].Name)
	}
	var gotRoute, gotStatus bool
	for _, a := range spans[0].Attributes {
		switch string(a.Key) {
		case "http.route":
			gotRoute = a.Value.AsString() == "/v1/sessions/{id}"
		case "http.response.status_code":
			gotStatus = a.Value.AsInt64() == http.StatusOK
		}
	}
	if !gotRoute || !gotStatus {
		t.Errorf("span attributes missing route/status: %v", spans[0].Attributes)
	}
}

func TestMiddleware_UnroutedRequestFallsBackToPath(t *testing.T) {
	mw, _, exp := newTestMiddleware(t)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/plain", nil))

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans recorded = %d, want 1", len(spans))
	}
	if spans[0].Name != "GET /plain" {
		t.Errorf("span name = %q, want GET /plain", spans[0].Name)
	}
}

func TestMiddleware_RecordsDurationByRoute(t *testing.T) {
	mw, reader, _ := newTestMiddleware(t)
	h := mw(chatMux(http.StatusOK))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/chat", nil))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	met := findMetric(rm, "assistant.http.request.duration")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) == 0 {
		t.Fatalf("metric data = %T with no points", met.Data)
	}

	dp := hist.DataPoints[0]
	if dp.Count != 1 {
		t.Errorf("sample count = %d, want 1", dp.Count)
	}
	var gotMethod, gotRoute bool
	for _, kv := range dp.Attributes.ToSlice() {
		switch string(kv.Key) {
		case "method":
			gotMethod = kv.Value.AsString() == "POST"
		case "route":
			gotRoute = kv.Value.AsString() == "/v1/chat"
		}
	}
	if !gotMethod || !gotRoute {
		t.Errorf("histogram attributes = %v, want method=POST route=/v1/chat", dp.Attributes.ToSlice())
	}
}

func TestMiddleware_CapturesErrorStatus(t *testing.T) {
	mw, _, exp := newTestMiddleware(t)
	h := mw(chatMux(http.StatusBadRequest))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/chat", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("response status = %d, want 400", rec.Code)
	}
	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatal("no spans recorded")
	}
	found := false
	for _, a := range spans[0].Attributes {
		if string(a.Key) == "http.response.status_code" && a.Value.AsInt64() == 400 {
			found = true
		}
	}
	if !found {
		t.Error("span missing http.response.status_code=400")
	}
}

func TestMiddleware_JoinsIncomingTrace(t *testing.T) {
	mw, _, _ := newTestMiddleware(t)

	var inHandler string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inHandler = CorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest("POST", "/v1/chat", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// The widget's trace continues through the chat turn.
	if inHandler != traceID {
		t.Errorf("correlation ID = %q, want incoming trace ID %q", inHandler, traceID)
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != traceID {
		t.Errorf("X-Correlation-ID = %q, want %q", got, traceID)
	}
}
