// Package interactionlog is the best-effort side channel that records each
// conversation turn for the platform's analytics. Writes are
// fire-and-forget by contract: a failing sink is logged at debug level and
// otherwise ignored — it must never affect the reply already produced.
package interactionlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Record is one logged conversation turn.
type Record struct {
	SessionID  string    `json:"session_id"`
	Message    string    `json:"message"`
	Response   string    `json:"response"`
	TopicID    string    `json:"topic_id"`
	Confidence float64   `json:"confidence,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Logger writes interaction records to some sink.
type Logger interface {
	// Log persists one record. Implementations must respect ctx.
	Log(ctx context.Context, rec Record) error
}

// Nop is a Logger that discards everything.
type Nop struct{}

// Log implements [Logger].
func (Nop) Log(context.Context, Record) error { return nil }

// Fanout sends each record to every wrapped logger. The first error is
// returned after all loggers have been attempted.
type Fanout []Logger

// Log implements [Logger].
func (f Fanout) Log(ctx context.Context, rec Record) error {
	var first error
	for _, l := range f {
		if err := l.Log(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// defaultTimeout bounds a single HTTP log write.
const defaultTimeout = 5 * time.Second

// HTTPOption is a functional option for configuring an [HTTPLogger].
type HTTPOption func(*HTTPLogger)

// WithHTTPClient overrides the HTTP client. Useful in tests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(l *HTTPLogger) {
		l.client = c
	}
}

// HTTPLogger posts records as JSON to the platform's logging endpoint.
// Safe for concurrent use.
type HTTPLogger struct {
	url    string
	client *http.Client
}

// Compile-time interface checks.
var (
	_ Logger = (*HTTPLogger)(nil)
	_ Logger = Fanout(nil)
	_ Logger = Nop{}
)

// NewHTTPLogger creates an [HTTPLogger] posting to url.
func NewHTTPLogger(url string, opts ...HTTPOption) *HTTPLogger {
	l := &HTTPLogger{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log implements [Logger]. Any non-2xx status is an error; the caller
// decides whether to surface or swallow it.
func (l *HTTPLogger) Log(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("interactionlog: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("interactionlog: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("interactionlog: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("interactionlog: post: unexpected status %d", resp.StatusCode)
	}
	return nil
}
