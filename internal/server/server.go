// Package server exposes the assistant over HTTP: a JSON chat endpoint, a
// websocket stream for conversational UIs, feedback intake, knowledge-base
// search, and the operational surfaces (health probes, Prometheus metrics).
//
// The server is a thin transport layer — all dialogue semantics live in the
// assistant package. Handlers translate between JSON and [assistant.Result]
// and never make matching decisions themselves.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/nivaas-labs/assistant/internal/assistant"
	"github.com/nivaas-labs/assistant/internal/feedback"
	"github.com/nivaas-labs/assistant/internal/health"
	"github.com/nivaas-labs/assistant/internal/observe"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second

	// defaultSearchLimit bounds /v1/kb/search responses when the caller
	// does not pass a limit.
	defaultSearchLimit = 5
	maxSearchLimit     = 25
)

// Option is a functional option for configuring a [Server].
type Option func(*Server)

// WithHealth sets the health probe handler. Defaults to a handler with no
// readiness checkers.
func WithHealth(h *health.Handler) Option {
	return func(s *Server) {
		s.health = h
	}
}

// WithFeedbackStore persists thumbs feedback to the given file store in
// addition to feeding it into session context.
func WithFeedbackStore(fs *feedback.FileStore) Option {
	return func(s *Server) {
		s.feedback = fs
	}
}

// WithMetrics overrides the metrics used by the HTTP middleware. Defaults
// to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTLS enables HTTPS using the given PEM-encoded certificate and key.
func WithTLS(certFile, keyFile string) Option {
	return func(s *Server) {
		s.tlsCert = certFile
		s.tlsKey = keyFile
	}
}

// Server serves the assistant's HTTP API.
type Server struct {
	addr     string
	asst     *assistant.Assistant
	health   *health.Handler
	feedback *feedback.FileStore
	metrics  *observe.Metrics

	tlsCert string
	tlsKey  string
}

// New creates a [Server] listening on addr once [Server.Run] is called.
func New(addr string, asst *assistant.Assistant, opts ...Option) *Server {
	s := &Server{
		addr: addr,
		asst: asst,
	}
	for _, o := range opts {
		o(s)
	}
	if s.health == nil {
		s.health = health.New()
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Handler builds the full route table wrapped in the observability
// middleware. Exposed for tests; production callers use [Server.Run].
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("GET /v1/chat/ws", s.handleWS)
	mux.HandleFunc("POST /v1/feedback", s.handleFeedback)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleEndSession)
	mux.HandleFunc("GET /v1/kb/search", s.handleSearch)

	s.health.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(mux)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// and returns.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if s.tlsCert != "" {
			err = srv.ListenAndServeTLS(s.tlsCert, s.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen on %s: %w", s.addr, err)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	assistant.Result
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	res := s.asst.HandleTurn(r.Context(), req.SessionID, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Result: res})
}

type feedbackRequest struct {
	SessionID  string  `json:"session_id"`
	TopicID    string  `json:"topic_id"`
	Confidence float64 `json:"confidence"`
	Value      string  `json:"value"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" || req.TopicID == "" {
		writeError(w, http.StatusBadRequest, "session_id and topic_id are required")
		return
	}
	if req.Value != "up" && req.Value != "down" {
		writeError(w, http.StatusBadRequest, `value must be "up" or "down"`)
		return
	}

	up := req.Value == "up"
	s.asst.RecordFeedback(r.Context(), req.SessionID, req.TopicID, up)

	if s.feedback != nil {
		if err := s.feedback.Save(req.SessionID, req.TopicID, req.Confidence, up); err != nil {
			// Best effort: the in-session feedback already landed.
			observe.Logger(r.Context()).Warn("feedback file write failed", "err", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.asst.EndSession(r.Context(), id) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer in [1, %d]", maxSearchLimit))
			return
		}
		limit = n
	}

	results := s.asst.KnowledgeBase().Search(q, limit)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// writeJSON encodes v with the given status. Encoding failures are logged;
// the status line has already been sent at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
