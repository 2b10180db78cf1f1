// Package assistant is the top-level dialogue controller: it short-circuits
// greetings and thanks, runs the matching pipeline over the knowledge base,
// falls back to intent-driven canned replies, maintains per-session
// conversation context, and attaches follow-up suggestions to every reply.
//
// The controller never fails — every branch yields a usable reply, with the
// generic clarification prompt as the worst case. Interaction logging is a
// fire-and-forget side effect that can never touch the reply already
// produced.
package assistant

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/nivaas-labs/assistant/internal/intent"
	"github.com/nivaas-labs/assistant/internal/interactionlog"
	"github.com/nivaas-labs/assistant/internal/kb"
	"github.com/nivaas-labs/assistant/internal/match"
	"github.com/nivaas-labs/assistant/internal/observe"
	"github.com/nivaas-labs/assistant/internal/session"
)

// Dialogue branch labels for metrics.
const (
	branchUnclear  = "unclear"
	branchGreeting = "greeting"
	branchThanks   = "thanks"
	branchMatched  = "matched"
	branchFallback = "fallback"
)

// logWriteTimeout bounds one fire-and-forget interaction log write.
const logWriteTimeout = 10 * time.Second

// Result is one turn's outcome.
type Result struct {
	Reply       string   `json:"reply"`
	TopicID     string   `json:"topic_id"`
	Confidence  float64  `json:"confidence,omitempty"`
	Matched     bool     `json:"matched"`
	Suggestions []string `json:"suggestions,omitempty"`
	AskFeedback bool     `json:"ask_feedback,omitempty"`
}

// Option is a functional option for configuring an [Assistant].
type Option func(*Assistant)

// WithScorer overrides the similarity scorer (e.g. to supply a custom
// importance vocabulary or normaliser rules).
func WithScorer(s *match.Scorer) Option {
	return func(a *Assistant) {
		a.scorer = s
	}
}

// WithRand sets a deterministic random source for greeting/thanks reply
// selection. Tests supply a fixed seed; production leaves the default.
func WithRand(r *rand.Rand) Option {
	return func(a *Assistant) {
		a.rng = r
	}
}

// WithInteractionLogger sets the side-channel sink for turn records.
// Defaults to [interactionlog.Nop].
func WithInteractionLogger(l interactionlog.Logger) Option {
	return func(a *Assistant) {
		a.logger = l
	}
}

// WithMetrics overrides the metrics instance. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *Assistant) {
		a.metrics = m
	}
}

// WithPopularTopics replaces the suggestion priority list.
func WithPopularTopics(topics []PopularTopic) Option {
	return func(a *Assistant) {
		a.popular = topics
	}
}

// WithMaxSuggestions overrides the suggestion cap.
func WithMaxSuggestions(n int) Option {
	return func(a *Assistant) {
		a.maxSuggestions = n
	}
}

// WithEscalateAfter overrides the session question count beyond which the
// escalation suggestion is offered.
func WithEscalateAfter(n int) Option {
	return func(a *Assistant) {
		a.escalateAfter = n
	}
}

// Assistant is the dialogue controller. Safe for concurrent use: the
// knowledge base and scorer are read-only, sessions are independently
// locked, and the random source is guarded.
type Assistant struct {
	base     *kb.Base
	sessions *session.Manager
	logger   interactionlog.Logger
	metrics  *observe.Metrics

	// tuneMu guards the hot-reloadable settings below; see [Assistant.Retune].
	tuneMu         sync.RWMutex
	scorer         *match.Scorer
	popular        []PopularTopic
	maxSuggestions int
	escalateAfter  int

	rngMu sync.Mutex
	rng   *rand.Rand // nil means the shared global source
}

// New creates an [Assistant] over the given knowledge base.
func New(base *kb.Base, opts ...Option) *Assistant {
	a := &Assistant{
		base:           base,
		sessions:       session.NewManager(),
		logger:         interactionlog.Nop{},
		popular:        DefaultPopularTopics,
		maxSuggestions: maxSuggestions,
		escalateAfter:  escalateAfter,
	}
	for _, o := range opts {
		o(a)
	}
	if a.scorer == nil {
		a.scorer = match.NewScorer()
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	return a
}

// HandleTurn processes one user message for the given session and returns
// the reply. It never returns an error — the worst case is the generic
// clarification prompt.
func (a *Assistant) HandleTurn(ctx context.Context, sessionID, rawInput string) Result {
	start := time.Now()

	scorer := a.currentScorer()
	norm := scorer.Normalizer().Normalize(rawInput)
	if len(norm) < 2 {
		// Too short to mean anything: not worth a session mutation or an
		// interaction-log record — keystroke noise would drown the real
		// unanswered questions reviewers mine the log for. The turn metric
		// still counts it so a chatty-widget bug stays visible.
		a.metrics.RecordTurn(ctx, branchUnclear, time.Since(start).Seconds())
		return Result{Reply: unclearReply, TopicID: TopicUnclear}
	}

	sess := a.session(ctx, sessionID)

	if greetingPattern.MatchString(norm) {
		res := Result{
			Reply:       a.pick(greetingReplies),
			TopicID:     TopicGreeting,
			Suggestions: a.suggest(TopicGreeting, sess),
		}
		a.finishTurn(ctx, branchGreeting, sessionID, rawInput, res, start)
		return res
	}
	if thanksPattern.MatchString(norm) {
		res := Result{
			Reply:       a.pick(thanksReplies),
			TopicID:     TopicThanks,
			Suggestions: a.suggest(TopicThanks, sess),
		}
		a.finishTurn(ctx, branchThanks, sessionID, rawInput, res, start)
		return res
	}

	intents := intent.Extract(norm)
	candidates := scorer.ScoreAll(rawInput, a.base)
	best := match.SelectBest(candidates, intents, sess.LastTopics())

	if best != nil && best.Confidence > match.AcceptThreshold {
		sess.Observe(session.Turn{
			Input:      rawInput,
			Topic:      best.Entry.ID,
			Confidence: best.Confidence,
			Timestamp:  time.Now().UTC(),
		})
		res := Result{
			Reply:       best.Entry.Answer,
			TopicID:     best.Entry.ID,
			Confidence:  best.Confidence,
			Matched:     true,
			AskFeedback: true,
			Suggestions: a.suggest(best.Entry.ID, sess),
		}
		a.metrics.RecordMatch(ctx, best.Confidence)
		a.finishTurn(ctx, branchMatched, sessionID, rawInput, res, start)
		return res
	}

	topic, reply := fallbackFor(intents)
	sess.Observe(session.Turn{
		Input:     rawInput,
		Topic:     topic,
		Timestamp: time.Now().UTC(),
	})
	res := Result{
		Reply:       reply,
		TopicID:     topic,
		Suggestions: a.suggest(topic, sess),
	}
	a.metrics.RecordFallback(ctx, topic)
	a.finishTurn(ctx, branchFallback, sessionID, rawInput, res, start)
	return res
}

// RecordFeedback registers a thumbs up/down for a previously answered
// topic. It feeds the session context and the side channel only.
func (a *Assistant) RecordFeedback(ctx context.Context, sessionID, topicID string, up bool) {
	sess := a.session(ctx, sessionID)
	sess.RecordFeedback(topicID, up)

	value := "down"
	if up {
		value = "up"
	}
	a.metrics.RecordFeedback(ctx, value)
	a.logTurn(ctx, interactionlog.Record{
		SessionID: sessionID,
		TopicID:   topicID,
		Feedback:  value,
		Timestamp: time.Now().UTC(),
	})
}

// EndSession discards the session's context. Returns true when a session
// with that ID existed.
func (a *Assistant) EndSession(ctx context.Context, sessionID string) bool {
	if !a.sessions.End(sessionID) {
		return false
	}
	a.metrics.ActiveSessions.Add(ctx, -1)
	return true
}

// Retune applies hot-reloadable settings while the assistant is serving:
// the similarity scorer (rebuilt when the importance vocabulary changes),
// the popular-topic suggestion list, and the suggestion caps. A nil scorer
// keeps the current one; a nil popular list and non-positive caps revert
// to the built-in defaults, mirroring how an absent config value behaves
// at startup. In-flight turns finish on the old snapshot.
func (a *Assistant) Retune(scorer *match.Scorer, popular []PopularTopic, maxSug, escAfter int) {
	if popular == nil {
		popular = DefaultPopularTopics
	}
	if maxSug <= 0 {
		maxSug = maxSuggestions
	}
	if escAfter <= 0 {
		escAfter = escalateAfter
	}

	a.tuneMu.Lock()
	defer a.tuneMu.Unlock()
	if scorer != nil {
		a.scorer = scorer
	}
	a.popular = popular
	a.maxSuggestions = maxSug
	a.escalateAfter = escAfter
}

// currentScorer returns the active scorer snapshot.
func (a *Assistant) currentScorer() *match.Scorer {
	a.tuneMu.RLock()
	defer a.tuneMu.RUnlock()
	return a.scorer
}

// Sessions returns the number of live sessions.
func (a *Assistant) Sessions() int {
	return a.sessions.Len()
}

// KnowledgeBase returns the assistant's (immutable) knowledge base.
func (a *Assistant) KnowledgeBase() *kb.Base {
	return a.base
}

// session returns the context for id, creating it on first use.
func (a *Assistant) session(ctx context.Context, id string) *session.Context {
	sess, existed := a.sessions.Get(id)
	if !existed {
		a.metrics.ActiveSessions.Add(ctx, 1)
	}
	return sess
}

// finishTurn records turn metrics and fires the interaction log write.
func (a *Assistant) finishTurn(ctx context.Context, branch, sessionID, rawInput string, res Result, start time.Time) {
	a.metrics.RecordTurn(ctx, branch, time.Since(start).Seconds())
	if n := len(res.Suggestions); n > 0 {
		a.metrics.Suggestions.Add(ctx, int64(n))
	}
	a.logTurn(ctx, interactionlog.Record{
		SessionID:  sessionID,
		Message:    rawInput,
		Response:   res.Reply,
		TopicID:    res.TopicID,
		Confidence: res.Confidence,
		Timestamp:  time.Now().UTC(),
	})
}

// logTurn writes rec to the side channel without blocking the caller.
// Failures are swallowed: counted, logged at debug level, never surfaced.
func (a *Assistant) logTurn(ctx context.Context, rec interactionlog.Record) {
	go func() {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logWriteTimeout)
		defer cancel()
		if err := a.logger.Log(lctx, rec); err != nil {
			a.metrics.InteractionLogErrors.Add(lctx, 1)
			slog.Debug("interaction log write failed",
				slog.String("session_id", rec.SessionID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// fallbackFor picks the canned reply for an unmatched turn from the
// extracted intents.
func fallbackFor(intents []intent.Tag) (topic, reply string) {
	switch {
	case intent.Has(intents, intent.TagHelp):
		return TopicHelpMenu, helpMenuReply
	case intent.Has(intents, intent.TagNavigation):
		return TopicNavigation, navigationReply
	case intent.Has(intents, intent.TagBudget):
		return TopicBudget, budgetReply
	default:
		return TopicClarification, clarificationReply
	}
}

// pick selects one reply from a fixed pool.
func (a *Assistant) pick(pool []string) string {
	if a.rng != nil {
		a.rngMu.Lock()
		defer a.rngMu.Unlock()
		return pool[a.rng.IntN(len(pool))]
	}
	return pool[rand.IntN(len(pool))]
}
