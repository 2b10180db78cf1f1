package assistant

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/nivaas-labs/assistant/internal/interactionlog"
	"github.com/nivaas-labs/assistant/internal/kb"
	"github.com/nivaas-labs/assistant/internal/match"
)

func newTestAssistant(t *testing.T, opts ...Option) *Assistant {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return New(kb.Default(), opts...)
}

func TestHandleTurn_Unclear(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	res := a.HandleTurn(context.Background(), "s-1", "a")

	if res.TopicID != TopicUnclear {
		t.Errorf("TopicID = %q, want %q", res.TopicID, TopicUnclear)
	}
	if res.Reply != unclearReply {
		t.Errorf("Reply = %q, want the unclear prompt", res.Reply)
	}
	// Too-short input must not create session state.
	if got := a.Sessions(); got != 0 {
		t.Errorf("Sessions = %d, want 0", got)
	}
}

func TestHandleTurn_Greeting(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	for _, input := range []string{"hi", "Hello!", "namaste", "good morning"} {
		res := a.HandleTurn(context.Background(), "s-1", input)
		if res.TopicID != TopicGreeting {
			t.Errorf("HandleTurn(%q): TopicID = %q, want %q", input, res.TopicID, TopicGreeting)
		}
		if !slices.Contains(greetingReplies, res.Reply) {
			t.Errorf("HandleTurn(%q): reply %q not in the greeting pool", input, res.Reply)
		}
		if res.Matched {
			t.Errorf("HandleTurn(%q): Matched = true on a greeting", input)
		}
	}
}

func TestHandleTurn_Thanks(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	res := a.HandleTurn(context.Background(), "s-1", "thank you!")

	if res.TopicID != TopicThanks {
		t.Errorf("TopicID = %q, want %q", res.TopicID, TopicThanks)
	}
	if !slices.Contains(thanksReplies, res.Reply) {
		t.Errorf("reply %q not in the thanks pool", res.Reply)
	}
}

func TestHandleTurn_ExactMatch(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	res := a.HandleTurn(context.Background(), "s-1", "what is plot size")

	if res.TopicID != "plot_size_basic" {
		t.Fatalf("TopicID = %q, want plot_size_basic", res.TopicID)
	}
	if res.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", res.Confidence)
	}
	if !res.Matched || !res.AskFeedback {
		t.Errorf("Matched/AskFeedback = %v/%v, want true/true", res.Matched, res.AskFeedback)
	}
	if len(res.Suggestions) == 0 || len(res.Suggestions) > maxSuggestions {
		t.Errorf("len(Suggestions) = %d, want 1..%d", len(res.Suggestions), maxSuggestions)
	}
}

func TestHandleTurn_MisspelledMultilingual(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)

	res := a.HandleTurn(context.Background(), "s-1", "budjet halp")
	if res.TopicID != "budget_help" {
		t.Fatalf("TopicID = %q, want budget_help", res.TopicID)
	}
	if res.Confidence <= 0.4 {
		t.Errorf("Confidence = %v, want > 0.4", res.Confidence)
	}

	// Romanized Hindi resolves through the same rewrite table.
	res = a.HandleTurn(context.Background(), "s-1", "Kitchan ka naksha kitna?")
	if !res.Matched {
		t.Errorf("romanized input did not match, topic = %q", res.TopicID)
	}
}

func TestHandleTurn_NoMatch(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	res := a.HandleTurn(context.Background(), "s-1", "xyzzy plugh")

	if res.TopicID != TopicClarification {
		t.Errorf("TopicID = %q, want %q", res.TopicID, TopicClarification)
	}
	if res.Matched {
		t.Error("Matched = true, want false")
	}
	if res.Reply != clarificationReply {
		t.Errorf("Reply = %q, want the clarification prompt", res.Reply)
	}
}

func TestHandleTurn_IntentFallbacks(t *testing.T) {
	t.Parallel()

	// Inputs chosen so that no knowledge entry clears the acceptance
	// threshold but an intent still routes to a targeted canned reply.
	tests := []struct {
		input string
		topic string
	}{
		{"halp pls im stuck", TopicHelpMenu},
		{"what invoice page", TopicNavigation},
		{"what where cost", TopicBudget},
	}

	for _, tc := range tests {
		a := newTestAssistant(t)
		res := a.HandleTurn(context.Background(), "s-1", tc.input)
		if res.TopicID != tc.topic {
			t.Errorf("HandleTurn(%q): TopicID = %q, want %q", tc.input, res.TopicID, tc.topic)
		}
		if res.Matched {
			t.Errorf("HandleTurn(%q): Matched = true, want false", tc.input)
		}
	}
}

func TestHandleTurn_Deterministic(t *testing.T) {
	t.Parallel()

	// Non-greeting paths are pure: fresh assistants over the same base
	// produce identical results.
	a := newTestAssistant(t)
	b := newTestAssistant(t)

	ra := a.HandleTurn(context.Background(), "s-1", "how to post a request")
	rb := b.HandleTurn(context.Background(), "s-1", "how to post a request")

	if ra.TopicID != rb.TopicID || ra.Confidence != rb.Confidence || ra.Reply != rb.Reply {
		t.Errorf("results differ: %+v vs %+v", ra, rb)
	}
	if !slices.Equal(ra.Suggestions, rb.Suggestions) {
		t.Errorf("suggestions differ: %v vs %v", ra.Suggestions, rb.Suggestions)
	}
}

func TestHandleTurn_GreetingSeedDeterministic(t *testing.T) {
	t.Parallel()

	a := New(kb.Default(), WithRand(rand.New(rand.NewPCG(7, 7))))
	b := New(kb.Default(), WithRand(rand.New(rand.NewPCG(7, 7))))

	for i := 0; i < 5; i++ {
		ra := a.HandleTurn(context.Background(), "s-1", "hello")
		rb := b.HandleTurn(context.Background(), "s-1", "hello")
		if ra.Reply != rb.Reply {
			t.Fatalf("turn %d: replies diverged with equal seeds", i)
		}
	}
}

func TestHandleTurn_Escalation(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	inputs := []string{
		"what is plot size",
		"budget help",
		"how many floor can i build",
		"parking space requirement",
	}

	var res Result
	for _, in := range inputs {
		res = a.HandleTurn(context.Background(), "s-1", in)
	}
	// Four questions in: not yet long enough to escalate.
	if slices.Contains(res.Suggestions, escalationSuggestion) {
		t.Error("escalation suggested after only 4 questions")
	}

	res = a.HandleTurn(context.Background(), "s-1", "how to upload document")
	if !slices.Contains(res.Suggestions, escalationSuggestion) {
		t.Errorf("escalation missing after 5 questions, got %v", res.Suggestions)
	}
	if len(res.Suggestions) > maxSuggestions {
		t.Errorf("len(Suggestions) = %d, want <= %d", len(res.Suggestions), maxSuggestions)
	}
}

func TestHandleTurn_SuggestionCap(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	inputs := []string{
		"hi", "what is plot size", "budget help", "xyzzy plugh",
		"how does payment work", "vastu for my house", "thanks",
	}
	for _, in := range inputs {
		res := a.HandleTurn(context.Background(), "s-1", in)
		if len(res.Suggestions) > maxSuggestions {
			t.Errorf("HandleTurn(%q): %d suggestions, want <= %d", in, len(res.Suggestions), maxSuggestions)
		}
	}
}

// chanLogger forwards records to a channel so tests can await the
// fire-and-forget write.
type chanLogger struct {
	ch  chan interactionlog.Record
	err error
}

func (l chanLogger) Log(_ context.Context, rec interactionlog.Record) error {
	l.ch <- rec
	return l.err
}

func awaitRecord(t *testing.T, ch chan interactionlog.Record) interactionlog.Record {
	t.Helper()
	select {
	case rec := <-ch:
		return rec
	case <-time.After(2 * time.Second):
		t.Fatal("interaction log write never arrived")
		return interactionlog.Record{}
	}
}

func TestHandleTurn_LogsInteraction(t *testing.T) {
	t.Parallel()

	ch := make(chan interactionlog.Record, 1)
	a := newTestAssistant(t, WithInteractionLogger(chanLogger{ch: ch}))

	res := a.HandleTurn(context.Background(), "s-log", "what is plot size")

	rec := awaitRecord(t, ch)
	if rec.SessionID != "s-log" || rec.TopicID != res.TopicID || rec.Response != res.Reply {
		t.Errorf("logged record %+v does not match result %+v", rec, res)
	}
}

func TestHandleTurn_LoggerFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	ch := make(chan interactionlog.Record, 1)
	a := newTestAssistant(t, WithInteractionLogger(chanLogger{ch: ch, err: errors.New("sink down")}))

	res := a.HandleTurn(context.Background(), "s-1", "what is plot size")
	if !res.Matched {
		t.Error("a failing log sink changed the reply")
	}
	awaitRecord(t, ch)
}

func TestRecordFeedback(t *testing.T) {
	t.Parallel()

	ch := make(chan interactionlog.Record, 1)
	a := newTestAssistant(t, WithInteractionLogger(chanLogger{ch: ch}))

	a.RecordFeedback(context.Background(), "s-1", "plot_size_basic", true)

	rec := awaitRecord(t, ch)
	if rec.Feedback != "up" {
		t.Errorf("Feedback = %q, want up", rec.Feedback)
	}
	if rec.TopicID != "plot_size_basic" {
		t.Errorf("TopicID = %q, want plot_size_basic", rec.TopicID)
	}
}

func TestEndSession(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t)
	a.HandleTurn(context.Background(), "s-1", "what is plot size")

	if got := a.Sessions(); got != 1 {
		t.Fatalf("Sessions = %d, want 1", got)
	}
	if !a.EndSession(context.Background(), "s-1") {
		t.Error("EndSession = false, want true")
	}
	if a.EndSession(context.Background(), "s-1") {
		t.Error("EndSession twice = true, want false")
	}
	if got := a.Sessions(); got != 0 {
		t.Errorf("Sessions after end = %d, want 0", got)
	}
}

func TestRetune(t *testing.T) {
	t.Parallel()
	a := newTestAssistant(t)

	a.Retune(nil, []PopularTopic{{Topic: "budget_help", Prompt: "How much will my house cost?"}}, 1, 0)

	res := a.HandleTurn(context.Background(), "s1", "what is plot size")
	if !res.Matched {
		t.Fatalf("HandleTurn = %+v, want match", res)
	}
	if len(res.Suggestions) != 1 {
		t.Errorf("len(Suggestions) = %d after retune cap 1, want 1", len(res.Suggestions))
	}
}

func TestRetune_SwapsScorer(t *testing.T) {
	t.Parallel()
	a := newTestAssistant(t)

	// A scorer with a different importance vocabulary still matches exact
	// variants at full confidence.
	a.Retune(match.NewScorer(match.WithImportantWords([]string{"vastu"})), nil, 0, 0)

	res := a.HandleTurn(context.Background(), "s1", "vastu orientation help")
	if !res.Matched || res.TopicID != "vastu_basics" {
		t.Errorf("HandleTurn = %+v, want vastu_basics match", res)
	}
}

func TestRetune_EmptyRevertsToDefaults(t *testing.T) {
	t.Parallel()
	a := newTestAssistant(t,
		WithPopularTopics([]PopularTopic{{Topic: "budget_help", Prompt: "How much will my house cost?"}}),
		WithMaxSuggestions(1),
		WithEscalateAfter(9),
	)

	// An operator emptying the config lists must land back on the built-in
	// tuning, not on a zero or stale one.
	a.Retune(nil, nil, 0, 0)

	a.tuneMu.RLock()
	defer a.tuneMu.RUnlock()
	if !slices.Equal(a.popular, DefaultPopularTopics) {
		t.Errorf("popular = %v, want built-in defaults", a.popular)
	}
	if a.maxSuggestions != maxSuggestions {
		t.Errorf("maxSuggestions = %d, want %d", a.maxSuggestions, maxSuggestions)
	}
	if a.escalateAfter != escalateAfter {
		t.Errorf("escalateAfter = %d, want %d", a.escalateAfter, escalateAfter)
	}
}
