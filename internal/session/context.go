// Package session tracks per-conversation state for the assistant: which
// topics a user has asked about, a rolling history of turns, and derived
// preferences used to bias ambiguous matches and rank follow-up
// suggestions.
//
// Each conversation owns exactly one [Context]; a [Manager] hands them out
// by session ID. Contexts are never shared across conversations.
package session

import (
	"sync"
	"time"
)

const (
	// maxLastTopics caps the rolling list of recently discussed topics.
	maxLastTopics = 5

	// maxHistory caps the rolling turn history.
	maxHistory = 10
)

// Turn is one recorded question/answer exchange.
type Turn struct {
	// Input is the user's raw message.
	Input string

	// Topic is the resolved topic ID for the turn.
	Topic string

	// Confidence is the match confidence, 0 for fallback turns.
	Confidence float64

	// Timestamp is when the turn was recorded.
	Timestamp time.Time
}

// Preferences is the derived scalar summary of a conversation.
type Preferences struct {
	// LastTopic is the most recently resolved topic ID.
	LastTopic string

	// LastInput is the most recent raw input.
	LastInput string

	// AvgConfidence is the running mean confidence over all recorded
	// turns this session, including those already evicted from history.
	AvgConfidence float64
}

// Context is the mutable per-conversation state. All methods are safe for
// concurrent use, though by design a context has a single writer (the
// dialogue controller handling that conversation).
type Context struct {
	mu         sync.Mutex
	askedAbout map[string]struct{}
	questions  int
	lastTopics []string
	history    []Turn
	prefs      Preferences
	feedback   map[string]int

	confSum   float64
	confCount int
}

// NewContext returns an empty conversation context.
func NewContext() *Context {
	return &Context{
		askedAbout: make(map[string]struct{}),
		feedback:   make(map[string]int),
	}
}

// Observe records a completed turn: the topic joins askedAbout and
// lastTopics (oldest evicted beyond 5), the turn joins history (oldest
// evicted beyond 10), the question counter increments, and preferences are
// recomputed.
func (c *Context) Observe(t Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.questions++
	c.askedAbout[t.Topic] = struct{}{}

	c.lastTopics = append(c.lastTopics, t.Topic)
	if len(c.lastTopics) > maxLastTopics {
		c.lastTopics = c.lastTopics[len(c.lastTopics)-maxLastTopics:]
	}

	c.history = append(c.history, t)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}

	c.confSum += t.Confidence
	c.confCount++
	c.prefs = Preferences{
		LastTopic:     t.Topic,
		LastInput:     t.Input,
		AvgConfidence: c.confSum / float64(c.confCount),
	}
}

// RecordFeedback applies a thumbs-up (+1) or thumbs-down (-1) signal for a
// topic. Scores accumulate for the lifetime of the conversation.
func (c *Context) RecordFeedback(topicID string, up bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if up {
		c.feedback[topicID]++
	} else {
		c.feedback[topicID]--
	}
}

// FeedbackScore returns the accumulated feedback score for a topic.
func (c *Context) FeedbackScore(topicID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback[topicID]
}

// Questions returns the number of turns recorded this session.
func (c *Context) Questions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questions
}

// Asked reports whether topicID has been discussed this session.
func (c *Context) Asked(topicID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.askedAbout[topicID]
	return ok
}

// LastTopics returns a copy of the recent topics, oldest first.
func (c *Context) LastTopics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lastTopics))
	copy(out, c.lastTopics)
	return out
}

// History returns a copy of the rolling turn history, oldest first.
func (c *Context) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// Preferences returns the derived conversation summary.
func (c *Context) Preferences() Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// Reset clears all state, returning the context to its session-start
// condition.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.askedAbout = make(map[string]struct{})
	c.questions = 0
	c.lastTopics = nil
	c.history = nil
	c.prefs = Preferences{}
	c.feedback = make(map[string]int)
	c.confSum = 0
	c.confCount = 0
}
