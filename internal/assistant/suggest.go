package assistant

import "github.com/nivaas-labs/assistant/internal/session"

// maxSuggestions caps the follow-up prompts attached to any reply.
const maxSuggestions = 3

// escalateAfter is the session question count beyond which a talk-to-a-human
// suggestion is always offered.
const escalateAfter = 4

// escalationSuggestion is reserved a slot once a session runs long — a user
// still asking after that many turns deserves a person.
const escalationSuggestion = "Talk to a human expert"

// PopularTopic pairs a knowledge-base topic ID with the suggestion prompt
// shown for it. The order of the list is its priority.
type PopularTopic struct {
	Topic  string
	Prompt string
}

// DefaultPopularTopics is the hand-tuned default suggestion priority list.
// Deployments override it via [WithPopularTopics] — membership is a product
// decision, not an algorithmic one.
var DefaultPopularTopics = []PopularTopic{
	{Topic: "getting_started", Prompt: "How do I get started?"},
	{Topic: "plot_size_basic", Prompt: "What plot size do I need?"},
	{Topic: "budget_help", Prompt: "How much will my house cost?"},
	{Topic: "post_request", Prompt: "How do I post a request?"},
	{Topic: "design_process", Prompt: "How does the design process work?"},
	{Topic: "proposals_review", Prompt: "How do I review proposals?"},
}

// topicSuggestions maps a resolved topic to its canned follow-up prompts.
var topicSuggestions = map[string][]string{
	"plot_size_basic":      {"How much will my house cost?", "How many rooms fit on my plot?"},
	"budget_help":          {"What affects construction cost?", "How do I post a request with my budget?"},
	"rooms_planning":       {"How many floors should I build?", "What plot size do I need?"},
	"floors_count":         {"How much does an extra floor cost?", "Do I need parking space?"},
	"parking_space":        {"What plot size do I need?", "How many rooms can I plan?"},
	"materials_quality":    {"How much will my house cost?", "How does the design process work?"},
	"design_process":       {"How do I post a request?", "What is vastu?"},
	"vastu_basics":         {"How does the design process work?", "What plot size do I need?"},
	"post_request":         {"How do I review proposals?", "How do I upload documents?"},
	"proposals_review":     {"How do I message an architect?", "How do payments work?"},
	"messaging_architect":  {"How do I review proposals?", "How do I upload documents?"},
	"upload_documents":     {"How do I post a request?", "How do payments work?"},
	"payment_process":      {"How do I review proposals?", "Where is my dashboard?"},
	"dashboard_navigation": {"How do I post a request?", "How do I get started?"},
	"getting_started":      {"What plot size do I need?", "How do I post a request?"},
	TopicBudget:            {"How much will my house cost?", "How do I post a request with my budget?"},
	TopicNavigation:        {"Where is my dashboard?", "How do I get started?"},
	TopicHelpMenu:          {"How do I get started?"},
}

// flowRule suggests the natural next step: when the session has covered
// `after` but not yet `then`, offer `prompt`.
type flowRule struct {
	after  string
	then   string
	prompt string
}

// flowRules encodes the typical planning journey: plot → budget → request →
// proposals → messaging.
var flowRules = []flowRule{
	{after: "plot_size_basic", then: "budget_help", prompt: "How much will my house cost?"},
	{after: "budget_help", then: "post_request", prompt: "How do I post a request?"},
	{after: "rooms_planning", then: "floors_count", prompt: "How many floors should I build?"},
	{after: "post_request", then: "proposals_review", prompt: "How do I review proposals?"},
	{after: "proposals_review", then: "messaging_architect", prompt: "How do I message an architect?"},
}

// suggest computes up to three follow-up prompts for the resolved topic:
// topic-specific canned prompts first, then flow-based next steps, then
// unasked popular topics in priority order. Once the session has run past
// escalateAfter questions, the final slot is reserved for escalation so it
// can never be crowded out.
func (a *Assistant) suggest(topicID string, sess *session.Context) []string {
	a.tuneMu.RLock()
	popular := a.popular
	limit := a.maxSuggestions
	after := a.escalateAfter
	a.tuneMu.RUnlock()

	escalate := sess.Questions() > after
	if escalate {
		limit--
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if len(out) >= limit {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, s := range topicSuggestions[topicID] {
		add(s)
	}
	for _, r := range flowRules {
		if sess.Asked(r.after) && !sess.Asked(r.then) && r.then != topicID {
			add(r.prompt)
		}
	}
	for _, p := range popular {
		if !sess.Asked(p.Topic) && p.Topic != topicID {
			add(p.Prompt)
		}
	}

	if escalate {
		out = append(out, escalationSuggestion)
	}
	return out
}
