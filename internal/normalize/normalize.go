// Package normalize canonicalises free-text user input before intent
// extraction and similarity scoring.
//
// Normalisation runs in two phases:
//
//  1. Structural cleanup: lowercase, replace every non-word/non-space
//     character with a space, collapse whitespace runs, trim.
//  2. Vocabulary rewrite: an ordered table of whole-word substitution rules
//     maps common misspellings and romanized Hindi/Telugu words onto a small
//     canonical English vocabulary.
//
// The rewrite table is evaluated top to bottom and later rules may act on
// the output of earlier ones, so rule order is significant. Replacement
// words are chosen so that no rule can re-trigger on its own output, which
// makes Normalize idempotent: Normalize(Normalize(x)) == Normalize(x).
package normalize

import (
	"regexp"
	"strings"
)

// Rule is a single whole-word substitution applied during normalisation.
// Pattern is a plain alternation of words (no regex metacharacters beyond
// '|'); it is compiled with word boundaries on both sides.
type Rule struct {
	Pattern     string
	Replacement string
}

var (
	nonWordRE    = regexp.MustCompile(`[^\w\s]+`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Option is a functional option for configuring a [Normalizer].
type Option func(*Normalizer)

// WithRules replaces the default rewrite table. Rules are applied in the
// order given.
func WithRules(rules []Rule) Option {
	return func(n *Normalizer) {
		n.rules = rules
	}
}

// Normalizer rewrites raw user text into canonical form. It is read-only
// after construction and safe for concurrent use.
type Normalizer struct {
	rules    []Rule
	compiled []*regexp.Regexp
}

// New returns a [Normalizer] using the built-in rewrite table unless
// overridden via [WithRules]. Rule patterns are compiled once here.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{rules: DefaultRules()}
	for _, o := range opts {
		o(n)
	}
	n.compiled = make([]*regexp.Regexp, len(n.rules))
	for i, r := range n.rules {
		n.compiled[i] = regexp.MustCompile(`\b(?:` + r.Pattern + `)\b`)
	}
	return n
}

// Normalize returns the canonical form of text. It is a pure, total
// function: garbage input degrades to an empty or near-empty string, never
// an error.
func (n *Normalizer) Normalize(text string) string {
	s := strings.ToLower(text)
	s = nonWordRE.ReplaceAllString(s, " ")
	s = whitespaceRE.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	for i, re := range n.compiled {
		s = re.ReplaceAllString(s, n.rules[i].Replacement)
	}
	// Rewrites may splice multi-word replacements in; collapse again so the
	// output is stable under repeated application.
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
