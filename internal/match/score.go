// Package match implements the tiered similarity scorer and the response
// selector that rank knowledge-base entries against user input.
//
// Scoring is a five-tier cascade where the first applicable tier wins; tier
// score ranges are constructed so that higher tiers dominate lower ones:
//
//	1. exact match after normalisation       → 1.0
//	2. substring containment                 → (shorter/longer) × 0.95
//	3. intent overlap                        → (∩ / max) × 0.8, if > 0.4
//	4. weighted token overlap                → ratio × 0.7, if > 0.3
//	5. Levenshtein similarity fallback       → similarity × 0.6
//
// The tier thresholds (0.4, 0.3) and scale factors are calibration
// constants the downstream selector depends on; they are deliberately not
// configurable. The importance vocabulary of tier 4 is deployment data and
// can be overridden via [WithImportantWords].
package match

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/nivaas-labs/assistant/internal/intent"
	"github.com/nivaas-labs/assistant/internal/normalize"
)

const (
	containmentScale = 0.95

	intentScale = 0.8
	intentFloor = 0.4

	tokenScale    = 0.7
	tokenFloor    = 0.3
	tokenMinLen   = 3 // words shorter than this carry no weight
	importantWt   = 2.0
	ordinaryWt    = 1.0
	partialCredit = 0.7

	levenshteinScale = 0.6
	// Tier-5 scores below this carry no signal; they are clamped to zero so
	// noise never creeps toward the caller's consideration thresholds.
	levenshteinFloor = 0.15
)

// Option is a functional option for configuring a [Scorer].
type Option func(*Scorer)

// WithNormalizer sets the normalizer used on both sides of every
// comparison. Defaults to [normalize.New].
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Scorer) {
		s.norm = n
	}
}

// WithImportantWords replaces the tier-4 importance vocabulary: words that
// count double when they match between input and variant.
func WithImportantWords(words []string) Option {
	return func(s *Scorer) {
		s.important = make(map[string]struct{}, len(words))
		for _, w := range words {
			s.important[strings.ToLower(w)] = struct{}{}
		}
	}
}

// Scorer computes [0,1] similarity between user input and knowledge-base
// question variants. It is read-only after construction and safe for
// concurrent use.
type Scorer struct {
	norm      *normalize.Normalizer
	important map[string]struct{}
}

// NewScorer returns a [Scorer] with the default normalizer and importance
// vocabulary unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, o := range opts {
		o(s)
	}
	if s.norm == nil {
		s.norm = normalize.New()
	}
	if s.important == nil {
		s.important = make(map[string]struct{}, len(DefaultImportantWords))
		for _, w := range DefaultImportantWords {
			s.important[w] = struct{}{}
		}
	}
	return s
}

// Normalizer returns the scorer's normalizer so callers can reuse it for
// pre-pipeline checks (greeting detection, length gating) without paying
// for a second rule compilation.
func (s *Scorer) Normalizer() *normalize.Normalizer {
	return s.norm
}

// Score returns the similarity between userInput and variant in [0,1].
// Both sides are normalised first; normalisation is idempotent, so callers
// may pass either raw or already-normalised text.
func (s *Scorer) Score(userInput, variant string) float64 {
	a := s.norm.Normalize(userInput)
	b := s.norm.Normalize(variant)

	if a == "" || b == "" {
		return 0
	}

	// Tier 1: exact.
	if a == b {
		return 1.0
	}

	// Tier 2: containment.
	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter, longer := len(a), len(b)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return float64(shorter) / float64(longer) * containmentScale
	}

	// Tier 3: intent overlap.
	ia := intent.Extract(a)
	ib := intent.Extract(b)
	if n := intent.Overlap(ia, ib); n > 0 {
		denom := len(ia)
		if len(ib) > denom {
			denom = len(ib)
		}
		score := float64(n) / float64(denom) * intentScale
		if score > intentFloor {
			return score
		}
	}

	// Tier 4: weighted token overlap.
	if score, ok := s.tokenOverlap(a, b); ok {
		return score
	}

	// Tier 5: edit-distance fallback for typos the normalizer missed.
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	dist := matchr.Levenshtein(a, b)
	sim := float64(maxLen-dist) / float64(maxLen)
	score := sim * levenshteinScale
	if score < levenshteinFloor {
		return 0
	}
	return score
}

// tokenOverlap implements tier 4. Words of length >= tokenMinLen from the
// input are matched against the variant's words: an exact match earns the
// word's full weight, a substring relation in either direction earns
// partial credit. The result only holds when the weighted ratio clears the
// tier floor.
func (s *Scorer) tokenOverlap(a, b string) (float64, bool) {
	inputWords := longWords(a)
	targetWords := longWords(b)
	if len(inputWords) == 0 || len(targetWords) == 0 {
		return 0, false
	}

	targetSet := make(map[string]struct{}, len(targetWords))
	for _, w := range targetWords {
		targetSet[w] = struct{}{}
	}

	var matched, total float64
	for _, w := range inputWords {
		wt := ordinaryWt
		if _, ok := s.important[w]; ok {
			wt = importantWt
		}
		total += wt

		if _, ok := targetSet[w]; ok {
			matched += wt
			continue
		}
		for _, tw := range targetWords {
			if strings.Contains(tw, w) || strings.Contains(w, tw) {
				matched += wt * partialCredit
				break
			}
		}
	}

	score := matched / total * tokenScale
	if score > tokenFloor {
		return score, true
	}
	return 0, false
}

// longWords splits s into words and keeps those long enough to carry
// lexical signal.
func longWords(s string) []string {
	fields := strings.Fields(s)
	words := fields[:0]
	for _, f := range fields {
		if len(f) >= tokenMinLen {
			words = append(words, f)
		}
	}
	return words
}
