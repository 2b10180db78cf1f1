package match

import (
	"sort"
	"strings"

	"github.com/nivaas-labs/assistant/internal/intent"
	"github.com/nivaas-labs/assistant/internal/kb"
)

const (
	// highConfidence short-circuits selection: the top candidate wins
	// without any intent re-ranking.
	highConfidence = 0.8

	// rerankFloor is the minimum confidence an intent-overlapping candidate
	// needs to win during the re-ranking scan.
	rerankFloor = 0.5

	// AcceptThreshold is the caller-facing acceptance bar: a selected
	// candidate at or below this confidence is "no good match" and must
	// route to the fallback branch, never be surfaced as an answer.
	AcceptThreshold = 0.4
)

// Candidate pairs a knowledge-base entry with its confidence for the
// current input. Candidates are ephemeral — computed fresh each turn and
// discarded after selection.
type Candidate struct {
	Entry      kb.Entry
	Confidence float64
}

// ScoreEntry computes a [Candidate] for entry: the maximum tier score over
// all of the entry's question variants.
func (s *Scorer) ScoreEntry(userInput string, entry kb.Entry) Candidate {
	best := 0.0
	for _, v := range entry.Variants {
		if sc := s.Score(userInput, v); sc > best {
			best = sc
		}
	}
	return Candidate{Entry: entry, Confidence: best}
}

// ScoreAll computes candidates for every entry in base.
func (s *Scorer) ScoreAll(userInput string, base *kb.Base) []Candidate {
	entries := base.Entries()
	cands := make([]Candidate, len(entries))
	for i, e := range entries {
		cands[i] = s.ScoreEntry(userInput, e)
	}
	return cands
}

// SelectBest picks the winning candidate:
//
//  1. nil when candidates is empty.
//  2. Candidates are ordered by confidence, descending; exact confidence
//     ties prefer entries whose topic was discussed recently.
//  3. A top confidence above 0.8 wins immediately.
//  4. Otherwise the first candidate (in confidence order) whose stored
//     answer shares an intent with the input AND whose confidence exceeds
//     0.5 wins — paraphrased questions often score mid-range lexically but
//     point at the right answer semantically.
//  5. Otherwise the top candidate is returned regardless of value; the
//     caller must re-check [AcceptThreshold] before treating it as a match.
//
// inputIntents are the tags extracted from the (normalised) user input;
// recentTopics is the conversation's lastTopics list, most recent last.
func SelectBest(candidates []Candidate, inputIntents []intent.Tag, recentTopics []string) *Candidate {
	if len(candidates) == 0 {
		return nil
	}

	recent := make(map[string]struct{}, len(recentTopics))
	for _, t := range recentTopics {
		recent[t] = struct{}{}
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		_, ri := recent[sorted[i].Entry.ID]
		_, rj := recent[sorted[j].Entry.ID]
		return ri && !rj
	})

	if sorted[0].Confidence > highConfidence {
		return &sorted[0]
	}

	for i := range sorted {
		if sorted[i].Confidence <= rerankFloor {
			break // sorted descending; nothing below can qualify
		}
		// Answers are prose, not normalised input; lowercasing is enough
		// for the word-boundary indicator patterns.
		answerIntents := intent.Extract(strings.ToLower(sorted[i].Entry.Answer))
		if intent.Overlap(inputIntents, answerIntents) > 0 {
			return &sorted[i]
		}
	}

	return &sorted[0]
}
