package kb

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/sahilm/fuzzy"
)

// SearchResult is one hit from [Base.Search].
type SearchResult struct {
	// ID is the matched entry's topic identifier.
	ID string `json:"id"`

	// Variant is the question variant that matched the query.
	Variant string `json:"variant"`

	// Score is the fuzzy match score; higher is better. Only meaningful
	// for ordering within one result set.
	Score int `json:"score"`
}

// Search performs fuzzy matching of query against every question variant
// and returns up to limit results, best first. It exists for the admin
// search endpoint and debugging, not for the conversational matcher — the
// dialogue pipeline uses the tiered scorer instead.
//
// Ties on fuzzy score are broken deterministically by Jaro-Winkler
// similarity of the full strings, then by entry order.
func (b *Base) Search(query string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	// Flatten variants into one searchable list.
	type variantRef struct {
		entry   int
		variant string
	}
	refs := make([]variantRef, 0, len(b.entries)*2)
	corpus := make([]string, 0, len(b.entries)*2)
	for i, e := range b.entries {
		for _, v := range e.Variants {
			refs = append(refs, variantRef{entry: i, variant: v})
			corpus = append(corpus, v)
		}
	}

	matches := fuzzy.Find(query, corpus)
	results := make([]SearchResult, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		ref := refs[m.Index]
		id := b.entries[ref.entry].ID
		if _, dup := seen[id]; dup {
			continue // keep only the best variant per entry
		}
		seen[id] = struct{}{}
		results = append(results, SearchResult{
			ID:      id,
			Variant: ref.variant,
			Score:   m.Score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		qi := strings.ToLower(query)
		ji := matchr.JaroWinkler(qi, strings.ToLower(results[i].Variant), false)
		jj := matchr.JaroWinkler(qi, strings.ToLower(results[j].Variant), false)
		return ji > jj
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
