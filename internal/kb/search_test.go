package kb_test

import (
	"testing"

	"github.com/nivaas-labs/assistant/internal/kb"
)

func TestSearch(t *testing.T) {
	t.Parallel()

	b := kb.Default()

	results := b.Search("plot size", 5)
	if len(results) == 0 {
		t.Fatal("Search(plot size): no results")
	}
	if results[0].ID != "plot_size_basic" {
		t.Errorf("Search(plot size): top result = %q, want plot_size_basic", results[0].ID)
	}
	if len(results) > 5 {
		t.Errorf("Search: %d results, want <= 5", len(results))
	}
}

func TestSearch_OneResultPerEntry(t *testing.T) {
	t.Parallel()

	b := kb.Default()

	// "plot" matches several variants of the same entry; each entry must
	// appear at most once.
	seen := map[string]int{}
	for _, r := range b.Search("plot", 20) {
		seen[r.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("entry %q appears %d times, want 1", id, n)
		}
	}
}

func TestSearch_EmptyAndLimits(t *testing.T) {
	t.Parallel()

	b := kb.Default()

	if got := b.Search("", 5); got != nil {
		t.Errorf("Search(empty) = %v, want nil", got)
	}
	if got := b.Search("plot", 0); got != nil {
		t.Errorf("Search(limit 0) = %v, want nil", got)
	}
	if got := b.Search("zzzzqqqq", 5); len(got) != 0 {
		t.Errorf("Search(garbage) = %v, want empty", got)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	t.Parallel()

	b := kb.Default()

	first := b.Search("how to", 10)
	for i := 0; i < 3; i++ {
		again := b.Search("how to", 10)
		if len(again) != len(first) {
			t.Fatalf("result count changed: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("result %d changed: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}
