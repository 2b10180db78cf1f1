// Package kb holds the assistant's knowledge base: an immutable, in-process
// table of question/answer entries loaded once at startup.
//
// Entries come either from the embedded default dataset ([Default]) or from
// a YAML file ([LoadFile]). After construction a [Base] is read-only and
// safe to share across conversations without synchronisation.
package kb

import (
	"errors"
	"fmt"
)

// Entry is a single knowledge-base record.
type Entry struct {
	// ID is the stable topic identifier (e.g. "plot_size_basic").
	ID string `yaml:"id"`

	// Variants holds the reference phrasings of the question. Order is
	// irrelevant for matching; at least one is required.
	Variants []string `yaml:"variants"`

	// Answer is the canonical reply text. Treated as opaque; may contain
	// line breaks and bullets.
	Answer string `yaml:"answer"`
}

// Validate reports whether e is a well-formed entry.
func (e Entry) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if len(e.Variants) == 0 {
		errs = append(errs, errors.New("at least one question variant is required"))
	}
	for i, v := range e.Variants {
		if v == "" {
			errs = append(errs, fmt.Errorf("variants[%d] is empty", i))
		}
	}
	if e.Answer == "" {
		errs = append(errs, errors.New("answer is required"))
	}
	return errors.Join(errs...)
}

// Base is an immutable collection of entries with O(1) lookup by ID.
type Base struct {
	entries []Entry
	byID    map[string]int
}

// New builds a [Base] from entries. Every entry must pass [Entry.Validate]
// and IDs must be unique; use [LoadFromReader] when lenient skip-and-log
// handling of malformed entries is wanted instead.
func New(entries []Entry) (*Base, error) {
	var errs []error
	byID := make(map[string]int, len(entries))
	kept := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry[%d] (%q): %w", i, e.ID, err))
			continue
		}
		if prev, ok := byID[e.ID]; ok {
			errs = append(errs, fmt.Errorf("entry[%d]: id %q is a duplicate of entry[%d]", i, e.ID, prev))
			continue
		}
		byID[e.ID] = len(kept)
		kept = append(kept, e)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("kb: %w", err)
	}
	return &Base{entries: kept, byID: byID}, nil
}

// Default returns a [Base] over the embedded construction-marketplace
// dataset. The embedded data is validated by tests, so this never fails.
func Default() *Base {
	b, err := New(builtinEntries())
	if err != nil {
		panic("kb: embedded dataset invalid: " + err.Error())
	}
	return b
}

// Entries returns the entries in load order. The returned slice is shared;
// callers must not mutate it.
func (b *Base) Entries() []Entry {
	return b.entries
}

// Get returns the entry with the given ID.
func (b *Base) Get(id string) (Entry, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Entry{}, false
	}
	return b.entries[i], true
}

// Len returns the number of entries.
func (b *Base) Len() int {
	return len(b.entries)
}
