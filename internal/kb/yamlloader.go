package kb

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level structure of a knowledge-base YAML file.
//
// Example:
//
//	entries:
//	  - id: plot_size_basic
//	    variants:
//	      - plot size help
//	      - what is plot size
//	    answer: |
//	      Plot size is the total area of your land...
type File struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile reads and parses a knowledge-base YAML file from disk.
func LoadFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kb: open %q: %w", path, err)
	}
	defer f.Close()

	b, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("kb: parse %q: %w", path, err)
	}
	return b, nil
}

// LoadFromReader decodes knowledge-base YAML from r. Malformed entries are
// logged and skipped rather than failing the whole load; only an unreadable
// document or an entirely empty result is an error.
func LoadFromReader(r io.Reader) (*Base, error) {
	var kf File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos
	if err := dec.Decode(&kf); err != nil {
		return nil, fmt.Errorf("kb: decode yaml: %w", err)
	}

	kept := make([]Entry, 0, len(kf.Entries))
	seen := make(map[string]struct{}, len(kf.Entries))
	for i, e := range kf.Entries {
		if err := e.Validate(); err != nil {
			slog.Warn("kb: skipping malformed entry", "index", i, "id", e.ID, "err", err)
			continue
		}
		if _, dup := seen[e.ID]; dup {
			slog.Warn("kb: skipping duplicate entry", "index", i, "id", e.ID)
			continue
		}
		seen[e.ID] = struct{}{}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("kb: no valid entries in document")
	}
	return New(kept)
}
