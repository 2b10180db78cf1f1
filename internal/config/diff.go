package config

import "slices"

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; anything else
// (listen address, TLS, knowledge file, sinks) needs a restart and is
// reported by the watcher log line instead.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// LexiconChanged is true when the importance vocabulary or the popular
	// topic priority list differ.
	LexiconChanged bool

	// TuningChanged is true when max_suggestions or escalate_after differ.
	TuningChanged bool
}

// Any reports whether the diff contains any hot-reloadable change.
func (d ConfigDiff) Any() bool {
	return d.LogLevelChanged || d.LexiconChanged || d.TuningChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if !slices.Equal(old.Lexicon.ImportantWords, new.Lexicon.ImportantWords) ||
		!slices.Equal(old.Lexicon.PopularTopics, new.Lexicon.PopularTopics) {
		d.LexiconChanged = true
	}

	if old.Assistant.MaxSuggestions != new.Assistant.MaxSuggestions ||
		old.Assistant.EscalateAfter != new.Assistant.EscalateAfter {
		d.TuningChanged = true
	}

	return d
}
