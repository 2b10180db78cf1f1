package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaultListenAddr
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if tls := cfg.Server.TLS; tls != nil {
		if tls.CertFile == "" || tls.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Assistant tuning
	if cfg.Assistant.MaxSuggestions < 0 {
		errs = append(errs, fmt.Errorf("assistant.max_suggestions %d must not be negative", cfg.Assistant.MaxSuggestions))
	}
	if cfg.Assistant.EscalateAfter < 0 {
		errs = append(errs, fmt.Errorf("assistant.escalate_after %d must not be negative", cfg.Assistant.EscalateAfter))
	}

	// Lexicon
	for i, p := range cfg.Lexicon.PopularTopics {
		if p.Topic == "" || p.Prompt == "" {
			errs = append(errs, fmt.Errorf("lexicon.popular_topics[%d] requires both topic and prompt", i))
		}
	}

	// Interaction sinks
	if u := cfg.Logging.InteractionURL; u != "" {
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			errs = append(errs, fmt.Errorf("logging.interaction_url %q is not a valid http(s) URL", u))
		}
	}
	if cfg.Logging.InteractionURL == "" && cfg.Logging.PostgresDSN == "" {
		slog.Warn("no interaction sink configured; conversation turns will not be recorded")
	}
	if cfg.Logging.FeedbackFile == "" {
		slog.Warn("logging.feedback_file is empty; thumbs feedback will only live in session memory")
	}

	return errors.Join(errs...)
}
