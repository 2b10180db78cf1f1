// Command assistant is the main entry point for the Nivaas request
// assistant server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nivaas-labs/assistant/internal/assistant"
	"github.com/nivaas-labs/assistant/internal/config"
	"github.com/nivaas-labs/assistant/internal/feedback"
	"github.com/nivaas-labs/assistant/internal/health"
	"github.com/nivaas-labs/assistant/internal/interactionlog"
	"github.com/nivaas-labs/assistant/internal/kb"
	"github.com/nivaas-labs/assistant/internal/match"
	"github.com/nivaas-labs/assistant/internal/observe"
	"github.com/nivaas-labs/assistant/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "assistant: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "assistant: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	level := new(slog.LevelVar)
	level.Set(slogLevel(cfg.Server.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("assistant starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry provider ────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Knowledge base ────────────────────────────────────────────────────────
	base := kb.Default()
	if cfg.Assistant.KnowledgeFile != "" {
		base, err = kb.LoadFile(cfg.Assistant.KnowledgeFile)
		if err != nil {
			slog.Error("failed to load knowledge base", "file", cfg.Assistant.KnowledgeFile, "err", err)
			return 1
		}
	}
	slog.Info("knowledge base loaded", "entries", base.Len())

	// ── Interaction log sinks ─────────────────────────────────────────────────
	var sinks interactionlog.Fanout
	checkers := []health.Checker{{
		Name: "knowledge_base",
		Check: func(context.Context) error {
			if base.Len() == 0 {
				return errors.New("knowledge base is empty")
			}
			return nil
		},
	}}

	if cfg.Logging.InteractionURL != "" {
		httpSink := interactionlog.NewHTTPLogger(cfg.Logging.InteractionURL)
		sinks = append(sinks, interactionlog.NewBreaker(httpSink, interactionlog.BreakerConfig{Name: "http"}))
		slog.Info("interaction sink enabled", "kind", "http", "url", cfg.Logging.InteractionURL)
	}
	if cfg.Logging.PostgresDSN != "" {
		pg, err := interactionlog.NewPostgresStore(ctx, cfg.Logging.PostgresDSN)
		if err != nil {
			slog.Error("failed to connect interaction store", "err", err)
			return 1
		}
		defer pg.Close()
		sinks = append(sinks, interactionlog.NewBreaker(pg, interactionlog.BreakerConfig{Name: "postgres"}))
		checkers = append(checkers, health.Checker{Name: "interaction_store", Check: pg.Ping})
		slog.Info("interaction sink enabled", "kind", "postgres")
	}

	var logger interactionlog.Logger = interactionlog.Nop{}
	if len(sinks) > 0 {
		logger = sinks
	}

	// ── Assistant ─────────────────────────────────────────────────────────────
	opts := []assistant.Option{
		assistant.WithInteractionLogger(logger),
	}
	if len(cfg.Lexicon.ImportantWords) > 0 {
		opts = append(opts, assistant.WithScorer(match.NewScorer(match.WithImportantWords(cfg.Lexicon.ImportantWords))))
	}
	if topics := popularTopics(cfg); topics != nil {
		opts = append(opts, assistant.WithPopularTopics(topics))
	}
	if cfg.Assistant.MaxSuggestions > 0 {
		opts = append(opts, assistant.WithMaxSuggestions(cfg.Assistant.MaxSuggestions))
	}
	if cfg.Assistant.EscalateAfter > 0 {
		opts = append(opts, assistant.WithEscalateAfter(cfg.Assistant.EscalateAfter))
	}
	asst := assistant.New(base, opts...)

	// ── Config watcher ────────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, updated *config.Config) {
		d := config.Diff(old, updated)
		if !d.Any() {
			return
		}
		if d.LogLevelChanged {
			level.Set(slogLevel(d.NewLogLevel))
			slog.Info("log level updated", "log_level", d.NewLogLevel)
		}
		if d.LexiconChanged || d.TuningChanged {
			var scorer *match.Scorer
			if d.LexiconChanged {
				// An emptied list reverts to the built-in vocabulary, same
				// as an absent one at startup.
				if words := updated.Lexicon.ImportantWords; len(words) > 0 {
					scorer = match.NewScorer(match.WithImportantWords(words))
				} else {
					scorer = match.NewScorer()
				}
			}
			asst.Retune(scorer, popularTopics(updated), updated.Assistant.MaxSuggestions, updated.Assistant.EscalateAfter)
			slog.Info("assistant retuned",
				"important_words", len(updated.Lexicon.ImportantWords),
				"popular_topics", len(updated.Lexicon.PopularTopics),
			)
		}
	})
	if err != nil {
		slog.Error("failed to start config watcher", "err", err)
		return 1
	}
	defer watcher.Stop()

	// ── HTTP server ───────────────────────────────────────────────────────────
	srvOpts := []server.Option{
		server.WithHealth(health.New(checkers...)),
	}
	if cfg.Logging.FeedbackFile != "" {
		srvOpts = append(srvOpts, server.WithFeedbackStore(feedback.NewFileStore(cfg.Logging.FeedbackFile)))
	}
	if cfg.Server.TLS != nil {
		srvOpts = append(srvOpts, server.WithTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile))
	}
	srv := server.New(cfg.Server.ListenAddr, asst, srvOpts...)

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg, base.Len(), len(sinks))

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// popularTopics maps the config lexicon to the assistant's suggestion list.
// Returns nil when the config does not override the built-in list.
func popularTopics(cfg *config.Config) []assistant.PopularTopic {
	if len(cfg.Lexicon.PopularTopics) == 0 {
		return nil
	}
	topics := make([]assistant.PopularTopic, 0, len(cfg.Lexicon.PopularTopics))
	for _, t := range cfg.Lexicon.PopularTopics {
		topics = append(topics, assistant.PopularTopic{Topic: t.Topic, Prompt: t.Prompt})
	}
	return topics
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, entries, sinks int) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║    Nivaas Assistant — startup summary ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printRow("Listen addr", cfg.Server.ListenAddr)
	if cfg.Server.TLS != nil {
		printRow("TLS", "enabled")
	} else {
		printRow("TLS", "(disabled)")
	}
	printRow("KB entries", fmt.Sprintf("%d", entries))
	if cfg.Assistant.KnowledgeFile != "" {
		printRow("KB source", cfg.Assistant.KnowledgeFile)
	} else {
		printRow("KB source", "embedded")
	}
	printRow("Log sinks", fmt.Sprintf("%d", sinks))
	if cfg.Logging.FeedbackFile != "" {
		printRow("Feedback file", cfg.Logging.FeedbackFile)
	} else {
		printRow("Feedback file", "(disabled)")
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printRow(label, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-13s   : %-19s ║\n", label, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
