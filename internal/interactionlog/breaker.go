package interactionlog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSinkOpen is returned by [Breaker.Log] while the breaker is open and the
// reset timeout has not yet elapsed.
var ErrSinkOpen = errors.New("interactionlog: sink breaker is open")

// breakerState is the operating mode of a [Breaker]: closed forwards every
// record, open rejects immediately, half-open lets a few probes through.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds tuning knobs for a [Breaker]. Zero values get
// defaults suited to a best-effort analytics sink.
type BreakerConfig struct {
	// Name labels the wrapped sink in log messages.
	Name string

	// MaxFailures is the number of consecutive failures before the breaker
	// opens. Default: 5.
	MaxFailures int

	// ResetTimeout is how long the breaker stays open before probing the
	// sink again. Default: 30s.
	ResetTimeout time.Duration

	// HalfOpenMax is the number of probe writes allowed while half-open.
	// Default: 3.
	HalfOpenMax int
}

// Breaker wraps a [Logger] with a three-state circuit breaker so a dead
// sink stops costing a write attempt (and its timeout) on every turn.
// Records sent while the breaker is open are dropped — acceptable for a
// best-effort side channel, where losing records beats degrading turns.
//
// Safe for concurrent use.
type Breaker struct {
	inner Logger
	name  string

	maxFailures  int
	resetTimeout time.Duration
	halfOpenMax  int

	mu            sync.Mutex
	state         breakerState
	failures      int
	lastFailure   time.Time
	halfOpenCalls int
	halfOpenOK    int
}

var _ Logger = (*Breaker)(nil)

// NewBreaker wraps inner with a circuit breaker.
func NewBreaker(inner Logger, cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = 3
	}
	return &Breaker{
		inner:        inner,
		name:         cfg.Name,
		maxFailures:  cfg.MaxFailures,
		resetTimeout: cfg.ResetTimeout,
		halfOpenMax:  cfg.HalfOpenMax,
	}
}

// Log forwards rec to the wrapped sink unless the breaker is open.
func (b *Breaker) Log(ctx context.Context, rec Record) error {
	b.mu.Lock()
	switch b.state {
	case stateOpen:
		if time.Since(b.lastFailure) < b.resetTimeout {
			b.mu.Unlock()
			return ErrSinkOpen
		}
		b.state = stateHalfOpen
		b.halfOpenCalls = 0
		b.halfOpenOK = 0
		slog.Info("interaction sink probing", "sink", b.name)

	case stateHalfOpen:
		if b.halfOpenCalls >= b.halfOpenMax {
			b.mu.Unlock()
			return ErrSinkOpen
		}
	}
	probing := b.state == stateHalfOpen
	if probing {
		b.halfOpenCalls++
	}
	b.mu.Unlock()

	err := b.inner.Log(ctx, rec)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure(probing)
	} else {
		b.onSuccess(probing)
	}
	return err
}

// onFailure must be called with b.mu held.
func (b *Breaker) onFailure(probing bool) {
	b.lastFailure = time.Now()
	if probing {
		// Any probe failure re-opens immediately.
		b.state = stateOpen
		b.failures = b.maxFailures
		slog.Warn("interaction sink re-opened", "sink", b.name)
		return
	}
	b.failures++
	if b.failures >= b.maxFailures && b.state == stateClosed {
		b.state = stateOpen
		slog.Warn("interaction sink disabled after consecutive failures",
			"sink", b.name, "failures", b.failures)
	}
}

// onSuccess must be called with b.mu held.
func (b *Breaker) onSuccess(probing bool) {
	if probing {
		b.halfOpenOK++
		if b.halfOpenOK >= b.halfOpenMax {
			b.state = stateClosed
			b.failures = 0
			slog.Info("interaction sink recovered", "sink", b.name)
		}
		return
	}
	b.failures = 0
}
