// Package retry wraps fallible operations with bounded exponential-backoff
// retry and per-context attempt accounting.
package retry

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// Config configures retry behavior for transient failures.
type Config struct {
	// MaxRetries is the total number of attempts, counting the first
	// call.
	MaxRetries int
	// BaseDelay is the delay before the second attempt.
	BaseDelay time.Duration
	// BackoffMultiplier scales the delay after each failed attempt.
	BackoffMultiplier float64
	// MaxDelay caps a single backoff wait.
	MaxDelay time.Duration
}

// DefaultConfig returns the standard retry policy: 3 attempts, 1s base
// delay, doubling, capped at 30s.
func DefaultConfig() Config {
	return Config{
		MaxRetries:        3,
		BaseDelay:         1 * time.Second,
		BackoffMultiplier: 2.0,
		MaxDelay:          30 * time.Second,
	}
}

// ErrExhausted wraps the last error after all attempts failed.
type ErrExhausted struct {
	Context  string
	Attempts int
	Err      error
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("%s: failed after %d attempts: %v", e.Context, e.Attempts, e.Err)
}

func (e *ErrExhausted) Unwrap() error { return e.Err }

// Stats holds the per-context counters.
type Stats struct {
	Attempts  int64 `json:"attempts"`
	Retries   int64 `json:"retries"`
	Successes int64 `json:"successes"`
	Failures  int64 `json:"failures"`
}

// Executor retries operations with exponential backoff. Safe for
// concurrent use; delays never hold any caller-side lock beyond the
// executor's own counter mutex, which is released before sleeping.
type Executor struct {
	cfg   Config
	sleep func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	counters map[string]*Stats
}

// Option configures an Executor.
type Option func(*Executor)

// WithSleep overrides the backoff sleeper, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) { e.sleep = sleep }
}

// New creates an Executor with the given config. Zero-valued config
// fields fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Executor {
	def := DefaultConfig()
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = def.BackoffMultiplier
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}

	e := &Executor{
		cfg:      cfg,
		sleep:    sleepCtx,
		counters: make(map[string]*Stats),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Execute runs op, retrying on error up to the configured attempt bound.
// label identifies the operation in the per-context counters. On success
// at any attempt the result is returned immediately; on exhaustion the
// last error is wrapped in *ErrExhausted.
func (e *Executor) Execute(ctx context.Context, label string, op func() (any, error)) (any, error) {
	var lastErr error

	for attempt := 0; attempt < e.cfg.MaxRetries; attempt++ {
		e.count(label, func(s *Stats) {
			s.Attempts++
			if attempt > 0 {
				s.Retries++
			}
		})

		result, err := op()
		if err == nil {
			e.count(label, func(s *Stats) { s.Successes++ })
			return result, nil
		}
		lastErr = err

		// Last attempt: don't sleep, just give up.
		if attempt == e.cfg.MaxRetries-1 {
			break
		}

		if err := e.sleep(ctx, e.backoff(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	e.count(label, func(s *Stats) { s.Failures++ })
	return nil, &ErrExhausted{Context: label, Attempts: e.cfg.MaxRetries, Err: lastErr}
}

// backoff computes the wait duration after the given 0-based attempt.
func (e *Executor) backoff(attempt int) time.Duration {
	wait := float64(e.cfg.BaseDelay) * math.Pow(e.cfg.BackoffMultiplier, float64(attempt))
	if wait > float64(e.cfg.MaxDelay) {
		wait = float64(e.cfg.MaxDelay)
	}
	return time.Duration(wait)
}

func (e *Executor) count(label string, update func(*Stats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.counters[label]
	if !ok {
		s = &Stats{}
		e.counters[label] = s
	}
	update(s)
}

// Stats returns a copy of the per-context counters.
func (e *Executor) Stats() map[string]Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make(map[string]Stats, len(e.counters))
	for label, s := range e.counters {
		result[label] = *s
	}
	return result
}

// Do is a typed wrapper around Execute.
func Do[T any](ctx context.Context, e *Executor, label string, op func() (T, error)) (T, error) {
	result, err := e.Execute(ctx, label, func() (any, error) {
		return op()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
