package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingSleep captures backoff delays instead of sleeping.
func recordingSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestExecute_SucceedsFirstAttempt(t *testing.T) {
	var delays []time.Duration
	e := New(Config{}, WithSleep(recordingSleep(&delays)))

	got, err := Do(context.Background(), e, "save", func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if len(delays) != 0 {
		t.Errorf("observed %d delays, want 0", len(delays))
	}
}

func TestExecute_SucceedsOnThirdAttempt(t *testing.T) {
	var delays []time.Duration
	e := New(Config{MaxRetries: 3, BaseDelay: time.Second, BackoffMultiplier: 2}, WithSleep(recordingSleep(&delays)))

	calls := 0
	got, err := Do(context.Background(), e, "save", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
	if len(delays) != 2 {
		t.Fatalf("observed %d delays, want exactly 2", len(delays))
	}
	if delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Errorf("got delays %v, want [1s 2s]", delays)
	}
}

func TestExecute_Exhaustion(t *testing.T) {
	var delays []time.Duration
	e := New(Config{MaxRetries: 3}, WithSleep(recordingSleep(&delays)))

	boom := errors.New("storage down")
	_, err := e.Execute(context.Background(), "save", func() (any, error) {
		return nil, boom
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	var ex *ErrExhausted
	if !errors.As(err, &ex) {
		t.Fatalf("expected *ErrExhausted, got %T", err)
	}
	if ex.Attempts != 3 {
		t.Errorf("got %d attempts, want 3", ex.Attempts)
	}
	if !errors.Is(err, boom) {
		t.Error("wrapped error should unwrap to the last failure")
	}
	// Last attempt does not sleep.
	if len(delays) != 2 {
		t.Errorf("observed %d delays, want 2", len(delays))
	}
}

func TestBackoff_CappedAtMaxDelay(t *testing.T) {
	e := New(Config{BaseDelay: time.Second, BackoffMultiplier: 10, MaxDelay: 5 * time.Second})
	if got := e.backoff(3); got != 5*time.Second {
		t.Errorf("got %v, want 5s cap", got)
	}
}

func TestExecute_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := New(Config{MaxRetries: 3}, WithSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := e.Execute(ctx, "save", func() (any, error) {
		return nil, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestStats_PerContextCounters(t *testing.T) {
	var delays []time.Duration
	e := New(Config{MaxRetries: 2}, WithSleep(recordingSleep(&delays)))

	_, _ = e.Execute(context.Background(), "save", func() (any, error) { return 1, nil })
	_, _ = e.Execute(context.Background(), "load", func() (any, error) { return nil, errors.New("x") })

	stats := e.Stats()
	if s := stats["save"]; s.Attempts != 1 || s.Successes != 1 || s.Failures != 0 {
		t.Errorf("save stats: %+v", s)
	}
	if s := stats["load"]; s.Attempts != 2 || s.Retries != 1 || s.Failures != 1 {
		t.Errorf("load stats: %+v", s)
	}

	// Returned map is a copy.
	stats["save"] = Stats{}
	if e.Stats()["save"].Attempts != 1 {
		t.Error("Stats should return a copy")
	}
}
