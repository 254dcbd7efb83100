package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock gives tests control over entry expiry.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestSetGet_RoundTrip(t *testing.T) {
	c := New()
	c.Set("k", "v", 100*time.Millisecond)
	got, found := c.Get("k")
	if !found {
		t.Fatal("expected hit immediately after Set")
	}
	if got != "v" {
		t.Errorf("got %v, want v", got)
	}
}

func TestGet_ExpiredEntryIsMiss(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("k", "v", 100*time.Millisecond)
	clock.Advance(150 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expected miss after TTL elapsed")
	}
	stats := c.Stats()
	if stats.Misses != 1 {
		t.Errorf("got %d misses, want 1", stats.Misses)
	}
	if stats.Size != 0 {
		t.Errorf("expired entry not removed: size %d", stats.Size)
	}
}

func TestGet_RealTTLExpiry(t *testing.T) {
	c := New()
	c.Set("k", "v", 30*time.Millisecond)
	if _, found := c.Get("k"); !found {
		t.Fatal("expected hit before TTL")
	}
	time.Sleep(50 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected miss after TTL")
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("k", 1, time.Minute)
	c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("expected miss after Delete")
	}
	if got := c.Stats().Deletes; got != 1 {
		t.Errorf("got %d deletes, want 1", got)
	}
}

func TestDeleteMatching(t *testing.T) {
	c := New()
	c.Set("user:1:progress", 1, time.Minute)
	c.Set("user:1:analytics", 2, time.Minute)
	c.Set("user:2:progress", 3, time.Minute)

	removed := c.DeleteMatching("user:1:*")
	if removed != 2 {
		t.Errorf("got %d removed, want 2", removed)
	}
	if _, found := c.Get("user:1:progress"); found {
		t.Error("user:1:progress should be gone")
	}
	if _, found := c.Get("user:2:progress"); !found {
		t.Error("user:2:progress should survive")
	}
}

func TestStats_HitRate(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)
	c.Get("k")     // hit
	c.Get("k")     // hit
	c.Get("other") // miss

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Fatalf("got hits=%d misses=%d, want 2/1", stats.Hits, stats.Misses)
	}
	want := 2.0 / 3.0
	if diff := stats.HitRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("got hit rate %f, want %f", stats.HitRate, want)
	}
	if stats.Sets != 1 {
		t.Errorf("got %d sets, want 1", stats.Sets)
	}
}

func TestMaxSize_EvictsOldestFirst(t *testing.T) {
	clock := newFakeClock()
	c := New(WithMaxSize(2), WithClock(clock.Now))

	c.Set("a", 1, time.Hour)
	clock.Advance(time.Second)
	c.Set("b", 2, time.Hour)
	clock.Advance(time.Second)
	c.Set("c", 3, time.Hour)

	if _, found := c.Get("a"); found {
		t.Error("oldest entry a should have been evicted")
	}
	if _, found := c.Get("b"); !found {
		t.Error("b should survive")
	}
	if _, found := c.Get("c"); !found {
		t.Error("c should survive")
	}
	if got := c.Stats().Size; got != 2 {
		t.Errorf("got size %d, want 2", got)
	}
}

func TestSweep_RemovesExpired(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("stale", 1, time.Millisecond)
	c.Set("fresh", 2, time.Hour)
	clock.Advance(time.Second)

	c.sweep()

	stats := c.Stats()
	if stats.Size != 1 {
		t.Errorf("got size %d after sweep, want 1", stats.Size)
	}
	// Sweep is reclamation only, not a delete.
	if stats.Deletes != 0 {
		t.Errorf("sweep should not count as deletes, got %d", stats.Deletes)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d-%d", n, j)
				c.Set(key, j, time.Minute)
				if v, found := c.Get(key); !found || v != j {
					t.Errorf("lost write for %s", key)
				}
			}
		}(i)
	}
	wg.Wait()

	if got := c.Stats().Size; got != 800 {
		t.Errorf("got size %d, want 800", got)
	}
}
