// Package cache provides a TTL key/value store with hit/miss accounting.
//
// Entries are evaluated lazily: an expired entry counts as a miss on Get
// even if it has not been swept yet. The optional background sweep exists
// purely for memory reclamation and carries no correctness weight.
package cache

import (
	"path"
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) >= e.ttl
}

// Stats is a point-in-time snapshot of cache counters. Counters are
// incremented atomically; exact interleaving under concurrency is not
// guaranteed.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Deletes int64   `json:"deletes"`
	HitRate float64 `json:"hit_rate"`
	Size    int     `json:"size"`
}

// Cache is a concurrency-safe TTL store. Reads are lock-free; concurrent
// Set/Get on distinct keys do not block each other.
type Cache struct {
	entries sync.Map // map[string]*entry
	maxSize int
	now     func() time.Time

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
	size    atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxSize bounds the number of entries. Insertion beyond the bound
// evicts the entry with the oldest storedAt first. Zero means unbounded.
func WithMaxSize(n int) Option {
	return func(c *Cache) { c.maxSize = n }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if present and unexpired. An expired
// entry is removed and counted as a miss.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	e := v.(*entry)
	if e.expired(c.now()) {
		if _, loaded := c.entries.LoadAndDelete(key); loaded {
			c.size.Add(-1)
		}
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key with the given TTL, replacing any previous
// entry. A non-positive TTL stores an entry that is already expired.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	e := &entry{value: value, storedAt: c.now(), ttl: ttl}
	if _, loaded := c.entries.Swap(key, e); !loaded {
		c.size.Add(1)
	}
	c.sets.Add(1)

	if c.maxSize > 0 {
		for c.size.Load() > int64(c.maxSize) {
			c.evictOldest()
		}
	}
}

// evictOldest removes the entry with the oldest storedAt.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	found := false
	c.entries.Range(func(k, v any) bool {
		e := v.(*entry)
		if !found || e.storedAt.Before(oldest) {
			oldestKey, oldest = k.(string), e.storedAt
			found = true
		}
		return true
	})
	if !found {
		return
	}
	if _, loaded := c.entries.LoadAndDelete(oldestKey); loaded {
		c.size.Add(-1)
		c.deletes.Add(1)
	}
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	if _, loaded := c.entries.LoadAndDelete(key); loaded {
		c.size.Add(-1)
		c.deletes.Add(1)
	}
}

// DeleteMatching removes all keys matching the glob pattern (path.Match
// syntax, e.g. "user:42:*") and returns how many were removed.
func (c *Cache) DeleteMatching(pattern string) int {
	removed := 0
	c.entries.Range(func(k, _ any) bool {
		key := k.(string)
		if ok, err := path.Match(pattern, key); err == nil && ok {
			if _, loaded := c.entries.LoadAndDelete(key); loaded {
				c.size.Add(-1)
				c.deletes.Add(1)
				removed++
			}
		}
		return true
	})
	return removed
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	s := Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
		Size:    int(c.size.Load()),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}

// StartSweep launches a background goroutine that periodically removes
// expired entries. Sweeping is purely for memory reclamation.
func (c *Cache) StartSweep(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// Stop terminates the sweep goroutine, if running.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) sweep() {
	now := c.now()
	c.entries.Range(func(k, v any) bool {
		if v.(*entry).expired(now) {
			if _, loaded := c.entries.LoadAndDelete(k.(string)); loaded {
				c.size.Add(-1)
			}
		}
		return true
	})
}
