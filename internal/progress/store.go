// Package progress owns all mutable per-user mastery state. Every
// mutation flows through Store.UpdateSkill so the running-mean invariant
// on mastery levels cannot be violated by out-of-band writes.
package progress

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/abhisek/skilltrack/internal/retry"
	"github.com/abhisek/skilltrack/internal/skillgraph"
	"github.com/abhisek/skilltrack/internal/spacedrep"
)

// Persistence is the external load/save collaborator. Implementations
// need last-write-wins semantics per user ID; transient failures are
// tolerated via the store's retry executor.
type Persistence interface {
	Load(ctx context.Context, userID string) (*UserProgress, bool, error)
	Save(ctx context.Context, userID string, p *UserProgress) error
}

// Store manages UserProgress records behind a per-user mutex. Distinct
// users proceed fully in parallel; all access to one user's record is
// serialized, including the persist step, so a retried save never races
// a concurrent read-modify-write for the same user.
type Store struct {
	graph   *skillgraph.Graph
	persist Persistence
	retrier *retry.Executor
	now     func() time.Time

	mu    sync.Mutex
	users map[string]*userEntry
}

type userEntry struct {
	mu     sync.Mutex
	record *UserProgress
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over the given graph and persistence
// collaborator.
func NewStore(graph *skillgraph.Graph, persist Persistence, retrier *retry.Executor, opts ...Option) *Store {
	s := &Store{
		graph:   graph,
		persist: persist,
		retrier: retrier,
		now:     time.Now,
		users:   make(map[string]*userEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// entry returns the per-user entry, creating it if needed. Only the
// entry map itself is guarded here; the entry's own mutex serializes
// record access.
func (s *Store) entry(userID string) *userEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		e = &userEntry{}
		s.users[userID] = e
	}
	return e
}

// load ensures the entry's record is populated, reading from persistence
// on first access. A missing record is not an error: the user gets a
// fresh zero-value record. Caller must hold e.mu.
func (s *Store) load(ctx context.Context, userID string, e *userEntry) error {
	if e.record != nil {
		return nil
	}
	record, err := retry.Do(ctx, s.retrier, "load-progress", func() (*UserProgress, error) {
		p, found, err := s.persist.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return p, nil
	})
	if err != nil {
		return &ErrPersistence{UserID: userID, Err: err}
	}
	if record == nil {
		record = newUserProgress(userID, s.now())
	}
	if record.Skills == nil {
		record.Skills = make(map[string]*SkillProgress)
	}
	e.record = record
	return nil
}

// GetProgress returns a copy of the user's record, creating a zero-value
// record on first access. It fails only when the backing load fails
// after retries; an unknown user is never an error.
func (s *Store) GetProgress(ctx context.Context, userID string) (*UserProgress, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.load(ctx, userID, e); err != nil {
		return nil, err
	}
	return e.record.Clone(), nil
}

// SaveProgress persists the user's current in-memory record, wrapped in
// the retry executor.
func (s *Store) SaveProgress(ctx context.Context, userID string) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.load(ctx, userID, e); err != nil {
		return err
	}
	return s.save(ctx, userID, e.record)
}

func (s *Store) save(ctx context.Context, userID string, record *UserProgress) error {
	_, err := s.retrier.Execute(ctx, "save-progress", func() (any, error) {
		return nil, s.persist.Save(ctx, userID, record)
	})
	if err != nil {
		return &ErrPersistence{UserID: userID, Err: err}
	}
	return nil
}

// UpdateSkill is the single mutating entry point. It records an attempt
// with the given normalized score, recomputes the running-mean mastery,
// reschedules the next review, marks the skill completed once mastery
// reaches the skill's threshold, and persists. On persist failure the
// in-memory record is rolled back and the caller is told the update did
// not take effect.
func (s *Store) UpdateSkill(ctx context.Context, userID, skillID string, scoreFraction float64, timeSpentSeconds int64) (*SkillProgress, error) {
	skill, err := s.graph.GetSkill(skillID)
	if err != nil {
		return nil, err
	}
	if scoreFraction < 0 {
		scoreFraction = 0
	}
	if scoreFraction > 1 {
		scoreFraction = 1
	}

	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.load(ctx, userID, e); err != nil {
		return nil, err
	}

	// Snapshot for rollback on persist failure.
	previous := e.record.Clone()

	record := e.record
	now := s.now()

	sp, ok := record.Skills[skillID]
	if !ok {
		sp = &SkillProgress{EaseFactor: DefaultEaseFactor}
		record.Skills[skillID] = sp
	}

	sp.Attempts++
	sp.MasteryLevel = (sp.MasteryLevel*float64(sp.Attempts-1) + scoreFraction) / float64(sp.Attempts)

	performance := int(math.Round(scoreFraction * 5))
	sp.Interval, sp.EaseFactor, sp.NextReviewAt = spacedrep.NextReview(performance, sp.Interval, sp.EaseFactor, now)
	sp.LastReviewAt = now

	record.TotalTimeSpent += timeSpentSeconds
	record.LastUpdatedAt = now

	if sp.MasteryLevel >= skill.MasteryThreshold && !record.HasCompleted(skillID) {
		record.CompletedSkills = append(record.CompletedSkills, skillID)
	}

	if err := s.save(ctx, userID, record); err != nil {
		e.record = previous
		return nil, err
	}

	result := *sp
	return &result, nil
}

// ReviewSnapshots converts the user's per-skill state into review
// snapshots for priority ranking.
func (s *Store) ReviewSnapshots(ctx context.Context, userID string) (map[string]spacedrep.ReviewSnapshot, error) {
	p, err := s.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SnapshotsOf(p), nil
}

// SnapshotsOf builds review snapshots from a progress record.
func SnapshotsOf(p *UserProgress) map[string]spacedrep.ReviewSnapshot {
	snaps := make(map[string]spacedrep.ReviewSnapshot, len(p.Skills))
	for id, sp := range p.Skills {
		snaps[id] = spacedrep.ReviewSnapshot{
			SkillID:      id,
			MasteryLevel: sp.MasteryLevel,
			Interval:     sp.Interval,
			LastReviewAt: sp.LastReviewAt,
		}
	}
	return snaps
}
