// Package assessment orchestrates the assessment lifecycle: prerequisite
// gating, difficulty selection, scoring, mastery updates, and the cached
// read paths a transport layer serves from.
package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/skilltrack/internal/cache"
	"github.com/abhisek/skilltrack/internal/progress"
	"github.com/abhisek/skilltrack/internal/retry"
	"github.com/abhisek/skilltrack/internal/skillgraph"
)

// Assessment is an in-flight assessment. Ephemeral: created by
// StartAssessment, consumed exactly once by SubmitAssessment. An
// abandoned assessment holds no resources beyond its registry slot.
type Assessment struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	SkillID          string     `json:"skill_id"`
	Difficulty       int        `json:"difficulty"`
	Questions        []Question `json:"questions"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	StartedAt        time.Time  `json:"started_at"`
}

// SubmissionResult reports the outcome of a scored submission.
type SubmissionResult struct {
	AssessmentID string    `json:"assessment_id"`
	SkillID      string    `json:"skill_id"`
	RawScore     float64   `json:"raw_score"`
	FinalScore   float64   `json:"final_score"`
	Performance  int       `json:"performance"`
	MasteryLevel float64   `json:"mastery_level"`
	Mastered     bool      `json:"mastered"`
	NextReviewAt time.Time `json:"next_review_at"`
	Feedback     string    `json:"feedback"`
}

// TTLConfig sets cache lifetimes for the hot read paths.
type TTLConfig struct {
	Progress  time.Duration
	Path      time.Duration
	Analytics time.Duration
}

// DefaultTTLConfig returns the standard cache lifetimes.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Progress:  30 * time.Second,
		Path:      30 * time.Second,
		Analytics: time.Minute,
	}
}

// Orchestrator coordinates the graph, scheduler-backed store, cache, and
// question bank.
type Orchestrator struct {
	graph   *skillgraph.Graph
	store   *progress.Store
	bank    QuestionBank
	cache   *cache.Cache
	retrier *retry.Executor
	logger  *slog.Logger
	ttl     TTLConfig
	now     func() time.Time
	newID   func() string

	// single-flight groups concurrent cache fills per key.
	sf singleflight.Group

	mu     sync.Mutex
	active map[string]*Assessment
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator overrides assessment ID generation, for tests.
func WithIDGenerator(gen func() string) Option {
	return func(o *Orchestrator) { o.newID = gen }
}

// WithTTLs overrides the cache lifetimes.
func WithTTLs(ttl TTLConfig) Option {
	return func(o *Orchestrator) { o.ttl = ttl }
}

// New creates an Orchestrator.
func New(graph *skillgraph.Graph, store *progress.Store, bank QuestionBank, c *cache.Cache, retrier *retry.Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		graph:   graph,
		store:   store,
		bank:    bank,
		cache:   c,
		retrier: retrier,
		logger:  slog.Default(),
		ttl:     DefaultTTLConfig(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		active:  make(map[string]*Assessment),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartAssessment begins an assessment for (user, skill). Fails with
// *skillgraph.ErrSkillNotFound for an unknown skill and
// *ErrPrerequisitesNotMet when any prerequisite is incomplete. Performs
// no mutation.
func (o *Orchestrator) StartAssessment(ctx context.Context, userID, skillID string) (*Assessment, error) {
	skill, err := o.graph.GetSkill(skillID)
	if err != nil {
		return nil, err
	}

	p, err := o.store.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	if missing := o.graph.MissingPrerequisites(skillID, p.CompletedSet()); len(missing) > 0 {
		return nil, &ErrPrerequisitesNotMet{SkillID: skillID, Missing: missing}
	}

	mastery := 0.0
	if sp, ok := p.Skills[skillID]; ok {
		mastery = sp.MasteryLevel
	}
	difficulty := difficultyFor(mastery, skill.DifficultyBands)

	questions, timeLimit, err := o.bank.Generate(skill.Bank(), difficulty)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	a := &Assessment{
		ID:               o.newID(),
		UserID:           userID,
		SkillID:          skillID,
		Difficulty:       difficulty,
		Questions:        questions,
		TimeLimitSeconds: timeLimit,
		StartedAt:        o.now(),
	}

	o.mu.Lock()
	o.active[a.ID] = a
	o.mu.Unlock()

	o.logger.Debug("assessment started",
		"user", userID, "skill", skillID, "difficulty", difficulty, "questions", len(questions))
	return a, nil
}

// difficultyFor derives the difficulty band from current mastery:
// clamp(ceil(mastery*5), 1, bands).
func difficultyFor(mastery float64, bands int) int {
	d := int(math.Ceil(mastery * 5))
	if d < 1 {
		d = 1
	}
	if bands >= 1 && d > bands {
		d = bands
	}
	if d > 5 {
		d = 5
	}
	return d
}

// SubmitAssessment scores the responses for a started assessment,
// updates mastery, and invalidates the user's cached reads. A malformed
// payload leaves the assessment submittable; once scoring succeeds the
// ID is consumed. A persistence failure after scoring is reported as a
// failed update, never as partial success.
func (o *Orchestrator) SubmitAssessment(ctx context.Context, userID, assessmentID string, responses []Response) (*SubmissionResult, error) {
	o.mu.Lock()
	a, ok := o.active[assessmentID]
	if !ok || a.UserID != userID {
		o.mu.Unlock()
		return nil, &ErrAssessmentNotFound{AssessmentID: assessmentID}
	}
	o.mu.Unlock()

	if len(responses) != len(a.Questions) {
		return nil, &ErrValidation{
			Reason: fmt.Sprintf("expected %d responses, got %d", len(a.Questions), len(responses)),
		}
	}

	var total float64
	for i, q := range a.Questions {
		fraction, err := q.Score(responses[i])
		if err != nil {
			return nil, err
		}
		total += fraction
	}
	raw := total / float64(len(a.Questions))

	// Scoring succeeded: consume the ID. A concurrent submit racing us
	// loses here.
	o.mu.Lock()
	if _, still := o.active[assessmentID]; !still {
		o.mu.Unlock()
		return nil, &ErrAssessmentNotFound{AssessmentID: assessmentID}
	}
	delete(o.active, assessmentID)
	o.mu.Unlock()

	elapsed := o.now().Sub(a.StartedAt)
	final := adjustForTime(raw, elapsed, a.TimeLimitSeconds)
	performance := performanceRating(final)
	scoreFraction := float64(performance) / 5.0

	sp, err := o.store.UpdateSkill(ctx, userID, a.SkillID, scoreFraction, int64(elapsed.Seconds()))
	if err != nil {
		o.logger.Warn("mastery update failed", "user", userID, "skill", a.SkillID, "error", err)
		return nil, err
	}

	o.cache.DeleteMatching(userKeyPrefix(userID) + "*")

	skill, _ := o.graph.GetSkill(a.SkillID)
	mastered := sp.MasteryLevel >= skill.MasteryThreshold

	o.logger.Info("assessment submitted",
		"user", userID, "skill", a.SkillID,
		"score", final, "performance", performance, "mastery", sp.MasteryLevel)

	return &SubmissionResult{
		AssessmentID: assessmentID,
		SkillID:      a.SkillID,
		RawScore:     raw,
		FinalScore:   final,
		Performance:  performance,
		MasteryLevel: sp.MasteryLevel,
		Mastered:     mastered,
		NextReviewAt: sp.NextReviewAt,
		Feedback:     feedbackFor(final),
	}, nil
}

func userKeyPrefix(userID string) string {
	return "user:" + userID + ":"
}

// GetProgress returns the user's progress record, served read-through
// from the cache.
func (o *Orchestrator) GetProgress(ctx context.Context, userID string) (*progress.UserProgress, error) {
	key := userKeyPrefix(userID) + "progress"
	v, err := o.cached(key, o.ttl.Progress, func() (any, error) {
		return o.store.GetProgress(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*progress.UserProgress), nil
}

// GetLearningPath returns the user's recommended skills ranked by review
// priority, truncated to limit.
func (o *Orchestrator) GetLearningPath(ctx context.Context, userID string, limit int) ([]skillgraph.Skill, error) {
	key := fmt.Sprintf("%spath:%d", userKeyPrefix(userID), limit)
	v, err := o.cached(key, o.ttl.Path, func() (any, error) {
		p, err := o.store.GetProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		return o.graph.RecommendedSkills(p.CompletedSet(), progress.SnapshotsOf(p), limit, o.now()), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]skillgraph.Skill), nil
}

// cached serves key from the cache, filling on miss. Concurrent fills
// for the same key are collapsed into one.
func (o *Orchestrator) cached(key string, ttl time.Duration, fill func() (any, error)) (any, error) {
	if v, found := o.cache.Get(key); found {
		return v, nil
	}
	v, err, _ := o.sf.Do(key, func() (any, error) {
		if v, found := o.cache.Get(key); found {
			return v, nil
		}
		v, err := fill()
		if err != nil {
			return nil, err
		}
		o.cache.Set(key, v, ttl)
		return v, nil
	})
	return v, err
}

// CacheStats exposes cache counters for operational visibility.
func (o *Orchestrator) CacheStats() cache.Stats {
	return o.cache.Stats()
}

// RetryStats exposes per-context retry counters.
func (o *Orchestrator) RetryStats() map[string]retry.Stats {
	return o.retrier.Stats()
}
