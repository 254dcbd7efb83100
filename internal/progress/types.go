package progress

import (
	"slices"
	"time"
)

// SkillProgress tracks a learner's history on a single skill.
// MasteryLevel is always the running mean of all normalized attempt
// scores; Interval and EaseFactor are only ever produced by the review
// scheduler.
type SkillProgress struct {
	MasteryLevel float64   `json:"mastery_level"`
	Attempts     int       `json:"attempts"`
	Interval     int       `json:"interval"`
	EaseFactor   float64   `json:"ease_factor"`
	LastReviewAt time.Time `json:"last_review_at"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// DefaultEaseFactor is the SM-2 starting ease for a new skill.
const DefaultEaseFactor = 2.5

// UserProgress is the complete mutable state for one learner, owned
// exclusively by the Store. CompletedSkills only ever grows.
type UserProgress struct {
	UserID          string                    `json:"user_id"`
	CompletedSkills []string                  `json:"completed_skills"`
	Skills          map[string]*SkillProgress `json:"skills"`
	TotalTimeSpent  int64                     `json:"total_time_spent_seconds"`
	CreatedAt       time.Time                 `json:"created_at"`
	LastUpdatedAt   time.Time                 `json:"last_updated_at"`
}

// newUserProgress returns the zero-value record for a first-seen user.
func newUserProgress(userID string, now time.Time) *UserProgress {
	return &UserProgress{
		UserID:        userID,
		Skills:        make(map[string]*SkillProgress),
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

// CompletedSet returns the completed skill IDs as a set.
func (p *UserProgress) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedSkills))
	for _, id := range p.CompletedSkills {
		set[id] = true
	}
	return set
}

// HasCompleted reports whether the skill is in the completed set.
func (p *UserProgress) HasCompleted(skillID string) bool {
	return slices.Contains(p.CompletedSkills, skillID)
}

// Clone returns a deep copy. The store hands out clones so callers can
// never mutate the owned record out of band.
func (p *UserProgress) Clone() *UserProgress {
	cp := *p
	cp.CompletedSkills = slices.Clone(p.CompletedSkills)
	cp.Skills = make(map[string]*SkillProgress, len(p.Skills))
	for id, sp := range p.Skills {
		spCopy := *sp
		cp.Skills[id] = &spCopy
	}
	return &cp
}
