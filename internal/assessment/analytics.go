package assessment

import (
	"context"
)

// SkillAnalytics is the aggregate learning picture for one user.
type SkillAnalytics struct {
	UserID           string  `json:"user_id"`
	TotalSkills      int     `json:"total_skills"`
	CompletedSkills  int     `json:"completed_skills"`
	AvailableSkills  int     `json:"available_skills"`
	AttemptedSkills  int     `json:"attempted_skills"`
	TotalAttempts    int     `json:"total_attempts"`
	AverageMastery   float64 `json:"average_mastery"`
	StrongestSkill   string  `json:"strongest_skill,omitempty"`
	WeakestSkill     string  `json:"weakest_skill,omitempty"`
	DueForReview     int     `json:"due_for_review"`
	TotalTimeSpent   int64   `json:"total_time_spent_seconds"`
	CompletedPercent float64 `json:"completed_percent"`
}

// GetSkillAnalytics aggregates the user's learning state, served
// read-through from the cache.
func (o *Orchestrator) GetSkillAnalytics(ctx context.Context, userID string) (*SkillAnalytics, error) {
	key := userKeyPrefix(userID) + "analytics"
	v, err := o.cached(key, o.ttl.Analytics, func() (any, error) {
		return o.computeAnalytics(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SkillAnalytics), nil
}

func (o *Orchestrator) computeAnalytics(ctx context.Context, userID string) (*SkillAnalytics, error) {
	p, err := o.store.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := o.now()
	a := &SkillAnalytics{
		UserID:          userID,
		TotalSkills:     len(o.graph.AllSkills()),
		CompletedSkills: len(p.CompletedSkills),
		AvailableSkills: len(o.graph.AvailableSkills(p.CompletedSet())),
		AttemptedSkills: len(p.Skills),
		TotalTimeSpent:  p.TotalTimeSpent,
	}

	var masterySum float64
	var strongest, weakest string
	var strongestLevel, weakestLevel float64
	for id, sp := range p.Skills {
		a.TotalAttempts += sp.Attempts
		masterySum += sp.MasteryLevel

		if strongest == "" || sp.MasteryLevel > strongestLevel ||
			(sp.MasteryLevel == strongestLevel && id < strongest) {
			strongest, strongestLevel = id, sp.MasteryLevel
		}
		if weakest == "" || sp.MasteryLevel < weakestLevel ||
			(sp.MasteryLevel == weakestLevel && id < weakest) {
			weakest, weakestLevel = id, sp.MasteryLevel
		}
		if !sp.NextReviewAt.IsZero() && !now.Before(sp.NextReviewAt) {
			a.DueForReview++
		}
	}
	if len(p.Skills) > 0 {
		a.AverageMastery = masterySum / float64(len(p.Skills))
		a.StrongestSkill = strongest
		a.WeakestSkill = weakest
	}
	if a.TotalSkills > 0 {
		a.CompletedPercent = float64(a.CompletedSkills) / float64(a.TotalSkills) * 100
	}
	return a, nil
}
