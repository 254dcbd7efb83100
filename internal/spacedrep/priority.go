package spacedrep

import (
	"sort"
	"time"
)

// ReviewSnapshot is the minimal per-skill state needed to rank review
// urgency. Callers build these from their progress records.
type ReviewSnapshot struct {
	SkillID      string
	MasteryLevel float64
	Interval     int
	LastReviewAt time.Time
}

// Priority returns the review-priority score for this snapshot.
// Higher means more urgent: overdue skills with low mastery rank first.
// A skill with no review history (zero LastReviewAt) scores 0.
func (rs ReviewSnapshot) Priority(now time.Time) float64 {
	if rs.LastReviewAt.IsZero() {
		return 0
	}
	interval := rs.Interval
	if interval < 1 {
		interval = 1
	}
	daysSince := now.Sub(rs.LastReviewAt).Hours() / 24.0
	if daysSince < 0 {
		daysSince = 0
	}
	return (daysSince / float64(interval)) * (1 - rs.MasteryLevel)
}

// SortByPriority orders snapshots by descending priority. Ties break by
// lower mastery first, then skill ID, so rankings are deterministic.
func SortByPriority(snaps []ReviewSnapshot, now time.Time) {
	sort.SliceStable(snaps, func(i, j int) bool {
		pi, pj := snaps[i].Priority(now), snaps[j].Priority(now)
		if pi != pj {
			return pi > pj
		}
		if snaps[i].MasteryLevel != snaps[j].MasteryLevel {
			return snaps[i].MasteryLevel < snaps[j].MasteryLevel
		}
		return snaps[i].SkillID < snaps[j].SkillID
	})
}
