package assessment

import "time"

// maxTimeBonus is the largest additive score bonus for finishing early.
const maxTimeBonus = 0.2

// adjustForTime applies the time bonus/penalty to an averaged score
// fraction. Finishing under the limit earns a bonus proportional to the
// time saved, up to +20%; overrunning the limit costs proportionally to
// the overrun, uncapped. The result is clamped to [0, 1] afterwards —
// the raw adjustment may exceed 1, and the clamp-then-band behavior is
// part of the scoring contract.
func adjustForTime(score float64, elapsed time.Duration, limitSeconds int) float64 {
	if limitSeconds <= 0 {
		return clampScore(score)
	}
	limit := float64(limitSeconds)
	spent := elapsed.Seconds()
	if spent < 0 {
		spent = 0
	}

	if spent < limit {
		score += maxTimeBonus * (1 - spent/limit)
	} else {
		score -= maxTimeBonus * ((spent - limit) / limit)
	}
	return clampScore(score)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// performanceRating maps a final clamped score to the 1-5 rating bands.
func performanceRating(score float64) int {
	pct := score * 100
	switch {
	case pct >= 90:
		return 5
	case pct >= 80:
		return 4
	case pct >= 70:
		return 3
	case pct >= 60:
		return 2
	default:
		return 1
	}
}

// feedbackFor selects a short feedback string by accuracy band.
func feedbackFor(score float64) string {
	pct := score * 100
	switch {
	case pct >= 90:
		return "Excellent work! You've got a strong grasp of this skill."
	case pct >= 80:
		return "Great job! A little more practice and you'll have it down."
	case pct >= 70:
		return "Good effort. Review the parts you missed and try again soon."
	case pct >= 60:
		return "You're getting there. Revisit the fundamentals before the next attempt."
	default:
		return "This one needs more work. Consider reviewing the prerequisite material."
	}
}
