package spacedrep

import (
	"math"
	"time"
)

// MinEaseFactor is the floor for the ease factor, per SM-2.
const MinEaseFactor = 1.3

// Performance rating thresholds on the 0-5 recall scale.
const (
	// PerfStrongRecall and above grows the interval.
	PerfStrongRecall = 4
	// PerfFailure and below resets the interval to one day.
	PerfFailure = 1
)

// NextReview computes the revised review schedule for a skill after an
// assessment, using a modified SM-2.
//
// performance is the 0-5 recall quality rating (clamped if out of range).
// currentInterval is the current review interval in days (0 for a skill
// never reviewed). The returned interval is always >= 1 and the returned
// ease factor is always >= MinEaseFactor.
func NextReview(performance, currentInterval int, easeFactor float64, now time.Time) (newInterval int, newEaseFactor float64, nextReviewAt time.Time) {
	if performance < 0 {
		performance = 0
	}
	if performance > 5 {
		performance = 5
	}

	switch {
	case performance >= PerfStrongRecall:
		// Strong recall: graduate through the 1 -> 6 ramp, then grow
		// by the ease factor.
		switch currentInterval {
		case 0:
			newInterval = 1
		case 1:
			newInterval = 6
		default:
			newInterval = int(math.Round(float64(currentInterval) * easeFactor))
		}
		newEaseFactor = easeFactor + 0.1

	case performance > PerfFailure:
		// Recalled with difficulty: shrink the interval slightly.
		newInterval = int(math.Round(float64(currentInterval) * 0.8))
		if newInterval < 1 {
			newInterval = 1
		}
		newEaseFactor = easeFactor - 0.2

	default:
		// Failure: back to daily review.
		newInterval = 1
		newEaseFactor = easeFactor - 0.3
	}

	if newEaseFactor < MinEaseFactor {
		newEaseFactor = MinEaseFactor
	}

	nextReviewAt = now.AddDate(0, 0, newInterval)
	return newInterval, newEaseFactor, nextReviewAt
}
