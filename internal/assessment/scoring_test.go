package assessment

import (
	"math"
	"testing"
	"time"
)

func TestAdjustForTime_BonusForFinishingEarly(t *testing.T) {
	// Half the limit used: half the max bonus.
	got := adjustForTime(0.8, 60*time.Second, 120)
	want := 0.8 + 0.2*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %f, want %f", got, want)
	}
}

func TestAdjustForTime_BonusClampedAtOne(t *testing.T) {
	// Perfect raw score plus bonus would exceed 1; clamp applies after
	// the adjustment, by contract.
	got := adjustForTime(1.0, 10*time.Second, 120)
	if got != 1.0 {
		t.Errorf("got %f, want 1.0", got)
	}
}

func TestAdjustForTime_PenaltyForOverrun(t *testing.T) {
	// 50% overrun: 0.2 * 0.5 penalty.
	got := adjustForTime(0.8, 180*time.Second, 120)
	want := 0.8 - 0.1
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %f, want %f", got, want)
	}
}

func TestAdjustForTime_PenaltyClampedAtZero(t *testing.T) {
	got := adjustForTime(0.3, 1200*time.Second, 60)
	if got != 0 {
		t.Errorf("got %f, want 0", got)
	}
}

func TestAdjustForTime_NoLimitNoAdjustment(t *testing.T) {
	if got := adjustForTime(0.7, time.Hour, 0); got != 0.7 {
		t.Errorf("got %f, want 0.7", got)
	}
}

func TestPerformanceRating_Bands(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{1.0, 5},
		{0.95, 5},
		{0.90, 5},
		{0.89, 4},
		{0.80, 4},
		{0.79, 3},
		{0.70, 3},
		{0.69, 2},
		{0.60, 2},
		{0.59, 1},
		{0.0, 1},
	}
	for _, tt := range tests {
		if got := performanceRating(tt.score); got != tt.want {
			t.Errorf("performanceRating(%f): got %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestFeedbackFor_DistinctBands(t *testing.T) {
	seen := make(map[string]bool)
	for _, score := range []float64{0.95, 0.85, 0.75, 0.65, 0.3} {
		fb := feedbackFor(score)
		if fb == "" {
			t.Fatalf("empty feedback for score %f", score)
		}
		if seen[fb] {
			t.Errorf("feedback for score %f duplicates another band", score)
		}
		seen[fb] = true
	}
}

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		mastery float64
		bands   int
		want    int
	}{
		{0, 5, 1},    // new learner floors at 1
		{0.1, 5, 1},  // ceil(0.5) = 1
		{0.3, 5, 2},  // ceil(1.5) = 2
		{0.5, 5, 3},  // ceil(2.5) = 3
		{0.9, 5, 5},  // ceil(4.5) = 5
		{1.0, 5, 5},  //
		{1.0, 3, 3},  // clamped to the skill's stocked bands
		{0.45, 3, 3}, // ceil(2.25) = 3 within bands
	}
	for _, tt := range tests {
		if got := difficultyFor(tt.mastery, tt.bands); got != tt.want {
			t.Errorf("difficultyFor(%f, %d): got %d, want %d", tt.mastery, tt.bands, got, tt.want)
		}
	}
}
