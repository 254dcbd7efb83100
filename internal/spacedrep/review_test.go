package spacedrep

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNextReview_FirstStrongRecall(t *testing.T) {
	interval, ease, next := NextReview(5, 0, 2.5, testNow)
	if interval != 1 {
		t.Errorf("got interval %d, want 1", interval)
	}
	if math.Abs(ease-2.6) > 1e-9 {
		t.Errorf("got ease %f, want 2.6", ease)
	}
	if want := testNow.AddDate(0, 0, 1); !next.Equal(want) {
		t.Errorf("got next review %v, want %v", next, want)
	}
}

func TestNextReview_SecondStrongRecall(t *testing.T) {
	interval, _, _ := NextReview(4, 1, 2.5, testNow)
	if interval != 6 {
		t.Errorf("got interval %d, want 6", interval)
	}
}

func TestNextReview_MatureStrongRecall(t *testing.T) {
	interval, ease, next := NextReview(4, 7, 2.5, testNow)
	if interval != 18 { // round(7 * 2.5)
		t.Errorf("got interval %d, want 18", interval)
	}
	if math.Abs(ease-2.6) > 1e-9 {
		t.Errorf("got ease %f, want 2.6", ease)
	}
	if want := testNow.AddDate(0, 0, 18); !next.Equal(want) {
		t.Errorf("got next review %v, want %v", next, want)
	}
}

func TestNextReview_Difficult(t *testing.T) {
	tests := []struct {
		performance  int
		interval     int
		wantInterval int
	}{
		{3, 10, 8},
		{2, 10, 8},
		{3, 1, 1}, // round(0.8) -> 1 floor
		{2, 0, 1},
	}
	for _, tt := range tests {
		got, ease, _ := NextReview(tt.performance, tt.interval, 2.5, testNow)
		if got != tt.wantInterval {
			t.Errorf("NextReview(%d, %d): got interval %d, want %d",
				tt.performance, tt.interval, got, tt.wantInterval)
		}
		if math.Abs(ease-2.3) > 1e-9 {
			t.Errorf("NextReview(%d, %d): got ease %f, want 2.3",
				tt.performance, tt.interval, ease)
		}
	}
}

func TestNextReview_Failure(t *testing.T) {
	for _, perf := range []int{0, 1} {
		interval, ease, next := NextReview(perf, 7, 2.5, testNow)
		if interval != 1 {
			t.Errorf("performance %d: got interval %d, want 1", perf, interval)
		}
		if math.Abs(ease-2.2) > 1e-9 {
			t.Errorf("performance %d: got ease %f, want 2.2", perf, ease)
		}
		if want := testNow.AddDate(0, 0, 1); !next.Equal(want) {
			t.Errorf("performance %d: got next review %v, want %v", perf, next, want)
		}
	}
}

func TestNextReview_FailureResetsAnyInterval(t *testing.T) {
	for _, interval := range []int{0, 1, 6, 30, 365} {
		got, _, _ := NextReview(1, interval, 2.5, testNow)
		if got != 1 {
			t.Errorf("interval %d: got %d, want 1", interval, got)
		}
	}
}

func TestNextReview_EaseFloor(t *testing.T) {
	for perf := 0; perf <= 5; perf++ {
		for _, ease := range []float64{1.3, 1.35, 1.5, 2.5} {
			_, got, _ := NextReview(perf, 5, ease, testNow)
			if got < MinEaseFactor {
				t.Errorf("NextReview(%d, 5, %f): ease %f below floor", perf, ease, got)
			}
		}
	}
}

func TestNextReview_StrongRecallNeverShrinks(t *testing.T) {
	for perf := 4; perf <= 5; perf++ {
		for _, interval := range []int{1, 2, 7, 30} {
			got, ease, _ := NextReview(perf, interval, 2.5, testNow)
			if got < interval {
				t.Errorf("NextReview(%d, %d): interval shrank to %d", perf, interval, got)
			}
			if ease < 2.5 {
				t.Errorf("NextReview(%d, %d): ease decreased to %f", perf, interval, ease)
			}
		}
	}
}

func TestNextReview_ClampsOutOfRangePerformance(t *testing.T) {
	interval, _, _ := NextReview(9, 7, 2.5, testNow)
	if interval != 18 {
		t.Errorf("performance 9: got interval %d, want 18 (clamped to 5)", interval)
	}
	interval, _, _ = NextReview(-3, 7, 2.5, testNow)
	if interval != 1 {
		t.Errorf("performance -3: got interval %d, want 1 (clamped to 0)", interval)
	}
}
