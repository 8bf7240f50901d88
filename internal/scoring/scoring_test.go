package scoring

import (
	"testing"
	"time"

	"github.com/leetboard/leetboard/internal/domain"
)

func TestParseWeights_Valid(t *testing.T) {
	w, err := ParseWeights("1,2,5")
	if err != nil {
		t.Fatalf("ParseWeights: %v", err)
	}
	if w != (Weights{Easy: 1, Medium: 2, Hard: 5}) {
		t.Fatalf("unexpected weights: %+v", w)
	}
	if w.String() != "1,2,5" {
		t.Fatalf("String() = %q", w.String())
	}
}

func TestParseWeights_Invalid(t *testing.T) {
	for _, s := range []string{"x", "1,2", "1,2,3,4", "1,b,3", ""} {
		if _, err := ParseWeights(s); err == nil {
			t.Errorf("ParseWeights(%q) should fail", s)
		}
	}
}

func TestParseWeightsOrDefault_FallsBack(t *testing.T) {
	if w := ParseWeightsOrDefault("x"); w != Default {
		t.Fatalf("malformed string should fall back to default, got %+v", w)
	}
	if w := ParseWeightsOrDefault("3, 4, 5"); w != (Weights{Easy: 3, Medium: 4, Hard: 5}) {
		t.Fatalf("spaces should be tolerated, got %+v", w)
	}
}

func TestScore(t *testing.T) {
	counts := map[string]int{domain.DifficultyEasy: 2, domain.DifficultyMedium: 1, domain.DifficultyHard: 0}
	if got := Score(counts, Weights{Easy: 1, Medium: 2, Hard: 5}); got != 4 {
		t.Fatalf("Score = %d, want 4", got)
	}
	// Missing keys count as zero.
	if got := Score(map[string]int{domain.DifficultyHard: 3}, Default); got != 15 {
		t.Fatalf("Score = %d, want 15", got)
	}
	if got := Score(nil, Default); got != 0 {
		t.Fatalf("Score(nil) = %d, want 0", got)
	}
}

func TestWeekWindow_MondayToMonday(t *testing.T) {
	// A plain mid-week instant, far from any DST transition.
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) // Wednesday
	start, end := WeekWindow(now)

	if now.Unix() < start || now.Unix() >= end {
		t.Fatalf("now outside its own week: start=%d now=%d end=%d", start, now.Unix(), end)
	}
	startLocal := time.Unix(start, 0).In(weekZone)
	if startLocal.Weekday() != time.Monday {
		t.Fatalf("window starts on %v, want Monday", startLocal.Weekday())
	}
	if startLocal.Hour() != 0 || startLocal.Minute() != 0 || startLocal.Second() != 0 {
		t.Fatalf("window start not at local midnight: %v", startLocal)
	}
	if end-start != int64(7*24*time.Hour/time.Second) {
		t.Fatalf("mid-June window should span 168h, got %ds", end-start)
	}

	want := time.Date(2025, 6, 16, 0, 0, 0, 0, weekZone).Unix()
	if start != want {
		t.Fatalf("start = %d, want %d (Mon Jun 16 00:00 Chicago)", start, want)
	}
}

func TestWeekWindow_MondayIsItsOwnWeekStart(t *testing.T) {
	// Exactly Monday 00:00 local: the window starts at that same instant.
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, weekZone)
	start, _ := WeekWindow(monday)
	if start != monday.Unix() {
		t.Fatalf("start = %d, want %d", start, monday.Unix())
	}
}

func TestWeekWindow_DSTWeekIsShorter(t *testing.T) {
	// The US spring-forward (2025-03-09) falls inside the week of Mar 3.
	// The wall-clock-anchored window spans 167 hours then. Documented
	// behavior, kept for continuity.
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, weekZone)
	start, end := WeekWindow(now)
	if got := end - start; got != int64(167*time.Hour/time.Second) {
		t.Fatalf("DST week spans %ds, want 167h", got)
	}
}
