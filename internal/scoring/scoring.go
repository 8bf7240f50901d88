// Package scoring maps per-difficulty solve counts to a total score and
// provides the current-week time window used by stats and leaderboards.
package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // week boundaries need the IANA zone even on zoneless hosts

	"github.com/leetboard/leetboard/internal/domain"
)

// Weights holds the per-difficulty point values of a chat.
type Weights struct {
	Easy   int
	Medium int
	Hard   int
}

// Default is the weighting applied when a chat has no valid scoring string.
var Default = Weights{Easy: 1, Medium: 2, Hard: 5}

// String renders weights back to the stored "e,m,h" form.
func (w Weights) String() string {
	return fmt.Sprintf("%d,%d,%d", w.Easy, w.Medium, w.Hard)
}

// ParseWeights parses an "e,m,h" string into Weights. It errors on a wrong
// field count or a non-integer token.
func ParseWeights(s string) (Weights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Weights{}, fmt.Errorf("scoring: want 3 comma-separated integers, got %q", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Weights{}, fmt.Errorf("scoring: bad weight %q in %q", p, s)
		}
		vals[i] = n
	}
	return Weights{Easy: vals[0], Medium: vals[1], Hard: vals[2]}, nil
}

// ParseWeightsOrDefault parses a stored scoring string and falls back to
// Default on any parse failure. Scoring must never fail on malformed stored
// configuration.
func ParseWeightsOrDefault(s string) Weights {
	w, err := ParseWeights(s)
	if err != nil {
		return Default
	}
	return w
}

// Score totals per-difficulty counts under the given weights. Difficulties
// missing from the map count as zero.
func Score(counts map[string]int, w Weights) int {
	return counts[domain.DifficultyEasy]*w.Easy +
		counts[domain.DifficultyMedium]*w.Medium +
		counts[domain.DifficultyHard]*w.Hard
}

// weekZone is the fixed zone for week boundaries, matching the bot's
// original deployment. Chats carry a timezone column but the window is
// computed in this zone for everyone.
var weekZone = mustLoadZone("America/Chicago")

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// WeekWindow returns the current week's [start, end) bounds as UTC epoch
// seconds: Monday 00:00 local to the following Monday 00:00 local.
//
// The window is anchored to wall-clock midnight, so on the two weeks a DST
// transition lands inside the window its span is 167 or 169 hours rather
// than 168. Kept as-is for continuity with historical data.
func WeekWindow(now time.Time) (start, end int64) {
	local := now.In(weekZone)
	// Monday-based day index; time.Weekday has Sunday = 0.
	back := (int(local.Weekday()) + 6) % 7
	monday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, weekZone).
		AddDate(0, 0, -back)
	return monday.Unix(), monday.AddDate(0, 0, 7).Unix()
}
