package discord

import (
	"fmt"
	"strings"

	"github.com/leetboard/leetboard/internal/domain"
	"github.com/leetboard/leetboard/internal/scoring"
	"github.com/leetboard/leetboard/internal/services"
)

// FormatSolve renders a solve announcement for one chat.
func FormatSolve(name string, ev services.SolveEvent) string {
	return fmt.Sprintf("🎉 %s solved **%s** (*%s*).\nWeekly score: **%d** — E:%d M:%d H:%d",
		name, ev.Title, ev.Difficulty, ev.WeekScore,
		ev.WeekCounts[domain.DifficultyEasy],
		ev.WeekCounts[domain.DifficultyMedium],
		ev.WeekCounts[domain.DifficultyHard])
}

// FormatStats renders a member's lifetime and current-week counts.
func FormatStats(st *services.UserStats) string {
	return fmt.Sprintf("`%s`\nLifetime — E:%d M:%d H:%d\nThis week — E:%d M:%d H:%d",
		st.Handle,
		st.Lifetime[domain.DifficultyEasy],
		st.Lifetime[domain.DifficultyMedium],
		st.Lifetime[domain.DifficultyHard],
		st.Week[domain.DifficultyEasy],
		st.Week[domain.DifficultyMedium],
		st.Week[domain.DifficultyHard])
}

// FormatLeaderboard renders ranked weekly standings. names must be parallel
// to entries.
func FormatLeaderboard(entries []services.LeaderboardEntry, names []string, w scoring.Weights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 **This week's leaderboard** (E=%d, M=%d, H=%d)\n", w.Easy, w.Medium, w.Hard)
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s — **%d** (E:%d M:%d H:%d)\n",
			i+1, names[i], e.Total,
			e.Counts[domain.DifficultyEasy],
			e.Counts[domain.DifficultyMedium],
			e.Counts[domain.DifficultyHard])
	}
	return strings.TrimRight(b.String(), "\n")
}
