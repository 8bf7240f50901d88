// Package services – StatsService
//
// Read-side aggregation: lifetime and current-week per-difficulty counts for
// one user, and the ranked weekly leaderboard for a chat. These queries run
// against the same stores the poll engine writes; every call is a single
// read transaction so a concurrent cycle can never expose a torn row.
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/leetboard/leetboard/internal/domain"
	"github.com/leetboard/leetboard/internal/repo"
	"github.com/leetboard/leetboard/internal/scoring"
)

// UserStats bundles a member's lifetime and current-week counts.
type UserStats struct {
	Handle   string
	Lifetime map[string]int
	Week     map[string]int
}

// LeaderboardEntry is one ranked row of a chat's weekly leaderboard.
type LeaderboardEntry struct {
	UserID string
	Total  int
	Counts map[string]int
}

// StatsService implements the read-side use-cases.
type StatsService struct {
	DB *gorm.DB

	// Now is the clock for "current week". Defaults to time.Now.
	Now func() time.Time
}

func (s *StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Stats returns lifetime and current-week counts for userID, or ErrNotLinked
// when the user is unknown.
func (s *StatsService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotLinked
	}
	if err != nil {
		return nil, err
	}
	lifetime, err := repo.LifetimeCounts(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	start, end := scoring.WeekWindow(s.now())
	week, err := repo.WindowCounts(ctx, s.DB, userID, start, end)
	if err != nil {
		return nil, err
	}
	return &UserStats{Handle: u.Handle, Lifetime: lifetime, Week: week}, nil
}

// Leaderboard returns the chat's ranked current-week standings, highest score
// first, ties broken by Hard then Medium count. Returns ErrChatNotFound for
// unknown chats and an empty slice for quiet weeks.
func (s *StatsService) Leaderboard(ctx context.Context, chatID string) ([]LeaderboardEntry, scoring.Weights, error) {
	chat, err := repo.GetChat(ctx, s.DB, chatID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, scoring.Weights{}, ErrChatNotFound
	}
	if err != nil {
		return nil, scoring.Weights{}, err
	}
	weights := scoring.ParseWeightsOrDefault(chat.Scoring)

	start, end := scoring.WeekWindow(s.now())
	rows, err := repo.ChatWindowCounts(ctx, s.DB, chatID, start, end)
	if err != nil {
		return nil, weights, err
	}

	byUser := make(map[string]map[string]int)
	for _, r := range rows {
		counts, ok := byUser[r.UserID]
		if !ok {
			counts = make(map[string]int, 3)
			byUser[r.UserID] = counts
		}
		counts[r.Difficulty] = r.N
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for userID, counts := range byUser {
		entries = append(entries, LeaderboardEntry{
			UserID: userID,
			Total:  scoring.Score(counts, weights),
			Counts: counts,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Counts[domain.DifficultyHard] != b.Counts[domain.DifficultyHard] {
			return a.Counts[domain.DifficultyHard] > b.Counts[domain.DifficultyHard]
		}
		if a.Counts[domain.DifficultyMedium] != b.Counts[domain.DifficultyMedium] {
			return a.Counts[domain.DifficultyMedium] > b.Counts[domain.DifficultyMedium]
		}
		return a.UserID < b.UserID
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}
	return entries, weights, nil
}
