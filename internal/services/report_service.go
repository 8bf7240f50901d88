// Package services – ReportService
//
// The weekly leaderboard job. Runs on a calendar schedule, reads the same
// stores as the poll cycle (read-only), and posts one ranked message per
// chat. Delivery failures are logged and skipped; a chat that cannot be
// reached never blocks the others.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/leetboard/leetboard/internal/domain"
	"github.com/leetboard/leetboard/internal/repo"
)

// Messenger is the chat transport surface the report job needs. Implemented
// by the Discord bot.
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text string) error
	DisplayName(chatID, userID string) string
}

// ReportService posts weekly leaderboards.
type ReportService struct {
	DB        *gorm.DB
	Stats     *StatsService
	Messenger Messenger
	Log       zerolog.Logger
}

// WeeklyLeaderboards posts the current week's standings to every chat that
// has any. Chats with no solves this week stay quiet.
func (s *ReportService) WeeklyLeaderboards(ctx context.Context) error {
	chats, err := repo.ListChats(ctx, s.DB)
	if err != nil {
		return err
	}
	for _, chat := range chats {
		entries, weights, err := s.Stats.Leaderboard(ctx, chat.ID)
		if err != nil {
			s.Log.Warn().Err(err).Str("chat", chat.ID).Msg("weekly leaderboard query failed")
			continue
		}
		if len(entries) == 0 {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "🏆 **Weekly leaderboard** (E=%d, M=%d, H=%d)\n", weights.Easy, weights.Medium, weights.Hard)
		for rank, e := range entries {
			name := s.Messenger.DisplayName(chat.ID, e.UserID)
			fmt.Fprintf(&b, "%d. %s — **%d**  (E:%d M:%d H:%d)\n",
				rank+1, name, e.Total,
				e.Counts[domain.DifficultyEasy],
				e.Counts[domain.DifficultyMedium],
				e.Counts[domain.DifficultyHard])
		}
		if err := s.Messenger.SendMessage(ctx, chat.ID, b.String()); err != nil {
			s.Log.Warn().Err(err).Str("chat", chat.ID).Msg("weekly leaderboard delivery failed")
		}
	}
	return nil
}
