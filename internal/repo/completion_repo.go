// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the completion ledger: the authoritative
// record of first-time solves, and the aggregate count queries built on it.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leetboard/leetboard/internal/domain"
)

// InsertCompletion attempts to credit (userID, slug) at solvedAt. It returns
// (true, nil) when a new row was written and (false, nil) when the pair was
// already credited. The UNIQUE(user_id, slug) constraint is the dedup gate;
// no pre-check is done here.
func InsertCompletion(ctx context.Context, db *gorm.DB, userID, slug string, solvedAt int64) (bool, error) {
	c := &domain.Completion{
		ID:        uuid.NewString(),
		UserID:    userID,
		Slug:      slug,
		SolvedAt:  solvedAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if IsDuplicate(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// difficultyRow is the scan target for grouped count queries.
type difficultyRow struct {
	Difficulty string
	N          int
}

// LifetimeCounts returns a user's per-difficulty completion counts over all
// time. Difficulties with no completions are absent from the map.
func LifetimeCounts(ctx context.Context, db *gorm.DB, userID string) (map[string]int, error) {
	var rows []difficultyRow
	err := db.WithContext(ctx).Raw(`
		SELECT p.difficulty AS difficulty, COUNT(*) AS n
		FROM completions co
		JOIN problems p ON p.slug = co.slug
		WHERE co.user_id = ?
		GROUP BY p.difficulty`,
		userID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCounts(rows), nil
}

// WindowCounts returns a user's per-difficulty completion counts for solves
// with start <= solved_at < end.
func WindowCounts(ctx context.Context, db *gorm.DB, userID string, start, end int64) (map[string]int, error) {
	var rows []difficultyRow
	err := db.WithContext(ctx).Raw(`
		SELECT p.difficulty AS difficulty, COUNT(*) AS n
		FROM completions co
		JOIN problems p ON p.slug = co.slug
		WHERE co.user_id = ? AND co.solved_at >= ? AND co.solved_at < ?
		GROUP BY p.difficulty`,
		userID, start, end,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCounts(rows), nil
}

// MemberCount is one (user, difficulty) bucket of a chat-scoped count query.
type MemberCount struct {
	UserID     string
	Difficulty string
	N          int
}

// ChatWindowCounts returns per-member per-difficulty completion counts for a
// chat, restricted to solves with start <= solved_at < end. Only members of
// the chat contribute rows.
func ChatWindowCounts(ctx context.Context, db *gorm.DB, chatID string, start, end int64) ([]MemberCount, error) {
	var rows []MemberCount
	err := db.WithContext(ctx).Raw(`
		SELECT co.user_id AS user_id, p.difficulty AS difficulty, COUNT(*) AS n
		FROM completions co
		JOIN problems p ON p.slug = co.slug
		JOIN memberships m ON m.user_id = co.user_id
		WHERE m.chat_id = ? AND co.solved_at >= ? AND co.solved_at < ?
		GROUP BY co.user_id, p.difficulty`,
		chatID, start, end,
	).Scan(&rows).Error
	return rows, err
}

func toCounts(rows []difficultyRow) map[string]int {
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Difficulty] = r.N
	}
	return out
}
