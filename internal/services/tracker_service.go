// Package services – TrackerService
//
// This file implements the TrackerService, which owns the write-side chat
// commands: linking and unlinking a LeetCode handle, joining and leaving a
// chat's leaderboard, and per-chat settings. Service-level sentinel errors
// (ErrNotLinked, ErrHandleTaken, ErrChatNotFound, ErrNotMember,
// ErrInvalidWeights) are returned for predictable cases so the command layer
// can map them to replies consistently.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/leetboard/leetboard/internal/domain"
	"github.com/leetboard/leetboard/internal/repo"
	"github.com/leetboard/leetboard/internal/scoring"
)

// TrackerService implements the use-cases around tracked identities and
// chat membership. Safe for concurrent use; every call is one transaction.
type TrackerService struct {
	// DB is the database handle used for all tracker operations.
	DB *gorm.DB

	// Now is the clock used for the link-time cursor. Defaults to time.Now.
	Now func() time.Time
}

func (s *TrackerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Link associates userID with a LeetCode handle and starts tracking it.
//
// Semantics:
//   - The handle's cursor is set to "now" so pre-existing history is never
//     backfilled; only solves after the link are credited.
//   - Re-linking to a new handle replaces the old one and drops the old
//     handle's cursor.
//   - A handle linked to a different user yields ErrHandleTaken.
func (s *TrackerService) Link(ctx context.Context, userID, username, handle string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := repo.GetUser(ctx, tx, userID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		if _, err := repo.UpsertUser(ctx, tx, userID, username, handle); err != nil {
			if repo.IsDuplicate(err) {
				return ErrHandleTaken
			}
			return err
		}
		if prev != nil && prev.Handle != handle {
			if err := repo.DeleteCursor(ctx, tx, prev.Handle); err != nil {
				return err
			}
		}
		// Suppress backfill: anything at or before the link instant is old.
		return repo.AdvanceCursor(ctx, tx, handle, s.now().Unix())
	})
}

// Unlink stops tracking userID and removes their data: the user row, and by
// FK cascade their memberships and completions; the cursor is removed in the
// same transaction. Returns ErrNotLinked for unknown users.
func (s *TrackerService) Unlink(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := repo.GetUser(ctx, tx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotLinked
		}
		if err != nil {
			return err
		}
		if err := repo.DeleteCursor(ctx, tx, u.Handle); err != nil {
			return err
		}
		return repo.DeleteUser(ctx, tx, userID)
	})
}

// JoinChat enters userID into chatID's leaderboard, creating the chat row on
// first sight. The user must be linked first (ErrNotLinked otherwise).
func (s *TrackerService) JoinChat(ctx context.Context, chatID, chatTitle, userID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetUser(ctx, tx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotLinked
			}
			return err
		}
		if err := repo.UpsertChat(ctx, tx, chatID, chatTitle); err != nil {
			return err
		}
		return repo.JoinChat(ctx, tx, chatID, userID)
	})
}

// LeaveChat removes userID from chatID's leaderboard. The user row and their
// completions are untouched.
func (s *TrackerService) LeaveChat(ctx context.Context, chatID, userID string) error {
	err := repo.LeaveChat(ctx, s.DB, chatID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotMember
	}
	return err
}

// SetNotify toggles solve announcements for a chat, creating the chat row on
// first sight.
func (s *TrackerService) SetNotify(ctx context.Context, chatID, chatTitle string, on bool) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpsertChat(ctx, tx, chatID, chatTitle); err != nil {
			return err
		}
		return repo.SetNotifyOnSolve(ctx, tx, chatID, on)
	})
}

// SetWeights stores a chat's scoring weights. The input must parse as
// "e,m,h"; ErrInvalidWeights otherwise.
func (s *TrackerService) SetWeights(ctx context.Context, chatID, chatTitle, weights string) error {
	if _, err := scoring.ParseWeights(weights); err != nil {
		return ErrInvalidWeights
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpsertChat(ctx, tx, chatID, chatTitle); err != nil {
			return err
		}
		return repo.SetScoring(ctx, tx, chatID, weights)
	})
}

// Linked returns the user's tracked identity, or ErrNotLinked.
func (s *TrackerService) Linked(ctx context.Context, userID string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotLinked
	}
	return u, err
}
