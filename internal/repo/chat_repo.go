// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for chats and
// chat memberships.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leetboard/leetboard/internal/domain"
)

// UpsertChat inserts a chat row with default settings or refreshes the title
// of an existing one. Settings survive the upsert.
func UpsertChat(ctx context.Context, db *gorm.DB, id, title string) error {
	c := &domain.Chat{
		ID:            id,
		Title:         title,
		Timezone:      "America/Chicago",
		NotifyOnSolve: true,
		Scoring:       "1,2,5",
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title"}),
	}).Create(c).Error
}

// GetChat fetches a chat by ID, or ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, id string) (*domain.Chat, error) {
	var c domain.Chat
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChats returns every known chat. The weekly report iterates this.
func ListChats(ctx context.Context, db *gorm.DB) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// SetNotifyOnSolve toggles solve announcements for a chat.
func SetNotifyOnSolve(ctx context.Context, db *gorm.DB, id string, on bool) error {
	res := db.WithContext(ctx).Model(&domain.Chat{}).Where("id = ?", id).Update("notify_on_solve", on)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetScoring stores a chat's "e,m,h" weights string. Validation happens in
// the service layer; malformed stored values fall back to defaults at read
// time, so this never needs to reject.
func SetScoring(ctx context.Context, db *gorm.DB, id, scoring string) error {
	res := db.WithContext(ctx).Model(&domain.Chat{}).Where("id = ?", id).Update("scoring", scoring)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// JoinChat adds a user to a chat's leaderboard. Joining twice is a no-op.
func JoinChat(ctx context.Context, db *gorm.DB, chatID, userID string) error {
	m := &domain.Membership{ChatID: chatID, UserID: userID, CreatedAt: time.Now().UTC()}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

// LeaveChat removes a user from a chat's leaderboard. Returns ErrNotFound
// when no such membership exists.
func LeaveChat(ctx context.Context, db *gorm.DB, chatID, userID string) error {
	res := db.WithContext(ctx).Delete(&domain.Membership{}, "chat_id = ? AND user_id = ?", chatID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUserChats returns the chats a user belongs to, with their settings.
// The poll engine fans a solve out to each of these.
func ListUserChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).Raw(`
		SELECT c.* FROM chats c
		JOIN memberships m ON m.chat_id = c.id
		WHERE m.user_id = ?
		ORDER BY c.id ASC`,
		userID,
	).Scan(&out).Error
	return out, err
}

// CountMemberships returns how many users belong to a chat.
func CountMemberships(ctx context.Context, db *gorm.DB, chatID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM memberships WHERE chat_id = ?", chatID).Scan(&total).Error
	return total, err
}
