// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model
// (tracked identities).
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound.
//   - A handle collision (two Discord users linking the same LeetCode
//     account) surfaces as a unique-constraint error; use IsDuplicate.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leetboard/leetboard/internal/domain"
)

// UpsertUser inserts a user row or, if the Discord ID already exists, updates
// the username snapshot and linked handle. The handle uniqueness constraint
// still applies to the updated value.
func UpsertUser(ctx context.Context, db *gorm.DB, id, username, handle string) (*domain.User, error) {
	u := &domain.User{
		ID:        id,
		Username:  username,
		Handle:    handle,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "handle"}),
	}).Create(u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by Discord ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByHandle fetches the user linked to a LeetCode handle, or ErrNotFound.
func GetUserByHandle(ctx context.Context, db *gorm.DB, handle string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "handle = ?", handle).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every tracked identity, ordered by link time ascending.
// The poll engine snapshots this at cycle start.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

// DeleteUser removes a user row. Memberships and completions cascade at the
// DB level; the caller is responsible for the handle's cursor row.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
