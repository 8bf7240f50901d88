// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the per-handle feed cursor.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/leetboard/leetboard/internal/domain"
)

// LastSeen returns the cursor for a handle, or 0 when none exists yet.
func LastSeen(ctx context.Context, db *gorm.DB, handle string) (int64, error) {
	var c domain.Cursor
	err := db.WithContext(ctx).First(&c, "handle = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.LastSeen, nil
}

// AdvanceCursor moves a handle's cursor forward to ts. The statement is a
// single conditional upsert: an existing cursor is only updated when ts is
// greater, so the cursor never moves backward.
func AdvanceCursor(ctx context.Context, db *gorm.DB, handle string, ts int64) error {
	return db.WithContext(ctx).Exec(`
		INSERT INTO cursors (handle, last_seen, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(handle) DO UPDATE SET
		  last_seen  = excluded.last_seen,
		  updated_at = excluded.updated_at
		WHERE excluded.last_seen > cursors.last_seen`,
		handle, ts, time.Now().UTC(),
	).Error
}

// DeleteCursor removes a handle's cursor. Missing rows are not an error;
// unlink calls this unconditionally.
func DeleteCursor(ctx context.Context, db *gorm.DB, handle string) error {
	return db.WithContext(ctx).Delete(&domain.Cursor{}, "handle = ?", handle).Error
}
