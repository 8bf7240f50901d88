// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the problem metadata cache.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leetboard/leetboard/internal/domain"
)

// InsertProblemIfAbsent caches metadata for a slug. A row that already exists
// is left untouched, so a metadata fetch race between identities sharing a
// problem resolves to the first writer with no error for the loser.
func InsertProblemIfAbsent(ctx context.Context, db *gorm.DB, slug, title, difficulty string) error {
	p := &domain.Problem{Slug: slug, Title: title, Difficulty: difficulty}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error
}

// GetProblem fetches cached metadata by slug, or ErrNotFound.
func GetProblem(ctx context.Context, db *gorm.DB, slug string) (*domain.Problem, error) {
	var p domain.Problem
	if err := db.WithContext(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
