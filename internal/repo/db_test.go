package repo

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a temp-file SQLite database with the full schema and
// foreign keys on.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "x.db")); err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	var n int
	if err := db.Raw("SELECT COUNT(*) FROM cursors").Scan(&n).Error; err != nil {
		t.Fatalf("cursors table missing: %v", err)
	}
}

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{errors.New("UNIQUE constraint failed: completions.user_id, completions.slug"), true},
		{errors.New("duplicate key value violates unique constraint"), true},
		{errors.New("database is locked"), false},
	}
	for _, c := range cases {
		if got := IsDuplicate(c.err); got != c.want {
			t.Errorf("IsDuplicate(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
