package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/leetboard/leetboard/internal/domain"
)

func TestUpsertUser_InsertThenRelink(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := UpsertUser(ctx, db, "u1", "alice", "alice_lc"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := UpsertUser(ctx, db, "u1", "alice2", "alice_new"); err != nil {
		t.Fatalf("relink: %v", err)
	}

	u, err := GetUser(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Username != "alice2" || u.Handle != "alice_new" {
		t.Fatalf("upsert did not update fields: %+v", u)
	}
	var n int64
	if err := db.Model(&domain.User{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("user rows = %d (err %v), want 1", n, err)
	}
}

func TestUpsertUser_HandleUniqueAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := UpsertUser(ctx, db, "u1", "alice", "shared"); err != nil {
		t.Fatalf("insert u1: %v", err)
	}
	_, err := UpsertUser(ctx, db, "u2", "bob", "shared")
	if err == nil {
		t.Fatalf("expected unique violation linking the same handle twice")
	}
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate-class error, got %v", err)
	}
}

func TestGetUserByHandle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "alice")

	u, err := GetUserByHandle(ctx, db, "alice")
	if err != nil || u.ID != "u1" {
		t.Fatalf("GetUserByHandle: u=%+v err=%v", u, err)
	}
	if _, err := GetUserByHandle(ctx, db, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser_CascadesMembershipsAndCompletions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "alice")
	seedProblem(t, db, "e1", "E1", domain.DifficultyEasy)
	seedChat(t, db, "c1")
	if err := JoinChat(ctx, db, "c1", "u1"); err != nil {
		t.Fatalf("JoinChat: %v", err)
	}
	mustInsert(t, db, "u1", "e1", 100)

	if err := DeleteUser(ctx, db, "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	var memberships, completions int64
	db.Model(&domain.Membership{}).Count(&memberships)
	db.Model(&domain.Completion{}).Count(&completions)
	if memberships != 0 || completions != 0 {
		t.Fatalf("cascade left memberships=%d completions=%d", memberships, completions)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	db := newTestDB(t)
	if err := DeleteUser(context.Background(), db, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers_OrderedSnapshot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")

	users, err := ListUsers(ctx, db)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
