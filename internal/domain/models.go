// Package domain defines the persistence models for tracked users, chats,
// memberships, problems, completions, and per-identity feed cursors. These
// types are mapped with GORM and form the core data layer of the bot.
package domain

import (
	"time"
)

// Difficulty values accepted for a problem. The upstream platform uses this
// closed set; anything else is rejected at the DB level.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// User is a tracked member: a Discord account linked to exactly one LeetCode
// handle. The handle is unique across users so a single LeetCode account can
// never be credited to two members.
//
// Fields:
//   - ID: Discord user ID (snowflake, stored as text).
//   - Username: Discord username snapshot at link time (display only).
//   - Handle: linked LeetCode username; unique, required.
//   - CreatedAt: link timestamp managed by GORM.
type User struct {
	ID        string    `json:"id"       gorm:"type:varchar(32);primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(64)"`
	Handle    string    `json:"handle"   gorm:"type:varchar(64);not null;uniqueIndex:ux_users_handle"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Chat is a Discord channel with a leaderboard. Per-chat settings control
// whether solves are announced and how difficulties are weighted.
type Chat struct {
	ID            string `json:"id"              gorm:"type:varchar(32);primaryKey"`
	Title         string `json:"title"           gorm:"type:varchar(255)"`
	Timezone      string `json:"timezone"        gorm:"type:varchar(64);not null;default:'America/Chicago'"`
	NotifyOnSolve bool   `json:"notify_on_solve" gorm:"not null;default:true"`
	Scoring       string `json:"scoring"         gorm:"type:varchar(32);not null;default:'1,2,5'"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// Membership links a user to a chat's leaderboard. Leaving removes only this
// relation; the user and their completions survive.
type Membership struct {
	ChatID    string    `json:"chat_id" gorm:"type:varchar(32);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(32);primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Membership.
func (Membership) TableName() string { return "memberships" }

// Problem caches metadata for a problem slug. Rows are immutable once
// inserted; the first resolved title/difficulty wins.
type Problem struct {
	Slug       string `json:"slug"       gorm:"type:varchar(128);primaryKey"`
	Title      string `json:"title"      gorm:"type:varchar(255);not null"`
	Difficulty string `json:"difficulty" gorm:"type:varchar(8);not null;check:difficulty IN ('Easy','Medium','Hard')"`
}

// TableName returns the database table name for Problem.
func (Problem) TableName() string { return "problems" }

// Completion records a first-time accepted solve. The (UserID, Slug) pair is
// unique: the ledger rejects a second credit for the same problem no matter
// how often the upstream feed re-reports it.
//
// SolvedAt is the upstream submission timestamp in UTC epoch seconds.
type Completion struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"   gorm:"type:varchar(32);not null;uniqueIndex:ux_completions_user_slug;index:idx_completions_user_time,priority:1"`
	Slug      string    `json:"slug"      gorm:"type:varchar(128);not null;uniqueIndex:ux_completions_user_slug"`
	SolvedAt  int64     `json:"solved_at" gorm:"not null;index:idx_completions_user_time,priority:2"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Problem Problem `json:"-" gorm:"belongsTo:Problem;foreignKey:Slug;references:Slug;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Completion.
func (Completion) TableName() string { return "completions" }

// Cursor is the per-handle watermark: the timestamp of the latest feed event
// already processed for that LeetCode handle. Absence means "nothing seen".
// It only ever moves forward.
type Cursor struct {
	Handle    string    `json:"handle"    gorm:"type:varchar(64);primaryKey"`
	LastSeen  int64     `json:"last_seen" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Cursor.
func (Cursor) TableName() string { return "cursors" }
