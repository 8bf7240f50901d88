// Package services defines the business logic for identity tracking, solve
// polling, stats, and weekly reports. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; the
// Discord command layer translates them into user-facing replies.
package services

import "errors"

var (
	// ErrNotLinked indicates the user has not linked a LeetCode handle yet.
	ErrNotLinked = errors.New("no linked leetcode handle")

	// ErrHandleTaken is returned when a LeetCode handle is already linked to
	// a different user. One external account credits at most one member.
	ErrHandleTaken = errors.New("leetcode handle already linked to another user")

	// ErrChatNotFound indicates the chat has no leaderboard yet.
	ErrChatNotFound = errors.New("chat not found")

	// ErrNotMember is returned when leaving a chat the user never joined.
	ErrNotMember = errors.New("not a member of this chat")

	// ErrInvalidWeights is returned when a /weights argument is not three
	// comma-separated integers. Stored values are never validated on read;
	// malformed rows fall back to the default weighting.
	ErrInvalidWeights = errors.New("weights must be three comma-separated integers")
)
