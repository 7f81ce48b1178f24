package queue

import "errors"

// Guard failures. These reject the attempt before any state mutation;
// the router turns them into replies visible only to the actor.
var (
	ErrSummaryTooShort  = errors.New("issue summary too short")
	ErrAttemptsTooShort = errors.New("attempt description too short")
	ErrNotStaff         = errors.New("actor lacks a staff role")
	ErrNoEntry          = errors.New("no tracked help request for ticket")
	ErrNotPending       = errors.New("help request is no longer pending")
	ErrAlreadyClosed    = errors.New("help request already closed")
)
