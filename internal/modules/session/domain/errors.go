package domain

import "errors"

// State-conflict errors. The delivery layer maps these to 409 so hosts
// can tell a stale console apart from bad input.
var (
	ErrAlreadyStarted   = errors.New("session already started")
	ErrEmptyDeck        = errors.New("session deck has no calls")
	ErrSessionCompleted = errors.New("session already completed")
	ErrNotRunning       = errors.New("session is not running")
	ErrNotPaused        = errors.New("session is not paused")
	ErrNoOpenCall       = errors.New("no call is currently open")
	ErrCallNotAsked     = errors.New("call has not been asked yet")
	ErrCallSettled      = errors.New("call already settled")
	ErrCallNotInSession = errors.New("call does not belong to session")
	ErrDeckCommitted    = errors.New("deck already generated for session")
)
