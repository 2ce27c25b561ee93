package domain

import (
	"time"

	"github.com/waxbound/gamenight/internal/modules/gamemode"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Session is one live run of one game mode. Position and status are
// owned by the state machine below; handlers persist whatever these
// methods decide.
type Session struct {
	ID      uuid.UUID  `db:"id" json:"id"`
	EventID *uuid.UUID `db:"event_id" json:"event_id,omitempty"`
	Mode    string     `db:"mode" json:"mode"`
	Title   string     `db:"title" json:"title"`

	RoundCount       int    `db:"round_count" json:"round_count"`
	CurrentRound     int    `db:"current_round" json:"current_round"`
	CurrentCallIndex int    `db:"current_call_index" json:"current_call_index"`
	Status           Status `db:"status" json:"status"`

	ShowTimer       bool `db:"show_timer" json:"show_timer"`
	ShowLeaderboard bool `db:"show_leaderboard" json:"show_leaderboard"`

	ExactPoints int `db:"exact_points" json:"exact_points"`
	ClosePoints int `db:"close_points" json:"close_points"`
	BonusPoints int `db:"bonus_points" json:"bonus_points"`
	MaxPoints   int `db:"max_points" json:"max_points"`

	TargetGapSeconds       int        `db:"target_gap_seconds" json:"target_gap_seconds"`
	CountdownStartedAt     *time.Time `db:"countdown_started_at" json:"countdown_started_at,omitempty"`
	PausedAt               *time.Time `db:"paused_at" json:"paused_at,omitempty"`
	PausedRemainingSeconds *int       `db:"paused_remaining_seconds" json:"paused_remaining_seconds,omitempty"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	StartedAt *time.Time `db:"started_at" json:"started_at,omitempty"`
	EndedAt   *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// Scoring returns the session's effective point values. They are seeded
// from the mode policy at creation and host-overridable afterwards, so
// scoring math reads them from the session, not the registry.
func (s *Session) Scoring() gamemode.Points {
	return gamemode.Points{
		Exact: s.ExactPoints,
		Close: s.ClosePoints,
		Bonus: s.BonusPoints,
		Max:   s.MaxPoints,
	}
}

// Start opens the first call of the deck.
func (s *Session) Start(first *Call, now time.Time) error {
	if s.CurrentCallIndex > 0 || s.Status != StatusPending {
		return ErrAlreadyStarted
	}

	if first == nil {
		return ErrEmptyDeck
	}

	if s.StartedAt == nil {
		s.StartedAt = &now
	}

	s.openCall(first, now)
	return nil
}

// AdvanceTo moves the session onto next, or completes it when next is
// nil (deck exhausted). Advancing a completed session is a conflict, not
// a no-op: the host must not be able to double-end an event.
func (s *Session) AdvanceTo(next *Call, now time.Time) (completed bool, err error) {
	if s.Status == StatusCompleted {
		return false, ErrSessionCompleted
	}

	if next == nil {
		s.Complete(now)
		return true, nil
	}

	s.openCall(next, now)
	return false, nil
}

// Pause freezes the countdown. The remaining seconds are snapshotted so
// displays keep showing the frozen value regardless of wall time.
func (s *Session) Pause(now time.Time) error {
	if s.Status != StatusRunning {
		return ErrNotRunning
	}

	remaining := RemainingSeconds(s, now)
	s.PausedRemainingSeconds = &remaining
	s.PausedAt = &now
	s.Status = StatusPaused
	return nil
}

// Resume restores a live countdown consistent with the frozen snapshot:
// the clock is backdated so that elapsed time equals gap minus snapshot.
func (s *Session) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return ErrNotPaused
	}

	remaining := s.TargetGapSeconds
	if s.PausedRemainingSeconds != nil {
		remaining = *s.PausedRemainingSeconds
	}

	startedAt := now.Add(-time.Duration(s.TargetGapSeconds-remaining) * time.Second)
	s.CountdownStartedAt = &startedAt
	s.PausedAt = nil
	s.PausedRemainingSeconds = nil
	s.Status = StatusRunning
	return nil
}

// Complete ends the session. Terminal: no position or ledger mutation is
// valid afterwards.
func (s *Session) Complete(now time.Time) {
	if s.Status == StatusCompleted {
		return
	}

	s.Status = StatusCompleted
	s.EndedAt = &now
}

func (s *Session) openCall(call *Call, now time.Time) {
	s.CurrentCallIndex = call.CallIndex
	s.CurrentRound = s.clampRound(call.RoundNumber)
	s.Status = StatusRunning

	s.CountdownStartedAt = &now
	s.PausedAt = nil
	s.PausedRemainingSeconds = nil

	call.Open(now)
}

// clampRound forces a call's round into [1, round_count]. Decks entered
// out of band can disagree with the configured round count; we favor
// availability over failing the advance.
// TODO: revisit whether deck generation can still produce the mismatch.
func (s *Session) clampRound(round int) int {
	if round < 1 {
		return 1
	}
	if s.RoundCount > 0 && round > s.RoundCount {
		return s.RoundCount
	}
	return round
}
