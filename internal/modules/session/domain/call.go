package domain

import (
	"time"

	"github.com/google/uuid"
)

type CallStatus string

const (
	CallPending  CallStatus = "pending"
	CallAsked    CallStatus = "asked"
	CallRevealed CallStatus = "revealed"
	CallScored   CallStatus = "scored"
	CallSkipped  CallStatus = "skipped"
)

// Call is one playable unit of a session: a trivia question, a bingo
// pull, a needle drop, a bracket matchup. Calls are bulk-created at deck
// generation and never deleted; only status and timestamps move.
type Call struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`

	RoundNumber int `db:"round_number" json:"round_number"`
	CallIndex   int `db:"call_index" json:"call_index"`
	Position    int `db:"position" json:"position"`

	TrackID    *uuid.UUID `db:"track_id" json:"track_id,omitempty"`
	Title      string     `db:"title" json:"title"`
	Artist     string     `db:"artist" json:"artist"`
	Prompt     string     `db:"prompt" json:"prompt"`
	Answer     string     `db:"answer" json:"answer"`
	Alternates string     `db:"alternates" json:"alternates"`

	Status     CallStatus `db:"status" json:"status"`
	AskedAt    *time.Time `db:"asked_at" json:"asked_at,omitempty"`
	RevealedAt *time.Time `db:"revealed_at" json:"revealed_at,omitempty"`
	ScoredAt   *time.Time `db:"scored_at" json:"scored_at,omitempty"`
}

// Open marks the call asked. Re-opening an already-asked call (host
// navigating back after a resume) keeps the original asked_at.
func (c *Call) Open(now time.Time) {
	if c.Status == CallPending {
		c.Status = CallAsked
		c.AskedAt = &now
	}
}

// MarkScored is valid for any call that has been asked: an unseen call
// cannot be scored, but a scored or skipped one can, so host corrections
// always have a path back to the ledger.
func (c *Call) MarkScored(now time.Time) error {
	if c.Status == CallPending {
		return ErrCallNotAsked
	}

	c.Status = CallScored
	c.ScoredAt = &now
	if c.RevealedAt == nil {
		c.RevealedAt = &now
	}
	return nil
}

// MarkSkipped records that the host moved past the call without scoring.
// A settled call cannot be skipped: relabeling a scored call would leave
// ledger rows on a call the audit trail claims was passed over.
func (c *Call) MarkSkipped() error {
	if c.Settled() {
		return ErrCallSettled
	}

	if c.Status == CallPending {
		return ErrCallNotAsked
	}

	c.Status = CallSkipped
	return nil
}

// Settled reports whether the call needs no further host action. Round
// closure is derived by scanning for unsettled calls, never counted.
func (c *Call) Settled() bool {
	return c.Status == CallScored || c.Status == CallSkipped
}
