package domain

import (
	"time"

	"github.com/waxbound/gamenight/internal/modules/gamemode"

	"github.com/google/uuid"
)

// ScoreEntry is the ledger's atomic fact: team X scored Y points on call
// Z in session S. (session, team, call) is unique; re-submitting a score
// overwrites the row, so a host correction never duplicates points.
type ScoreEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	TeamID    uuid.UUID `db:"team_id" json:"team_id"`
	CallID    uuid.UUID `db:"call_id" json:"call_id"`

	AwardedPoints int  `db:"awarded_points" json:"awarded_points"`
	ExactMatch    bool `db:"exact_match" json:"exact_match"`
	CloseMatch    bool `db:"close_match" json:"close_match"`
	BonusAwarded  bool `db:"bonus_awarded" json:"bonus_awarded"`

	Notes    string    `db:"notes" json:"notes"`
	ScoredBy string    `db:"scored_by" json:"scored_by"`
	ScoredAt time.Time `db:"scored_at" json:"scored_at"`
}

func (e ScoreEntry) Flags() gamemode.Flags {
	return gamemode.Flags{
		Exact: e.ExactMatch,
		Close: e.CloseMatch,
		Bonus: e.BonusAwarded,
	}
}
