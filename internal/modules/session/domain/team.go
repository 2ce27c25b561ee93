package domain

import "github.com/google/uuid"

// Team is a participant unit within one session. Deactivating a team
// hides it from the leaderboard without touching its ledger history.
type Team struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SessionID  uuid.UUID `db:"session_id" json:"session_id"`
	Name       string    `db:"name" json:"name"`
	TableLabel string    `db:"table_label" json:"table_label"`
	Active     bool      `db:"active" json:"active"`
}
