package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/gamemode"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

// Award is one team's result on one call. AwardedPoints overrides the
// policy's derived value when present; either way the stored value is
// clamped to the session's maximum.
type Award struct {
	TeamID        uuid.UUID `json:"team_id"`
	ExactMatch    bool      `json:"exact_match"`
	CloseMatch    bool      `json:"close_match"`
	BonusAwarded  bool      `json:"bonus_awarded"`
	AwardedPoints *int      `json:"awarded_points,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

type RecordScoresCommand struct {
	SessionID uuid.UUID `json:"-"`
	CallID    uuid.UUID `json:"call_id"`
	Awards    []Award   `json:"awards"`
	ScoredBy  string    `json:"scored_by,omitempty"`
}

func (c RecordScoresCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.CallID == uuid.Nil {
		return fmt.Errorf("invalid CallID - '%s'", c.CallID)
	}

	if len(c.Awards) == 0 {
		return fmt.Errorf("at least one award is required")
	}

	for _, award := range c.Awards {
		if award.TeamID == uuid.Nil {
			return fmt.Errorf("invalid TeamID - '%s'", award.TeamID)
		}
	}

	return nil
}

type RecordScoresResponse struct {
	CallStatus       domain.CallStatus `json:"call_status"`
	RoundClosed      bool              `json:"round_closed"`
	SessionCompleted bool              `json:"session_completed"`
}

func HandleRecordScores(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command, err := core.RequestBody[RecordScoresCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.SessionID = sessionID

	response, err := mediator.Send[RecordScoresCommand, RecordScoresResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type RecordScoresCommandHandler struct {
	db  *sql.DB
	now Clock
}

func NewRecordScoresCommandHandler(db *sql.DB, now Clock) *RecordScoresCommandHandler {
	return &RecordScoresCommandHandler{db, now}
}

// Handle upserts one ledger entry per award, keyed on (session, team,
// call). The batch is all-or-nothing: one award naming a team outside
// the session rejects the whole submission, so a call can never end up
// half scored.
func (h *RecordScoresCommandHandler) Handle(
	ctx context.Context,
	request RecordScoresCommand,
) (RecordScoresResponse, error) {
	var response RecordScoresResponse

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		session, err := lockSession(ctx, tx, request.SessionID)
		if err != nil {
			return err
		}

		if session.Status == domain.StatusCompleted {
			return conflictOf(domain.ErrSessionCompleted)
		}

		call, err := callByID(ctx, tx, request.CallID)
		if err != nil {
			return err
		}

		if call.SessionID != session.ID {
			return conflictOf(domain.ErrCallNotInSession)
		}

		validTeams, err := sessionTeamIDs(ctx, tx, session.ID)
		if err != nil {
			return err
		}

		for _, award := range request.Awards {
			if !validTeams[award.TeamID] {
				return core.NewCommandError(
					404,
					fmt.Errorf("team '%s' does not belong to session", award.TeamID),
					core.WithReason("team not found in session"),
				)
			}
		}

		now := h.now()
		policy, err := gamemode.ForMode(gamemode.Mode(session.Mode))
		if err != nil {
			return core.NewCommandError(500, err)
		}
		policy = policy.WithPoints(session.Scoring())

		const upsert = `
			INSERT INTO
				score_entry (
					id, session_id, team_id, call_id, awarded_points,
					exact_match, close_match, bonus_awarded, notes, scored_by, scored_at
				)
			VALUES
				(
					:id, :session_id, :team_id, :call_id, :awarded_points,
					:exact_match, :close_match, :bonus_awarded, :notes, :scored_by, :scored_at
				)
			ON CONFLICT (session_id, team_id, call_id)
			DO UPDATE SET
				awarded_points = EXCLUDED.awarded_points,
				exact_match = EXCLUDED.exact_match,
				close_match = EXCLUDED.close_match,
				bonus_awarded = EXCLUDED.bonus_awarded,
				notes = EXCLUDED.notes,
				scored_by = EXCLUDED.scored_by,
				scored_at = EXCLUDED.scored_at;`

		for _, award := range request.Awards {
			flags := gamemode.Flags{
				Exact: award.ExactMatch,
				Close: award.CloseMatch,
				Bonus: award.BonusAwarded,
			}

			points := policy.DefaultPoints(flags)
			if award.AwardedPoints != nil {
				points = policy.Clamp(*award.AwardedPoints)
			}

			entry := domain.ScoreEntry{
				ID:            uuid.New(),
				SessionID:     session.ID,
				TeamID:        award.TeamID,
				CallID:        call.ID,
				AwardedPoints: points,
				ExactMatch:    award.ExactMatch,
				CloseMatch:    award.CloseMatch,
				BonusAwarded:  award.BonusAwarded,
				Notes:         award.Notes,
				ScoredBy:      request.ScoredBy,
				ScoredAt:      now,
			}

			if _, err := tql.Exec(ctx, tx, upsert, entry); err != nil {
				return err
			}
		}

		if err := call.MarkScored(now); err != nil {
			return conflictOf(err)
		}

		if err := persistCallStatus(ctx, tx, call); err != nil {
			return err
		}

		response = RecordScoresResponse{CallStatus: call.Status}

		if !policy.ClosesRounds {
			return nil
		}

		// Closure is re-derived from call statuses on every write; the
		// scan is the source of truth, never a counter.
		openInRound, err := unsettledCalls(ctx, tx, session.ID, call.RoundNumber)
		if err != nil {
			return err
		}
		if openInRound > 0 {
			return nil
		}

		response.RoundClosed = true

		openInSession, err := unsettledCalls(ctx, tx, session.ID, 0)
		if err != nil {
			return err
		}
		if openInSession > 0 {
			return nil
		}

		session.Complete(now)
		if err := persistSession(ctx, tx, session); err != nil {
			return err
		}

		response.SessionCompleted = true
		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return RecordScoresResponse{}, err
	}

	return response, nil
}

func sessionTeamIDs(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID) (map[uuid.UUID]bool, error) {
	const query = `
		SELECT
			*
		FROM
			session_team
		WHERE
			session_id = $1;`

	teams, err := tql.Query[domain.Team](ctx, tx, query, sessionID)
	if err != nil {
		return nil, core.NewCommandError(500, err)
	}

	ids := make(map[uuid.UUID]bool, len(teams))
	for _, team := range teams {
		ids[team.ID] = true
	}

	return ids, nil
}
