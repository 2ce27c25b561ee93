package queries

import (
	"context"
	"database/sql"
	"errors"
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

type LeaderboardQuery struct {
	SessionID uuid.UUID
}

func (q LeaderboardQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", q.SessionID)
	}

	return nil
}

func HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[LeaderboardQuery, []domain.Standing](
		r.Context(),
		LeaderboardQuery{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type LeaderboardQueryHandler struct {
	db *sql.DB
}

func NewLeaderboardQueryHandler(db *sql.DB) *LeaderboardQueryHandler {
	return &LeaderboardQueryHandler{db}
}

// Handle recomputes the ranking from the ledger on every read. No
// cached totals: the fold is cheap at party-game scale and can never
// drift from the entries.
func (h *LeaderboardQueryHandler) Handle(
	ctx context.Context,
	request LeaderboardQuery,
) ([]domain.Standing, error) {
	const sessionQuery = `
		SELECT
			*
		FROM
			game_session
		WHERE
			id = $1;`

	session, err := tql.QueryFirst[domain.Session](ctx, h.db, sessionQuery, request.SessionID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, core.NewCommandError(404, err, core.WithReason("session not found"))
	case err != nil:
		return nil, core.NewCommandError(500, err)
	}

	policy, err := gamemode.ForMode(gamemode.Mode(session.Mode))
	if err != nil {
		return nil, core.NewCommandError(500, err)
	}
	policy = policy.WithPoints(session.Scoring())

	const teamsQuery = `
		SELECT
			*
		FROM
			session_team
		WHERE
			session_id = $1;`

	teams, err := tql.Query[domain.Team](ctx, h.db, teamsQuery, request.SessionID)
	if err != nil {
		return nil, core.NewCommandError(500, err)
	}

	const entriesQuery = `
		SELECT
			*
		FROM
			score_entry
		WHERE
			session_id = $1;`

	entries, err := tql.Query[domain.ScoreEntry](ctx, h.db, entriesQuery, request.SessionID)
	if err != nil {
		return nil, core.NewCommandError(500, err)
	}

	return domain.Leaderboard(policy, teams, entries), nil
}
