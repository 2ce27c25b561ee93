package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

// Clock supplies "now" for remaining-seconds computation. Production
// wiring passes time.Now.
type Clock func() time.Time

type GetSessionQuery struct {
	SessionID uuid.UUID
}

func (q GetSessionQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", q.SessionID)
	}

	return nil
}

// SessionDetails is the full session row plus the computed countdown and
// denormalized counts every display needs. Served lock-free: the
// jumbotron, host console and sidekick view all poll this.
type SessionDetails struct {
	domain.Session
	RemainingSeconds int `json:"remaining_seconds"`
	TeamCount        int `json:"team_count"`
	CallCount        int `json:"call_count"`
	SettledCallCount int `json:"settled_call_count"`
}

func HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[GetSessionQuery, SessionDetails](
		r.Context(),
		GetSessionQuery{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetSessionQueryHandler struct {
	db  *sql.DB
	now Clock
}

func NewGetSessionQueryHandler(db *sql.DB, now Clock) *GetSessionQueryHandler {
	return &GetSessionQueryHandler{db, now}
}

func (h *GetSessionQueryHandler) Handle(
	ctx context.Context,
	request GetSessionQuery,
) (SessionDetails, error) {
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
		return SessionDetails{}, core.NewCommandError(404, err, core.WithReason("session not found"))
	case err != nil:
		return SessionDetails{}, core.NewCommandError(500, err)
	}

	const countsQuery = `
		SELECT
			(SELECT count(*) FROM session_team WHERE session_id = $1) AS team_count,
			(SELECT count(*) FROM session_call WHERE session_id = $1) AS call_count,
			(SELECT count(*) FROM session_call WHERE session_id = $1 AND status IN ('scored', 'skipped')) AS settled_call_count;`

	type counts struct {
		TeamCount        int `db:"team_count"`
		CallCount        int `db:"call_count"`
		SettledCallCount int `db:"settled_call_count"`
	}

	c, err := tql.QueryFirst[counts](ctx, h.db, countsQuery, request.SessionID)
	if err != nil {
		return SessionDetails{}, core.NewCommandError(500, err)
	}

	return SessionDetails{
		Session:          session,
		RemainingSeconds: domain.RemainingSeconds(&session, h.now()),
		TeamCount:        c.TeamCount,
		CallCount:        c.CallCount,
		SettledCallCount: c.SettledCallCount,
	}, nil
}
