package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/waxbound/gamenight/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

// DeactivateTeamCommand soft-disables a team: it drops off the
// leaderboard but every score it earned stays in the ledger.
type DeactivateTeamCommand struct {
	SessionID uuid.UUID `json:"session_id"`
	TeamID    uuid.UUID `json:"team_id"`
}

func (c DeactivateTeamCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.TeamID == uuid.Nil {
		return fmt.Errorf("invalid TeamID - '%s'", c.TeamID)
	}

	return nil
}

func HandleDeactivateTeam(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	teamID, err := uuid.Parse(chi.URLParam(r, "team_id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	_, err = mediator.Send[DeactivateTeamCommand, core.Unit](
		r.Context(),
		DeactivateTeamCommand{SessionID: sessionID, TeamID: teamID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type DeactivateTeamCommandHandler struct {
	db *sql.DB
}

func NewDeactivateTeamCommandHandler(db *sql.DB) *DeactivateTeamCommandHandler {
	return &DeactivateTeamCommandHandler{db}
}

func (h *DeactivateTeamCommandHandler) Handle(
	ctx context.Context,
	request DeactivateTeamCommand,
) (core.Unit, error) {
	const stmt = `
		UPDATE
			session_team
		SET
			active = false
		WHERE
			id = $1 AND session_id = $2;`

	result, err := tql.Exec(ctx, h.db, stmt, request.TeamID, request.SessionID)
	if err != nil {
		return core.Unit{}, core.NewCommandError(500, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return core.Unit{}, core.NewCommandError(500, err)
	}

	if affected == 0 {
		return core.Unit{}, core.NewCommandError(
			404,
			fmt.Errorf("team '%s' not found in session '%s'", request.TeamID, request.SessionID),
			core.WithReason("team not found"),
		)
	}

	return core.Unit{}, nil
}
