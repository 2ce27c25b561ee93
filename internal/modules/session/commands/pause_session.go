package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/waxbound/gamenight/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type PauseSessionCommand struct {
	SessionID uuid.UUID `json:"session_id"`
}

func (c PauseSessionCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	return nil
}

type PauseSessionResponse struct {
	RemainingSeconds int `json:"remaining_seconds"`
}

func HandlePauseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[PauseSessionCommand, PauseSessionResponse](
		r.Context(),
		PauseSessionCommand{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type PauseSessionCommandHandler struct {
	db  *sql.DB
	now Clock
}

func NewPauseSessionCommandHandler(db *sql.DB, now Clock) *PauseSessionCommandHandler {
	return &PauseSessionCommandHandler{db, now}
}

func (h *PauseSessionCommandHandler) Handle(
	ctx context.Context,
	request PauseSessionCommand,
) (PauseSessionResponse, error) {
	var response PauseSessionResponse

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		session, err := lockSession(ctx, tx, request.SessionID)
		if err != nil {
			return err
		}

		if err := session.Pause(h.now()); err != nil {
			return conflictOf(err)
		}

		if err := persistSession(ctx, tx, session); err != nil {
			return err
		}

		response = PauseSessionResponse{RemainingSeconds: *session.PausedRemainingSeconds}
		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return PauseSessionResponse{}, err
	}

	return response, nil
}
