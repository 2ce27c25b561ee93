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

type StartSessionCommand struct {
	SessionID uuid.UUID `json:"session_id"`
}

func (c StartSessionCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	return nil
}

type StartSessionResponse struct {
	CurrentCallIndex int `json:"current_call_index"`
	CurrentRound     int `json:"current_round"`
	RemainingSeconds int `json:"remaining_seconds"`
}

func HandleStartSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[StartSessionCommand, StartSessionResponse](
		r.Context(),
		StartSessionCommand{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type StartSessionCommandHandler struct {
	db  *sql.DB
	now Clock
}

func NewStartSessionCommandHandler(db *sql.DB, now Clock) *StartSessionCommandHandler {
	return &StartSessionCommandHandler{db, now}
}

func (h *StartSessionCommandHandler) Handle(
	ctx context.Context,
	request StartSessionCommand,
) (StartSessionResponse, error) {
	var response StartSessionResponse

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		session, err := lockSession(ctx, tx, request.SessionID)
		if err != nil {
			return err
		}

		first, err := callByIndex(ctx, tx, session.ID, 1)
		if err != nil {
			return err
		}

		now := h.now()
		if err := session.Start(first, now); err != nil {
			return conflictOf(err)
		}

		if err := persistSession(ctx, tx, session); err != nil {
			return err
		}

		if err := persistCallStatus(ctx, tx, *first); err != nil {
			return err
		}

		response = StartSessionResponse{
			CurrentCallIndex: session.CurrentCallIndex,
			CurrentRound:     session.CurrentRound,
			RemainingSeconds: session.TargetGapSeconds,
		}
		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return StartSessionResponse{}, err
	}

	return response, nil
}
