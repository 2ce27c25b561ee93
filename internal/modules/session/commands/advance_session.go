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

type AdvanceSessionCommand struct {
	SessionID uuid.UUID `json:"session_id"`
}

func (c AdvanceSessionCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	return nil
}

// AdvanceSessionResponse reports where the host landed. Completed means
// the deck is exhausted and the session just ended; the position fields
// are omitted in that case.
type AdvanceSessionResponse struct {
	Completed        bool `json:"completed"`
	CurrentCallIndex *int `json:"current_call_index,omitempty"`
	CurrentRound     *int `json:"current_round,omitempty"`
}

func HandleAdvanceSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[AdvanceSessionCommand, AdvanceSessionResponse](
		r.Context(),
		AdvanceSessionCommand{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type AdvanceSessionCommandHandler struct {
	db  *sql.DB
	now Clock
}

func NewAdvanceSessionCommandHandler(db *sql.DB, now Clock) *AdvanceSessionCommandHandler {
	return &AdvanceSessionCommandHandler{db, now}
}

func (h *AdvanceSessionCommandHandler) Handle(
	ctx context.Context,
	request AdvanceSessionCommand,
) (AdvanceSessionResponse, error) {
	var response AdvanceSessionResponse

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		session, err := lockSession(ctx, tx, request.SessionID)
		if err != nil {
			return err
		}

		next, err := callByIndex(ctx, tx, session.ID, session.CurrentCallIndex+1)
		if err != nil {
			return err
		}

		completed, err := session.AdvanceTo(next, h.now())
		if err != nil {
			return conflictOf(err)
		}

		if err := persistSession(ctx, tx, session); err != nil {
			return err
		}

		if completed {
			response = AdvanceSessionResponse{Completed: true}
			return nil
		}

		if err := persistCallStatus(ctx, tx, *next); err != nil {
			return err
		}

		response = AdvanceSessionResponse{
			CurrentCallIndex: &session.CurrentCallIndex,
			CurrentRound:     &session.CurrentRound,
		}
		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return AdvanceSessionResponse{}, err
	}

	return response, nil
}
