package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type SkipCallCommand struct {
	SessionID uuid.UUID `json:"session_id"`
}

func (c SkipCallCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	return nil
}

func HandleSkipCall(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[SkipCallCommand, AdvanceSessionResponse](
		r.Context(),
		SkipCallCommand{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SkipCallCommandHandler struct {
	db  *sql.DB
	now Clock
}

func NewSkipCallCommandHandler(db *sql.DB, now Clock) *SkipCallCommandHandler {
	return &SkipCallCommandHandler{db, now}
}

// Handle marks the open call skipped (not scored) and performs the same
// positional advance as Advance.
func (h *SkipCallCommandHandler) Handle(
	ctx context.Context,
	request SkipCallCommand,
) (AdvanceSessionResponse, error) {
	var response AdvanceSessionResponse

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		session, err := lockSession(ctx, tx, request.SessionID)
		if err != nil {
			return err
		}

		if session.CurrentCallIndex < 1 {
			return conflictOf(domain.ErrNoOpenCall)
		}

		current, err := callByIndex(ctx, tx, session.ID, session.CurrentCallIndex)
		if err != nil {
			return err
		}
		if current == nil {
			return conflictOf(domain.ErrNoOpenCall)
		}

		if err := current.MarkSkipped(); err != nil {
			return conflictOf(err)
		}

		if err := persistCallStatus(ctx, tx, *current); err != nil {
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
