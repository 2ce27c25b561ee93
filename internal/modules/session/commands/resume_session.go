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

type ResumeSessionCommand struct {
	SessionID uuid.UUID `json:"session_id"`
}

func (c ResumeSessionCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	return nil
}

type ResumeSessionResponse struct {
	RemainingSeconds int `json:"remaining_seconds"`
}

func HandleResumeSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[ResumeSessionCommand, ResumeSessionResponse](
		r.Context(),
		ResumeSessionCommand{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ResumeSessionCommandHandler struct {
	db  *sql.DB
	now Clock
}

func NewResumeSessionCommandHandler(db *sql.DB, now Clock) *ResumeSessionCommandHandler {
	return &ResumeSessionCommandHandler{db, now}
}

func (h *ResumeSessionCommandHandler) Handle(
	ctx context.Context,
	request ResumeSessionCommand,
) (ResumeSessionResponse, error) {
	var response ResumeSessionResponse

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		session, err := lockSession(ctx, tx, request.SessionID)
		if err != nil {
			return err
		}

		now := h.now()
		if err := session.Resume(now); err != nil {
			return conflictOf(err)
		}

		if err := persistSession(ctx, tx, session); err != nil {
			return err
		}

		response = ResumeSessionResponse{RemainingSeconds: domain.RemainingSeconds(&session, now)}
		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return ResumeSessionResponse{}, err
	}

	return response, nil
}
