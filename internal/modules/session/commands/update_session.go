package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

// UpdateSessionCommand covers the host-editable surface: title, display
// toggles, the countdown gap, and explicit status/timestamp overrides
// for cleanup after an event. Points and scores are never writable here.
type UpdateSessionCommand struct {
	SessionID        uuid.UUID      `json:"-"`
	Title            *string        `json:"title,omitempty"`
	ShowTimer        *bool          `json:"show_timer,omitempty"`
	ShowLeaderboard  *bool          `json:"show_leaderboard,omitempty"`
	TargetGapSeconds *int           `json:"target_gap_seconds,omitempty"`
	Status           *domain.Status `json:"status,omitempty"`
	EndedAt          *time.Time     `json:"ended_at,omitempty"`
}

func (c UpdateSessionCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.Title != nil && *c.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if c.TargetGapSeconds != nil && *c.TargetGapSeconds < 0 {
		return fmt.Errorf("invalid TargetGapSeconds - %d", *c.TargetGapSeconds)
	}

	if c.Status != nil {
		switch *c.Status {
		case domain.StatusPending, domain.StatusRunning, domain.StatusPaused, domain.StatusCompleted:
		default:
			return fmt.Errorf("invalid Status - '%s'", *c.Status)
		}
	}

	return nil
}

func HandleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command, err := core.RequestBody[UpdateSessionCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.SessionID = sessionID

	response, err := mediator.Send[UpdateSessionCommand, domain.Session](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type UpdateSessionCommandHandler struct {
	db *sql.DB
}

func NewUpdateSessionCommandHandler(db *sql.DB) *UpdateSessionCommandHandler {
	return &UpdateSessionCommandHandler{db}
}

func (h *UpdateSessionCommandHandler) Handle(
	ctx context.Context,
	request UpdateSessionCommand,
) (domain.Session, error) {
	var updated domain.Session

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		session, err := lockSession(ctx, tx, request.SessionID)
		if err != nil {
			return err
		}

		if request.Title != nil {
			session.Title = *request.Title
		}
		if request.ShowTimer != nil {
			session.ShowTimer = *request.ShowTimer
		}
		if request.ShowLeaderboard != nil {
			session.ShowLeaderboard = *request.ShowLeaderboard
		}
		if request.TargetGapSeconds != nil {
			session.TargetGapSeconds = *request.TargetGapSeconds
		}
		if request.Status != nil {
			session.Status = *request.Status
		}
		if request.EndedAt != nil {
			session.EndedAt = request.EndedAt
		}

		if err := persistSession(ctx, tx, session); err != nil {
			return err
		}

		updated = session
		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return domain.Session{}, err
	}

	return updated, nil
}
