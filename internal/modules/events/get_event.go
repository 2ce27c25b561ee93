package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/waxbound/gamenight/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

// Event is the parent club event a session can be linked to. Owned by
// the events side of the admin app; the engine only reads it for
// display linkage.
type Event struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Title    string    `db:"title" json:"title"`
	Venue    string    `db:"venue" json:"venue"`
	StartsAt time.Time `db:"starts_at" json:"starts_at"`
}

type GetEventQuery struct {
	EventID uuid.UUID
}

func (q GetEventQuery) Validate() error {
	if q.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", q.EventID)
	}

	return nil
}

func HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[GetEventQuery, Event](r.Context(), GetEventQuery{EventID: eventID})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetEventQueryHandler struct {
	db *sql.DB
}

func NewGetEventQueryHandler(db *sql.DB) *GetEventQueryHandler {
	return &GetEventQueryHandler{db}
}

func (h *GetEventQueryHandler) Handle(ctx context.Context, request GetEventQuery) (Event, error) {
	const query = `
		SELECT
			*
		FROM
			club_event
		WHERE
			id = $1;`

	event, err := tql.QueryFirst[Event](ctx, h.db, query, request.EventID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Event{}, core.NewCommandError(404, err, core.WithReason("event not found"))
	case err != nil:
		return Event{}, core.NewCommandError(500, err)
	}

	return event, nil
}
