package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/waxbound/gamenight/internal/modules/catalog"
	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrackGetter hydrates display metadata from the source pool.
type TrackGetter interface {
	Get(ctx context.Context, id uuid.UUID) (catalog.Track, error)
}

type ListCallsQuery struct {
	SessionID uuid.UUID
}

func (q ListCallsQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", q.SessionID)
	}

	return nil
}

func HandleListCalls(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[ListCallsQuery, []domain.Call](
		r.Context(),
		ListCallsQuery{SessionID: sessionID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ListCallsQueryHandler struct {
	db     *sql.DB
	tracks TrackGetter
}

func NewListCallsQueryHandler(db *sql.DB, tracks TrackGetter) *ListCallsQueryHandler {
	return &ListCallsQueryHandler{db, tracks}
}

// Handle returns the session's full deck in call order. Calls generated
// before their track metadata landed are hydrated lazily: title and
// artist are resolved from the pool and written back, best effort.
func (h *ListCallsQueryHandler) Handle(
	ctx context.Context,
	request ListCallsQuery,
) ([]domain.Call, error) {
	const query = `
		SELECT
			*
		FROM
			session_call
		WHERE
			session_id = $1
		ORDER BY
			call_index;`

	calls, err := tql.Query[domain.Call](ctx, h.db, query, request.SessionID)
	if err != nil {
		return nil, core.NewCommandError(500, err)
	}

	for i := range calls {
		if calls[i].Title != "" || calls[i].TrackID == nil {
			continue
		}

		track, err := h.tracks.Get(ctx, *calls[i].TrackID)
		if err != nil {
			core.LogError(ctx, "call hydration failed", zap.Error(err), zap.Any("call_id", calls[i].ID))
			continue
		}

		calls[i].Title = track.Title
		calls[i].Artist = track.Artist

		const hydrate = `
			UPDATE
				session_call
			SET
				title = $1,
				artist = $2
			WHERE
				id = $3;`
		if _, err := tql.Exec(ctx, h.db, hydrate, track.Title, track.Artist, calls[i].ID); err != nil {
			core.LogError(ctx, "call hydration write failed", zap.Error(err), zap.Any("call_id", calls[i].ID))
		}
	}

	return calls, nil
}
