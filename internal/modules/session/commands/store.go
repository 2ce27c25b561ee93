package commands

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// Clock supplies "now" to handlers so timer behavior is deterministic
// under test. Production wiring passes time.Now.
type Clock func() time.Time

// lockSession loads the session row under FOR UPDATE. Every
// read-then-write operation goes through this, making the row lock the
// per-session serialization boundary: two concurrent advances cannot
// both compute "next" from the same stale index.
func lockSession(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID) (domain.Session, error) {
	const query = `
		SELECT
			*
		FROM
			game_session
		WHERE
			id = $1
		FOR UPDATE;`

	session, err := tql.QueryFirst[domain.Session](ctx, tx, query, sessionID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Session{}, core.NewCommandError(404, err, core.WithReason("session not found"))
	case err != nil:
		return domain.Session{}, core.NewCommandError(500, err)
	}

	return session, nil
}

// callByIndex returns the session's call at the given 1-based index, or
// nil when the deck is exhausted at that position.
func callByIndex(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID, index int) (*domain.Call, error) {
	const query = `
		SELECT
			*
		FROM
			session_call
		WHERE
			session_id = $1 AND call_index = $2;`

	call, err := tql.QueryFirst[domain.Call](ctx, tx, query, sessionID, index)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, core.NewCommandError(500, err)
	}

	return &call, nil
}

func callByID(ctx context.Context, tx *sql.Tx, callID uuid.UUID) (domain.Call, error) {
	const query = `
		SELECT
			*
		FROM
			session_call
		WHERE
			id = $1;`

	call, err := tql.QueryFirst[domain.Call](ctx, tx, query, callID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Call{}, core.NewCommandError(404, err, core.WithReason("call not found"))
	case err != nil:
		return domain.Call{}, core.NewCommandError(500, err)
	}

	return call, nil
}

// persistSession writes back every field the state machine owns.
func persistSession(ctx context.Context, tx *sql.Tx, session domain.Session) error {
	const stmt = `
		UPDATE
			game_session
		SET
			title = :title,
			current_round = :current_round,
			current_call_index = :current_call_index,
			status = :status,
			show_timer = :show_timer,
			show_leaderboard = :show_leaderboard,
			target_gap_seconds = :target_gap_seconds,
			countdown_started_at = :countdown_started_at,
			paused_at = :paused_at,
			paused_remaining_seconds = :paused_remaining_seconds,
			started_at = :started_at,
			ended_at = :ended_at
		WHERE
			id = :id;`

	if _, err := tql.Exec(ctx, tx, stmt, session); err != nil {
		return core.NewCommandError(500, err)
	}

	return nil
}

func persistCallStatus(ctx context.Context, tx *sql.Tx, call domain.Call) error {
	const stmt = `
		UPDATE
			session_call
		SET
			status = :status,
			asked_at = :asked_at,
			revealed_at = :revealed_at,
			scored_at = :scored_at
		WHERE
			id = :id;`

	if _, err := tql.Exec(ctx, tx, stmt, call); err != nil {
		return core.NewCommandError(500, err)
	}

	return nil
}

// unsettledCalls counts calls still awaiting a score or skip. Round and
// session closure are re-derived from this scan on every score write;
// there is deliberately no separate counter to drift.
func unsettledCalls(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID, roundNumber int) (int, error) {
	const query = `
		SELECT
			count(*) AS count
		FROM
			session_call
		WHERE
			session_id = $1
			AND ($2 = 0 OR round_number = $2)
			AND status NOT IN ('scored', 'skipped');`

	type rowCount struct {
		Count int `db:"count"`
	}

	result, err := tql.QueryFirst[rowCount](ctx, tx, query, sessionID, roundNumber)
	if err != nil {
		return 0, core.NewCommandError(500, err)
	}

	return result.Count, nil
}

// conflictOf maps state-machine sentinel errors onto 409 command errors.
func conflictOf(err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyStarted),
		errors.Is(err, domain.ErrEmptyDeck),
		errors.Is(err, domain.ErrSessionCompleted),
		errors.Is(err, domain.ErrNotRunning),
		errors.Is(err, domain.ErrNotPaused),
		errors.Is(err, domain.ErrNoOpenCall),
		errors.Is(err, domain.ErrCallNotAsked),
		errors.Is(err, domain.ErrCallSettled),
		errors.Is(err, domain.ErrCallNotInSession),
		errors.Is(err, domain.ErrDeckCommitted):
		return core.NewCommandError(409, err, core.WithReason(err.Error()))
	}

	return err
}
