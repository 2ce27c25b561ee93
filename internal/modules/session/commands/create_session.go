package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path"

	"github.com/waxbound/gamenight/internal/modules/catalog"
	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/gamemode"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// TrackPool is the source-pool collaborator consumed at deck-generation
// time.
type TrackPool interface {
	Pick(ctx context.Context, filter catalog.Filter, limit int) ([]catalog.Track, error)
}

type TeamSetup struct {
	Name       string `json:"name"`
	TableLabel string `json:"table_label"`
}

// CreateSessionCommand finalizes setup: the roster and deck are
// committed together and the session lands in pending, ready for Start.
type CreateSessionCommand struct {
	EventID          *uuid.UUID     `json:"event_id,omitempty"`
	Mode             string         `json:"mode"`
	Title            string         `json:"title"`
	TargetGapSeconds int            `json:"target_gap_seconds"`
	RoundCount       int            `json:"round_count,omitempty"`
	ItemsPerRound    int            `json:"items_per_round,omitempty"`
	Teams            []TeamSetup    `json:"teams"`
	Filter           catalog.Filter `json:"filter"`
}

func (c CreateSessionCommand) Validate() error {
	if _, err := gamemode.ForMode(gamemode.Mode(c.Mode)); err != nil {
		return err
	}

	if c.Title == "" {
		return fmt.Errorf("invalid Title - '%s'", c.Title)
	}

	if len(c.Teams) == 0 {
		return fmt.Errorf("at least one team is required")
	}

	for _, team := range c.Teams {
		if team.Name == "" {
			return fmt.Errorf("team name is required")
		}
	}

	if c.TargetGapSeconds < 0 {
		return fmt.Errorf("invalid TargetGapSeconds - %d", c.TargetGapSeconds)
	}

	if c.RoundCount < 0 || c.ItemsPerRound < 0 {
		return fmt.Errorf("invalid deck shape - %d rounds x %d items", c.RoundCount, c.ItemsPerRound)
	}

	return nil
}

type CreateSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	CallCount int       `json:"call_count"`
}

func HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[CreateSessionCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[CreateSessionCommand, CreateSessionResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "sessions", response.SessionID.String())
	core.WriteCreated(w, r, location, response)
}

type CreateSessionCommandHandler struct {
	db   *sql.DB
	pool TrackPool
	now  Clock
}

func NewCreateSessionCommandHandler(db *sql.DB, pool TrackPool, now Clock) *CreateSessionCommandHandler {
	return &CreateSessionCommandHandler{db, pool, now}
}

func (h *CreateSessionCommandHandler) Handle(
	ctx context.Context,
	request CreateSessionCommand,
) (CreateSessionResponse, error) {
	policy, err := gamemode.ForMode(gamemode.Mode(request.Mode))
	if err != nil {
		return CreateSessionResponse{}, core.NewCommandError(400, err)
	}

	shape := policy.Deck
	if request.RoundCount > 0 {
		shape.RoundCount = request.RoundCount
	}
	if request.ItemsPerRound > 0 {
		shape.ItemsPerRound = request.ItemsPerRound
	}

	poolSize := shape.RoundCount * shape.ItemsPerRound
	if shape.Bracket {
		poolSize = shape.ItemsPerRound * 2
	}

	tracks, err := h.pool.Pick(ctx, request.Filter, poolSize)
	if err != nil {
		return CreateSessionResponse{}, core.NewCommandError(500, err)
	}

	gap := request.TargetGapSeconds
	if gap == 0 {
		gap = 45
	}

	session := domain.Session{
		ID:               uuid.New(),
		EventID:          request.EventID,
		Mode:             request.Mode,
		Title:            request.Title,
		RoundCount:       shape.RoundCount,
		Status:           domain.StatusPending,
		ShowTimer:        true,
		ShowLeaderboard:  true,
		ExactPoints:      policy.Points.Exact,
		ClosePoints:      policy.Points.Close,
		BonusPoints:      policy.Points.Bonus,
		MaxPoints:        policy.Points.Max,
		TargetGapSeconds: gap,
		CreatedAt:        h.now(),
	}

	items := core.Map(tracks, func(t catalog.Track) domain.SourceItem {
		trackID := t.ID
		return domain.SourceItem{
			TrackID: &trackID,
			Title:   t.Title,
			Artist:  t.Artist,
			Answer:  fmt.Sprintf("%s - %s", t.Artist, t.Title),
		}
	})

	deck, err := domain.GenerateDeck(session.ID, shape, items)
	if err != nil {
		return CreateSessionResponse{}, core.NewCommandError(400, err, core.WithReason("deck generation failed"))
	}

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		const sessionStmt = `
			INSERT INTO
				game_session (
					id, event_id, mode, title, round_count, current_round,
					current_call_index, status, show_timer, show_leaderboard,
					exact_points, close_points, bonus_points, max_points,
					target_gap_seconds, created_at
				)
			VALUES
				(
					:id, :event_id, :mode, :title, :round_count, :current_round,
					:current_call_index, :status, :show_timer, :show_leaderboard,
					:exact_points, :close_points, :bonus_points, :max_points,
					:target_gap_seconds, :created_at
				);`
		if _, err := tql.Exec(ctx, tx, sessionStmt, session); err != nil {
			return err
		}

		const callStmt = `
			INSERT INTO
				session_call (
					id, session_id, round_number, call_index, position,
					track_id, title, artist, prompt, answer, alternates, status
				)
			VALUES
				(
					:id, :session_id, :round_number, :call_index, :position,
					:track_id, :title, :artist, :prompt, :answer, :alternates, :status
				);`
		for _, call := range deck {
			if _, err := tql.Exec(ctx, tx, callStmt, call); err != nil {
				return err
			}
		}

		const teamStmt = `
			INSERT INTO
				session_team (id, session_id, name, table_label, active)
			VALUES
				(:id, :session_id, :name, :table_label, :active);`
		for _, setup := range request.Teams {
			team := domain.Team{
				ID:         uuid.New(),
				SessionID:  session.ID,
				Name:       setup.Name,
				TableLabel: setup.TableLabel,
				Active:     true,
			}
			if _, err := tql.Exec(ctx, tx, teamStmt, team); err != nil {
				return err
			}
		}

		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		if _, ok := err.(core.CommandError); ok {
			return CreateSessionResponse{}, err
		}
		return CreateSessionResponse{}, core.NewCommandError(500, err)
	}

	return CreateSessionResponse{SessionID: session.ID, CallCount: len(deck)}, nil
}
