package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/waxbound/gamenight/internal/config"
	"github.com/waxbound/gamenight/internal/modules/catalog"
	"github.com/waxbound/gamenight/internal/modules/core"
	"github.com/waxbound/gamenight/internal/modules/events"
	sessioncommands "github.com/waxbound/gamenight/internal/modules/session/commands"
	sessiondomain "github.com/waxbound/gamenight/internal/modules/session/domain"
	sessionqueries "github.com/waxbound/gamenight/internal/modules/session/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/go-chi/chi"
	_ "github.com/lib/pq"
)

type Server interface {
	Start() error
	Stop() error
}

var _ Server = &HTTPServer{}

// HTTPServer is the composition root for the game-night engine.
type HTTPServer struct {
	server *http.Server
	db     *sql.DB
}

func NewHTTPServer(config config.Config) (Server, error) {
	baseCtx := context.Background()

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(baseCtx, db, config.MigrationsPath); err != nil {
		return nil, err
	}

	core.SetLogger(config.Logger)

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: config.Logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: config.Logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	pool := catalog.NewPool(db)
	clock := sessioncommands.Clock(time.Now)

	// handler registration

	// session - commands

	err = mediator.RegisterRequestHandler[sessioncommands.CreateSessionCommand, sessioncommands.CreateSessionResponse](
		sessioncommands.NewCreateSessionCommandHandler(db, pool, clock),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.StartSessionCommand, sessioncommands.StartSessionResponse](
		sessioncommands.NewStartSessionCommandHandler(db, clock),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.AdvanceSessionCommand, sessioncommands.AdvanceSessionResponse](
		sessioncommands.NewAdvanceSessionCommandHandler(db, clock),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.PauseSessionCommand, sessioncommands.PauseSessionResponse](
		sessioncommands.NewPauseSessionCommandHandler(db, clock),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.ResumeSessionCommand, sessioncommands.ResumeSessionResponse](
		sessioncommands.NewResumeSessionCommandHandler(db, clock),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.SkipCallCommand, sessioncommands.AdvanceSessionResponse](
		sessioncommands.NewSkipCallCommandHandler(db, clock),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.RecordScoresCommand, sessioncommands.RecordScoresResponse](
		sessioncommands.NewRecordScoresCommandHandler(db, clock),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.UpdateSessionCommand, sessiondomain.Session](
		sessioncommands.NewUpdateSessionCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessioncommands.DeactivateTeamCommand, core.Unit](
		sessioncommands.NewDeactivateTeamCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	// session - queries

	err = mediator.RegisterRequestHandler[sessionqueries.GetSessionQuery, sessionqueries.SessionDetails](
		sessionqueries.NewGetSessionQueryHandler(db, sessionqueries.Clock(time.Now)),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessionqueries.ListCallsQuery, []sessiondomain.Call](
		sessionqueries.NewListCallsQueryHandler(db, pool),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[sessionqueries.LeaderboardQuery, []sessiondomain.Standing](
		sessionqueries.NewLeaderboardQueryHandler(db),
	)
	if err != nil {
		return nil, err
	}

	// catalog

	err = mediator.RegisterRequestHandler[catalog.ImportTracksCommand, catalog.ImportTracksResponse](
		catalog.NewImportTracksCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	// events

	err = mediator.RegisterRequestHandler[events.GetEventQuery, events.Event](
		events.NewGetEventQueryHandler(db),
	)
	if err != nil {
		return nil, err
	}

	// http

	metrics := core.NewHTTPMetrics()

	r := chi.NewRouter()
	r.Use(core.CorrelationIDHTTPMiddleware)
	r.Use(metrics.Middleware(func(r *http.Request) string {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			return rctx.RoutePattern()
		}
		return r.URL.Path
	}))

	r.Post("/sessions", sessioncommands.HandleCreateSession)
	r.Get("/sessions/{id}", sessionqueries.HandleGetSession)
	r.Patch("/sessions/{id}", sessioncommands.HandleUpdateSession)

	r.Post("/sessions/{id}/actions/start", sessioncommands.HandleStartSession)
	r.Post("/sessions/{id}/actions/advance", sessioncommands.HandleAdvanceSession)
	r.Post("/sessions/{id}/actions/pause", sessioncommands.HandlePauseSession)
	r.Post("/sessions/{id}/actions/resume", sessioncommands.HandleResumeSession)
	r.Post("/sessions/{id}/actions/skip", sessioncommands.HandleSkipCall)

	r.Post("/sessions/{id}/score", sessioncommands.HandleRecordScores)
	r.Get("/sessions/{id}/calls", sessionqueries.HandleListCalls)
	r.Get("/sessions/{id}/leaderboard", sessionqueries.HandleLeaderboard)

	r.Put("/sessions/{id}/teams/{team_id}/actions/deactivate", sessioncommands.HandleDeactivateTeam)

	r.Post("/catalog/tracks/import", catalog.HandleImportTracks)
	r.Get("/events/{id}", events.HandleGetEvent)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	server := http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(config.Port)),
		Handler: r,
	}

	return &HTTPServer{server: &server, db: db}, nil
}

func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	return s.db.Close()
}
