// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	service "github.com/okian/squadup/internal/app"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/types"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	StatsProvider

	UpsertPlayer(ctx context.Context, in service.PlayerInput) (model.Player, error)
	ApplyPerformanceDelta(ctx context.Context, playerID uuid.UUID, categoryID string, multiplier float64) (bool, error)

	CreateGame(ctx context.Context, in service.GameInput) (model.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (model.Game, error)
	SetGameStatus(ctx context.Context, id uuid.UUID, status model.GameStatus) (model.Game, error)
	CompleteGame(ctx context.Context, in service.CompleteInput) (model.Game, error)
	JoinGame(ctx context.Context, gameID, playerID uuid.UUID) (model.RSVP, error)
	LeaveGame(ctx context.Context, gameID, playerID uuid.UUID) (*model.RSVP, error)
	ListRSVPs(ctx context.Context, gameID uuid.UUID, status model.RSVPStatus) ([]model.RSVP, error)

	SubmitRating(ctx context.Context, in service.RatingInput) (model.Rating, error)
	AggregateSkillProfiles(ctx context.Context) ([]model.SkillProfile, error)
	Standings(ctx context.Context, limit int) ([]types.ProfileEntry, error)
	ProfileRank(ctx context.Context, playerID uuid.UUID) (types.ProfileEntry, error)

	SaveFormAdjustment(ctx context.Context, in service.FormInput) (model.FormAdjustment, error)
	GenerateTeams(ctx context.Context, gameID uuid.UUID) (model.TeamAssignment, error)
	Teams(ctx context.Context, gameID uuid.UUID) (types.TeamsView, error)
	LockTeams(ctx context.Context, gameID uuid.UUID) error
	UnlockTeams(ctx context.Context, gameID uuid.UUID) error
	PublishTeams(ctx context.Context, gameID uuid.UUID, publish bool) error

	AwardCategories(ctx context.Context) ([]model.AwardCategory, error)
	SubmitAwardVote(ctx context.Context, in service.VoteInput) (model.AwardVote, error)
	TabulateAwards(ctx context.Context, gameID uuid.UUID) ([]model.AwardResult, error)
	AwardResults(ctx context.Context, gameID uuid.UUID) ([]model.AwardResult, error)
}

var _ Dependencies = (*service.Service)(nil)

const defaultProfileLimit = 20

// Server wires HTTP routes for the squad API.
type Server struct {
	deps         Dependencies
	limiter      *IPRateLimiter
	profileLimit int
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits write requests per client IP. A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = NewIPRateLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithDefaultProfileLimit sets the standings page size used when no limit is given.
func WithDefaultProfileLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.profileLimit = n
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, profileLimit: defaultProfileLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all API routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", MetricsMiddleware(HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.handleStats, "stats"))

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimitMiddleware(s.limiter))
		}

		r.Post("/players", MetricsMiddleware(s.handleUpsertPlayer, "players"))
		r.Post("/players/{playerID}/modifiers", MetricsMiddleware(s.handleApplyModifier, "modifiers"))

		r.Post("/ratings", MetricsMiddleware(s.handleSubmitRating, "ratings"))
		r.Post("/profiles/aggregate", MetricsMiddleware(s.handleAggregate, "aggregate"))

		r.Post("/games", MetricsMiddleware(s.handleCreateGame, "games"))
		r.Post("/games/{gameID}/status", MetricsMiddleware(s.handleSetStatus, "game_status"))
		r.Post("/games/{gameID}/rsvps", MetricsMiddleware(s.handleRSVP, "rsvps"))
		r.Post("/games/{gameID}/complete", MetricsMiddleware(s.handleComplete, "complete"))
		r.Post("/games/{gameID}/form-adjustments", MetricsMiddleware(s.handleFormAdjustment, "form_adjustments"))
		r.Post("/games/{gameID}/teams", MetricsMiddleware(s.handleGenerateTeams, "teams"))
		r.Post("/games/{gameID}/teams/{action}", MetricsMiddleware(s.handleTeamFlag, "team_flags"))
		r.Post("/games/{gameID}/award-votes", MetricsMiddleware(s.handleAwardVote, "award_votes"))
		r.Post("/games/{gameID}/awards", MetricsMiddleware(s.handleTabulate, "awards"))
	})

	r.Get("/games/{gameID}", MetricsMiddleware(s.handleGetGame, "games"))
	r.Get("/games/{gameID}/rsvps", MetricsMiddleware(s.handleListRSVPs, "rsvps"))
	r.Get("/games/{gameID}/teams", MetricsMiddleware(s.handleGetTeams, "teams"))
	r.Get("/games/{gameID}/awards", MetricsMiddleware(s.handleGetAwards, "awards"))
	r.Get("/award-categories", MetricsMiddleware(s.handleCategories, "award_categories"))
	r.Get("/profiles", MetricsMiddleware(s.handleStandings, "profiles"))
	r.Get("/profiles/{playerID}", MetricsMiddleware(s.handleProfileRank, "profiles"))
}

// Handler returns a router with every API route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}
