// Package repository defines the record store used by the service and an
// in-memory implementation of it.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
)

// LedgerFunc mutates the full modifier ledger inside a store transaction.
// Returning an error discards every change.
type LedgerFunc func(l *ledger.Ledger) error

// TeamFlags selects which assignment flags to change. Nil fields are kept.
type TeamFlags struct {
	Locked    *bool
	Published *bool
}

// Counts summarizes the store for the stats endpoint.
type Counts struct {
	Players   int `json:"players"`
	Games     int `json:"games"`
	Ratings   int `json:"ratings"`
	Profiles  int `json:"profiles"`
	Modifiers int `json:"modifiers"`
}

// PlayerStore holds registered players.
type PlayerStore interface {
	UpsertPlayer(ctx context.Context, p model.Player) error
	// GetPlayer returns ErrNotFound for an unknown id.
	GetPlayer(ctx context.Context, id uuid.UUID) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
}

// GameStore holds games.
type GameStore interface {
	CreateGame(ctx context.Context, g model.Game) error
	// GetGame returns ErrNotFound for an unknown id.
	GetGame(ctx context.Context, id uuid.UUID) (model.Game, error)
	// UpdateGame overwrites a game; ErrNotFound if absent.
	UpdateGame(ctx context.Context, g model.Game) error
}

// RSVPStore holds sign-ups, unique per (game, player).
type RSVPStore interface {
	// UpsertRSVP keeps the original CreatedAt on conflict.
	UpsertRSVP(ctx context.Context, r model.RSVP) error
	// ListRSVPs returns a game's sign-ups with the given status, oldest first.
	// An empty status lists all of them.
	ListRSVPs(ctx context.Context, gameID uuid.UUID, status model.RSVPStatus) ([]model.RSVP, error)
	CountRSVPs(ctx context.Context, gameID uuid.UUID, status model.RSVPStatus) (int, error)
}

// RatingStore holds peer ratings, unique per (rater, ratee).
type RatingStore interface {
	UpsertRating(ctx context.Context, r model.Rating) error
	// ListRatings returns every rating, oldest first.
	ListRatings(ctx context.Context) ([]model.Rating, error)
}

// ProfileStore holds the materialized skill profiles.
type ProfileStore interface {
	// ReplaceSkillProfiles swaps the whole profile set atomically.
	ReplaceSkillProfiles(ctx context.Context, profiles []model.SkillProfile) error
	// ListSkillProfiles returns the profiles of ids, or all profiles when ids is nil.
	ListSkillProfiles(ctx context.Context, ids []uuid.UUID) ([]model.SkillProfile, error)
}

// ModifierStore holds the performance modifier ledger.
type ModifierStore interface {
	// ListModifiers returns the rows of ids, or every row when ids is nil.
	ListModifiers(ctx context.Context, ids []uuid.UUID) ([]model.PerformanceModifier, error)
	// UpdateModifiers loads the full ledger, runs fn and writes the changed
	// rows back in one transaction.
	UpdateModifiers(ctx context.Context, fn LedgerFunc) error
}

// FormStore holds per-game form adjustments, unique per (game, adjuster, player).
type FormStore interface {
	UpsertFormAdjustment(ctx context.Context, a model.FormAdjustment) error
	// ListFormAdjustments returns a game's adjustments for ids, or all when ids is nil.
	ListFormAdjustments(ctx context.Context, gameID uuid.UUID, ids []uuid.UUID) ([]model.FormAdjustment, error)
}

// TeamStore holds one team assignment per game.
type TeamStore interface {
	// SaveTeamAssignment upserts the assignment; ErrTeamsLocked if the stored one is locked.
	SaveTeamAssignment(ctx context.Context, t model.TeamAssignment) error
	// GetTeamAssignment returns ErrNotFound when teams were never generated.
	GetTeamAssignment(ctx context.Context, gameID uuid.UUID) (model.TeamAssignment, error)
	// SetTeamFlags updates lock/publish flags; ErrNotFound without an assignment.
	SetTeamFlags(ctx context.Context, gameID uuid.UUID, flags TeamFlags) error
}

// AwardStore holds categories, votes and tabulated results.
type AwardStore interface {
	// ListAwardCategories returns the reference set in tabulation order.
	ListAwardCategories(ctx context.Context) ([]model.AwardCategory, error)
	UpsertAwardVote(ctx context.Context, v model.AwardVote) error
	// ListAwardVotes returns a game's votes, oldest first.
	ListAwardVotes(ctx context.Context, gameID uuid.UUID) ([]model.AwardVote, error)
	// SaveAwardOutcome replaces the game's results and applies fn to the
	// ledger in a single transaction.
	SaveAwardOutcome(ctx context.Context, gameID uuid.UUID, results []model.AwardResult, fn LedgerFunc) error
	ListAwardResults(ctx context.Context, gameID uuid.UUID) ([]model.AwardResult, error)
}

// Store is the full record store collaborator.
type Store interface {
	PlayerStore
	GameStore
	RSVPStore
	RatingStore
	ProfileStore
	ModifierStore
	FormStore
	TeamStore
	AwardStore

	Counts(ctx context.Context) (Counts, error)
	Close() error
}
