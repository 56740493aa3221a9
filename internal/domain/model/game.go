package model

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus tracks the lifecycle of a game.
type GameStatus string

// Game statuses.
const (
	GameDraft     GameStatus = "draft"
	GameOpen      GameStatus = "open"
	GameClosed    GameStatus = "closed"
	GameCompleted GameStatus = "completed"
)

// DefaultCapacity is the confirmed-player capacity of a new game.
const DefaultCapacity = 10

// Game is one scheduled event.
type Game struct {
	ID                 uuid.UUID
	StartsAt           time.Time
	Location           string
	Capacity           int
	RSVPCutoff         *time.Time
	RatingCutoff       *time.Time
	Status             GameStatus
	UseFormAdjustments bool
	CreatedBy          *uuid.UUID
	CreatedAt          time.Time
	CompletedAt        *time.Time
	ScoreTeamA         *int
	ScoreTeamB         *int
	Notes              string
}

// AcceptsRSVP reports whether players may still join or leave at now.
func (g Game) AcceptsRSVP(now time.Time) bool {
	if g.Status == GameClosed || g.Status == GameCompleted {
		return false
	}
	if g.RSVPCutoff != nil && g.RSVPCutoff.Before(now) {
		return false
	}
	return true
}

// RSVPStatus is a player's sign-up state for a game.
type RSVPStatus string

// RSVP statuses.
const (
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPWaitlist  RSVPStatus = "waitlist"
	RSVPCancelled RSVPStatus = "cancelled"
)

// RSVP is a player's sign-up for a game. Unique per (GameID, PlayerID).
type RSVP struct {
	GameID    uuid.UUID
	PlayerID  uuid.UUID
	Status    RSVPStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
