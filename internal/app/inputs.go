package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

var validate = validator.New()

func check(in any) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", fault.ErrValidation, describe(err))
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// PlayerInput registers or renames a player. A nil ID creates a new player.
type PlayerInput struct {
	ID   uuid.UUID  `json:"id"`
	Name string     `json:"name" validate:"required,max=100"`
	Role model.Role `json:"role" validate:"omitempty,oneof=admin player"`
}

// GameInput describes a new game. Zero Capacity means model.DefaultCapacity
// and an empty Status means open.
type GameInput struct {
	StartsAt           time.Time        `json:"starts_at" validate:"required"`
	Location           string           `json:"location" validate:"max=200"`
	Capacity           int              `json:"capacity" validate:"min=2,max=30"`
	RSVPCutoff         *time.Time       `json:"rsvp_cutoff"`
	RatingCutoff       *time.Time       `json:"rating_cutoff"`
	Status             model.GameStatus `json:"status" validate:"oneof=draft open closed"`
	UseFormAdjustments bool             `json:"use_form_adjustments"`
	CreatedBy          *uuid.UUID       `json:"created_by"`
}

func (in *GameInput) defaults() {
	if in.Capacity == 0 {
		in.Capacity = model.DefaultCapacity
	}
	if in.Status == "" {
		in.Status = model.GameOpen
	}
}

// CompleteInput records a final score.
type CompleteInput struct {
	GameID     uuid.UUID `json:"game_id" validate:"required"`
	ScoreTeamA int       `json:"score_team_a" validate:"min=0"`
	ScoreTeamB int       `json:"score_team_b" validate:"min=0"`
	Notes      string    `json:"notes" validate:"max=2000"`
}

// RatingInput is one peer rating, scores ordered tc, pd, da, en, fi, iq.
type RatingInput struct {
	RaterID uuid.UUID        `json:"rater_id" validate:"required"`
	RateeID uuid.UUID        `json:"ratee_id" validate:"required"`
	Scores  [skill.Count]int `json:"scores" validate:"dive,min=1,max=5"`
}

// FormInput is one adjuster's per-game nudge, values ordered tc..iq.
type FormInput struct {
	GameID     uuid.UUID        `json:"game_id" validate:"required"`
	AdjusterID uuid.UUID        `json:"adjuster_id" validate:"required"`
	PlayerID   uuid.UUID        `json:"player_id" validate:"required"`
	Values     [skill.Count]int `json:"values" validate:"dive,min=-1,max=1"`
	Note       string           `json:"note" validate:"max=500"`
}

// VoteInput is one award vote.
type VoteInput struct {
	GameID     uuid.UUID `json:"game_id" validate:"required"`
	VoterID    uuid.UUID `json:"voter_id" validate:"required"`
	CategoryID string    `json:"category_id" validate:"required"`
	NomineeID  uuid.UUID `json:"nominee_id" validate:"required"`
}
