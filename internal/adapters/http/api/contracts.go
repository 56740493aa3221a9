package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

// attrScores mirrors the six per-attribute integers of a rating or form
// adjustment in the OpenAPI schema.
type attrScores struct {
	TC int `json:"tc"`
	PD int `json:"pd"`
	DA int `json:"da"`
	EN int `json:"en"`
	FI int `json:"fi"`
	IQ int `json:"iq"`
}

func (a attrScores) array() [skill.Count]int {
	return [skill.Count]int{a.TC, a.PD, a.DA, a.EN, a.FI, a.IQ}
}

type ratingRequest struct {
	RaterID uuid.UUID `json:"rater_id"`
	RateeID uuid.UUID `json:"ratee_id"`
	attrScores
}

type formRequest struct {
	AdjusterID uuid.UUID `json:"adjuster_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	Note       string    `json:"note"`
	attrScores
}

type rsvpRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
	Action   string    `json:"action"`
}

const (
	actionJoin   = "join"
	actionCancel = "cancel"
)

type completeRequest struct {
	ScoreTeamA int    `json:"score_team_a"`
	ScoreTeamB int    `json:"score_team_b"`
	Notes      string `json:"notes"`
}

type statusRequest struct {
	Status model.GameStatus `json:"status"`
}

type voteRequest struct {
	VoterID    uuid.UUID `json:"voter_id"`
	CategoryID string    `json:"category_id"`
	NomineeID  uuid.UUID `json:"nominee_id"`
}

type modifierRequest struct {
	CategoryID string   `json:"category_id"`
	Multiplier *float64 `json:"multiplier"`
}

type playerResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

func newPlayerResponse(p model.Player) playerResponse {
	return playerResponse{ID: p.ID, Name: p.Name, Role: p.Role, CreatedAt: p.CreatedAt}
}

type gameResponse struct {
	ID                 uuid.UUID        `json:"id"`
	StartsAt           time.Time        `json:"starts_at"`
	Location           string           `json:"location,omitempty"`
	Capacity           int              `json:"capacity"`
	RSVPCutoff         *time.Time       `json:"rsvp_cutoff,omitempty"`
	RatingCutoff       *time.Time       `json:"rating_cutoff,omitempty"`
	Status             model.GameStatus `json:"status"`
	UseFormAdjustments bool             `json:"use_form_adjustments"`
	CreatedBy          *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`
	ScoreTeamA         *int             `json:"score_team_a,omitempty"`
	ScoreTeamB         *int             `json:"score_team_b,omitempty"`
	Notes              string           `json:"notes,omitempty"`
}

func newGameResponse(g model.Game) gameResponse {
	return gameResponse{
		ID:                 g.ID,
		StartsAt:           g.StartsAt,
		Location:           g.Location,
		Capacity:           g.Capacity,
		RSVPCutoff:         g.RSVPCutoff,
		RatingCutoff:       g.RatingCutoff,
		Status:             g.Status,
		UseFormAdjustments: g.UseFormAdjustments,
		CreatedBy:          g.CreatedBy,
		CreatedAt:          g.CreatedAt,
		CompletedAt:        g.CompletedAt,
		ScoreTeamA:         g.ScoreTeamA,
		ScoreTeamB:         g.ScoreTeamB,
		Notes:              g.Notes,
	}
}

type rsvpResponse struct {
	GameID    uuid.UUID        `json:"game_id"`
	PlayerID  uuid.UUID        `json:"player_id"`
	Status    model.RSVPStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func newRSVPResponse(r model.RSVP) rsvpResponse {
	return rsvpResponse{GameID: r.GameID, PlayerID: r.PlayerID, Status: r.Status, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type leaveResponse struct {
	Status   model.RSVPStatus `json:"status"`
	Promoted *rsvpResponse    `json:"promoted,omitempty"`
}

type ratingResponse struct {
	RaterID   uuid.UUID          `json:"rater_id"`
	RateeID   uuid.UUID          `json:"ratee_id"`
	Scores    map[string]float64 `json:"scores"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type formResponse struct {
	GameID     uuid.UUID          `json:"game_id"`
	AdjusterID uuid.UUID          `json:"adjuster_id"`
	PlayerID   uuid.UUID          `json:"player_id"`
	Values     map[string]float64 `json:"values"`
	Note       string             `json:"note,omitempty"`
}

type aggregateResponse struct {
	Profiles int `json:"profiles"`
}

type teamsResponse struct {
	GameID    uuid.UUID   `json:"game_id"`
	TeamA     []uuid.UUID `json:"team_a"`
	TeamB     []uuid.UUID `json:"team_b"`
	Cost      float64     `json:"cost"`
	Locked    bool        `json:"locked"`
	Published bool        `json:"published"`
}

type categoryResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type voteResponse struct {
	GameID     uuid.UUID `json:"game_id"`
	VoterID    uuid.UUID `json:"voter_id"`
	CategoryID string    `json:"category_id"`
	NomineeID  uuid.UUID `json:"nominee_id"`
}

type awardResponse struct {
	CategoryID    string     `json:"category_id"`
	WinnerID      uuid.UUID  `json:"winner_id"`
	WinnerVotes   int        `json:"winner_votes"`
	RunnerUpID    *uuid.UUID `json:"runner_up_id,omitempty"`
	RunnerUpVotes *int       `json:"runner_up_votes,omitempty"`
	ComputedAt    time.Time  `json:"computed_at"`
}

func newAwardResponses(rs []model.AwardResult) []awardResponse {
	out := make([]awardResponse, len(rs))
	for i, r := range rs {
		out[i] = awardResponse{
			CategoryID:    r.CategoryID,
			WinnerID:      r.WinnerID,
			WinnerVotes:   r.WinnerVotes,
			RunnerUpID:    r.RunnerUpID,
			RunnerUpVotes: r.RunnerUpVotes,
			ComputedAt:    r.ComputedAt,
		}
	}
	return out
}

type modifierResponse struct {
	Applied bool `json:"applied"`
}
