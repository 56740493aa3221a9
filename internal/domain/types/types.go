// Package types contains read views shared by the service and its adapters.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ProfileEntry is one ranked row of the skill standings.
type ProfileEntry struct {
	Rank      int                `json:"rank"`
	PlayerID  uuid.UUID          `json:"player_id"`
	Name      string             `json:"name,omitempty"`
	Attrs     map[string]float64 `json:"attributes"`
	Strength  float64            `json:"strength"`
	Votes     int                `json:"n_votes"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TeamsView is a team assignment with resolved player names.
type TeamsView struct {
	GameID    uuid.UUID    `json:"game_id"`
	TeamA     []TeamMember `json:"team_a"`
	TeamB     []TeamMember `json:"team_b"`
	Cost      float64      `json:"cost"`
	Locked    bool         `json:"locked"`
	Published bool         `json:"published"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TeamMember is one player slot in a TeamsView.
type TeamMember struct {
	PlayerID uuid.UUID `json:"player_id"`
	Name     string    `json:"name,omitempty"`
}
