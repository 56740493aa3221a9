// Package model contains domain records passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/skill"
)

// Role is a player's global permission level.
type Role string

// Roles.
const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

// Player is a registered participant.
type Player struct {
	ID        uuid.UUID
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Rating is one rater's six scores (1..5) for one ratee.
// Unique per (RaterID, RateeID).
type Rating struct {
	RaterID   uuid.UUID
	RateeID   uuid.UUID
	Scores    [skill.Count]int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vector returns the scores as a skill vector.
func (r Rating) Vector() skill.Vector {
	var v skill.Vector
	for i, s := range r.Scores {
		v[i] = float64(s)
	}
	return v
}

// SkillProfile is the aggregated, materialized view of a player's ratings.
type SkillProfile struct {
	PlayerID  uuid.UUID
	Attrs     skill.Vector
	Strength  float64
	Votes     int
	UpdatedAt time.Time
}

// PerformanceModifier is a player's persistent additive correction.
type PerformanceModifier struct {
	PlayerID  uuid.UUID
	Deltas    skill.Vector
	UpdatedAt time.Time
}

// FormAdjustment is a one-off per-game nudge in {-1,0,+1} per attribute.
// Unique per (GameID, AdjusterID, PlayerID).
type FormAdjustment struct {
	GameID     uuid.UUID
	AdjusterID uuid.UUID
	PlayerID   uuid.UUID
	Values     [skill.Count]int
	Note       string
	UpdatedAt  time.Time
}

// Vector returns the adjustment values as a skill vector.
func (f FormAdjustment) Vector() skill.Vector {
	var v skill.Vector
	for i, s := range f.Values {
		v[i] = float64(s)
	}
	return v
}

// TeamAssignment is the generated split for one game.
type TeamAssignment struct {
	GameID    uuid.UUID
	TeamA     []uuid.UUID
	TeamB     []uuid.UUID
	Cost      float64
	Locked    bool
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the two teams are disjoint and together contain exactly ids.
func (t TeamAssignment) Covers(ids []uuid.UUID) bool {
	if len(t.TeamA)+len(t.TeamB) != len(ids) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range t.TeamA {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	for _, id := range t.TeamB {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return false
		}
	}
	return true
}

// AwardCategory is a member of the fixed award reference set.
type AwardCategory struct {
	ID          string
	Label       string
	Description string
}

// AwardVote is one voter's pick in one category for one game.
// Unique per (GameID, VoterID, CategoryID).
type AwardVote struct {
	GameID     uuid.UUID
	VoterID    uuid.UUID
	CategoryID string
	NomineeID  uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AwardResult is the tabulated outcome of one category for one game.
type AwardResult struct {
	GameID        uuid.UUID
	CategoryID    string
	WinnerID      uuid.UUID
	WinnerVotes   int
	RunnerUpID    *uuid.UUID
	RunnerUpVotes *int
	ComputedAt    time.Time
}

// Award category ids of the reference set.
const (
	CategoryMVP          = "mvp"
	CategoryTopScorer    = "top_scorer"
	CategoryBestDefender = "best_defender"
	CategoryBestGoalie   = "best_goalie"
	CategoryMostImproved = "most_improved"
)

// DefaultAwardCategories returns the reference set in tabulation order.
func DefaultAwardCategories() []AwardCategory {
	return []AwardCategory{
		{ID: CategoryMVP, Label: "MVP", Description: "Most valuable player of the match"},
		{ID: CategoryTopScorer, Label: "Top Scorer", Description: "Scored or created the most goals"},
		{ID: CategoryBestDefender, Label: "Best Defender", Description: "Kept the opposition quiet"},
		{ID: CategoryBestGoalie, Label: "Best Goalkeeper", Description: "Best shot-stopping and distribution"},
		{ID: CategoryMostImproved, Label: "Most Improved", Description: "Biggest step up compared to previous games"},
	}
}
