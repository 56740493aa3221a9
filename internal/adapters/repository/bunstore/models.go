package bunstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

func vectorOf(tc, pd, da, en, fi, iq float64) skill.Vector {
	return skill.Vector{tc, pd, da, en, fi, iq}
}

func valuesOf(tc, pd, da, en, fi, iq int) [skill.Count]int {
	return [skill.Count]int{tc, pd, da, en, fi, iq}
}

type playerRow struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	Name          string    `bun:"name,notnull"`
	Role          string    `bun:"role,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (r playerRow) model() model.Player {
	return model.Player{ID: r.ID, Name: r.Name, Role: model.Role(r.Role), CreatedAt: r.CreatedAt}
}

type gameRow struct {
	bun.BaseModel      `bun:"table:games,alias:g"`
	ID                 uuid.UUID  `bun:"id,pk,type:uuid"`
	StartsAt           time.Time  `bun:"starts_at,notnull"`
	Location           string     `bun:"location,notnull"`
	Capacity           int        `bun:"capacity,notnull"`
	RSVPCutoff         *time.Time `bun:"rsvp_cutoff"`
	RatingCutoff       *time.Time `bun:"rating_cutoff"`
	Status             string     `bun:"status,notnull"`
	UseFormAdjustments bool       `bun:"use_form_adjustments,notnull"`
	CreatedBy          *uuid.UUID `bun:"created_by,type:uuid"`
	CreatedAt          time.Time  `bun:"created_at,notnull"`
	CompletedAt        *time.Time `bun:"completed_at"`
	ScoreTeamA         *int       `bun:"score_team_a"`
	ScoreTeamB         *int       `bun:"score_team_b"`
	Notes              string     `bun:"notes,notnull"`
}

func toGameRow(g model.Game) *gameRow {
	return &gameRow{
		ID: g.ID, StartsAt: g.StartsAt, Location: g.Location, Capacity: g.Capacity,
		RSVPCutoff: g.RSVPCutoff, RatingCutoff: g.RatingCutoff, Status: string(g.Status),
		UseFormAdjustments: g.UseFormAdjustments, CreatedBy: g.CreatedBy, CreatedAt: g.CreatedAt,
		CompletedAt: g.CompletedAt, ScoreTeamA: g.ScoreTeamA, ScoreTeamB: g.ScoreTeamB, Notes: g.Notes,
	}
}

func (r gameRow) model() model.Game {
	return model.Game{
		ID: r.ID, StartsAt: r.StartsAt, Location: r.Location, Capacity: r.Capacity,
		RSVPCutoff: r.RSVPCutoff, RatingCutoff: r.RatingCutoff, Status: model.GameStatus(r.Status),
		UseFormAdjustments: r.UseFormAdjustments, CreatedBy: r.CreatedBy, CreatedAt: r.CreatedAt,
		CompletedAt: r.CompletedAt, ScoreTeamA: r.ScoreTeamA, ScoreTeamB: r.ScoreTeamB, Notes: r.Notes,
	}
}

type rsvpRow struct {
	bun.BaseModel `bun:"table:rsvps,alias:r"`
	GameID        uuid.UUID `bun:"game_id,pk,type:uuid"`
	PlayerID      uuid.UUID `bun:"player_id,pk,type:uuid"`
	Status        string    `bun:"status,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func (r rsvpRow) model() model.RSVP {
	return model.RSVP{GameID: r.GameID, PlayerID: r.PlayerID, Status: model.RSVPStatus(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type ratingRow struct {
	bun.BaseModel `bun:"table:ratings,alias:rt"`
	RaterID       uuid.UUID `bun:"rater_id,pk,type:uuid"`
	RateeID       uuid.UUID `bun:"ratee_id,pk,type:uuid"`
	TC            int       `bun:"tc,notnull"`
	PD            int       `bun:"pd,notnull"`
	DA            int       `bun:"da,notnull"`
	EN            int       `bun:"en,notnull"`
	FI            int       `bun:"fi,notnull"`
	IQ            int       `bun:"iq,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func toRatingRow(r model.Rating) *ratingRow {
	v := r.Scores
	return &ratingRow{
		RaterID: r.RaterID, RateeID: r.RateeID,
		TC: v[skill.TC], PD: v[skill.PD], DA: v[skill.DA], EN: v[skill.EN], FI: v[skill.FI], IQ: v[skill.IQ],
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r ratingRow) model() model.Rating {
	return model.Rating{RaterID: r.RaterID, RateeID: r.RateeID, Scores: valuesOf(r.TC, r.PD, r.DA, r.EN, r.FI, r.IQ), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type profileRow struct {
	bun.BaseModel `bun:"table:skill_profiles,alias:sp"`
	PlayerID      uuid.UUID `bun:"player_id,pk,type:uuid"`
	TC            float64   `bun:"tc,notnull"`
	PD            float64   `bun:"pd,notnull"`
	DA            float64   `bun:"da,notnull"`
	EN            float64   `bun:"en,notnull"`
	FI            float64   `bun:"fi,notnull"`
	IQ            float64   `bun:"iq,notnull"`
	Strength      float64   `bun:"strength,notnull"`
	Votes         int       `bun:"n_votes,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func toProfileRow(p model.SkillProfile) profileRow {
	v := p.Attrs
	return profileRow{
		PlayerID: p.PlayerID,
		TC: v[skill.TC], PD: v[skill.PD], DA: v[skill.DA], EN: v[skill.EN], FI: v[skill.FI], IQ: v[skill.IQ],
		Strength: p.Strength, Votes: p.Votes, UpdatedAt: p.UpdatedAt,
	}
}

func (r profileRow) model() model.SkillProfile {
	return model.SkillProfile{PlayerID: r.PlayerID, Attrs: vectorOf(r.TC, r.PD, r.DA, r.EN, r.FI, r.IQ), Strength: r.Strength, Votes: r.Votes, UpdatedAt: r.UpdatedAt}
}

type modifierRow struct {
	bun.BaseModel `bun:"table:performance_modifiers,alias:pm"`
	PlayerID      uuid.UUID `bun:"player_id,pk,type:uuid"`
	TC            float64   `bun:"tc,notnull"`
	PD            float64   `bun:"pd,notnull"`
	DA            float64   `bun:"da,notnull"`
	EN            float64   `bun:"en,notnull"`
	FI            float64   `bun:"fi,notnull"`
	IQ            float64   `bun:"iq,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func toModifierRow(m model.PerformanceModifier) modifierRow {
	v := m.Deltas
	return modifierRow{
		PlayerID: m.PlayerID,
		TC: v[skill.TC], PD: v[skill.PD], DA: v[skill.DA], EN: v[skill.EN], FI: v[skill.FI], IQ: v[skill.IQ],
		UpdatedAt: m.UpdatedAt,
	}
}

func (r modifierRow) model() model.PerformanceModifier {
	return model.PerformanceModifier{PlayerID: r.PlayerID, Deltas: vectorOf(r.TC, r.PD, r.DA, r.EN, r.FI, r.IQ), UpdatedAt: r.UpdatedAt}
}

type formRow struct {
	bun.BaseModel `bun:"table:form_adjustments,alias:fa"`
	GameID        uuid.UUID `bun:"game_id,pk,type:uuid"`
	AdjusterID    uuid.UUID `bun:"adjuster_id,pk,type:uuid"`
	PlayerID      uuid.UUID `bun:"player_id,pk,type:uuid"`
	TC            int       `bun:"tc,notnull"`
	PD            int       `bun:"pd,notnull"`
	DA            int       `bun:"da,notnull"`
	EN            int       `bun:"en,notnull"`
	FI            int       `bun:"fi,notnull"`
	IQ            int       `bun:"iq,notnull"`
	Note          string    `bun:"note,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func toFormRow(a model.FormAdjustment) *formRow {
	v := a.Values
	return &formRow{
		GameID: a.GameID, AdjusterID: a.AdjusterID, PlayerID: a.PlayerID,
		TC: v[skill.TC], PD: v[skill.PD], DA: v[skill.DA], EN: v[skill.EN], FI: v[skill.FI], IQ: v[skill.IQ],
		Note: a.Note, UpdatedAt: a.UpdatedAt,
	}
}

func (r formRow) model() model.FormAdjustment {
	return model.FormAdjustment{GameID: r.GameID, AdjusterID: r.AdjusterID, PlayerID: r.PlayerID, Values: valuesOf(r.TC, r.PD, r.DA, r.EN, r.FI, r.IQ), Note: r.Note, UpdatedAt: r.UpdatedAt}
}

type teamRow struct {
	bun.BaseModel `bun:"table:team_assignments,alias:ta"`
	GameID        uuid.UUID `bun:"game_id,pk,type:uuid"`
	TeamA         []string  `bun:"team_a,array"`
	TeamB         []string  `bun:"team_b,array"`
	Cost          float64   `bun:"cost,notnull"`
	Locked        bool      `bun:"locked,notnull"`
	Published     bool      `bun:"published,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func toTeamRow(t model.TeamAssignment) *teamRow {
	return &teamRow{
		GameID: t.GameID, TeamA: idStrings(t.TeamA), TeamB: idStrings(t.TeamB), Cost: t.Cost,
		Locked: t.Locked, Published: t.Published, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

func (r teamRow) model() (model.TeamAssignment, error) {
	a, err := parseIDs(r.TeamA)
	if err != nil {
		return model.TeamAssignment{}, err
	}
	b, err := parseIDs(r.TeamB)
	if err != nil {
		return model.TeamAssignment{}, err
	}
	return model.TeamAssignment{
		GameID: r.GameID, TeamA: a, TeamB: b, Cost: r.Cost, Locked: r.Locked,
		Published: r.Published, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseIDs(ss []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ss))
	for i, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

type categoryRow struct {
	bun.BaseModel `bun:"table:award_categories,alias:ac"`
	ID            string `bun:"id,pk"`
	Label         string `bun:"label,notnull"`
	Description   string `bun:"description,notnull"`
	SortOrder     int    `bun:"sort_order,notnull"`
}

type voteRow struct {
	bun.BaseModel `bun:"table:award_votes,alias:av"`
	GameID        uuid.UUID `bun:"game_id,pk,type:uuid"`
	VoterID       uuid.UUID `bun:"voter_id,pk,type:uuid"`
	CategoryID    string    `bun:"category_id,pk"`
	NomineeID     uuid.UUID `bun:"nominee_id,notnull,type:uuid"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func (r voteRow) model() model.AwardVote {
	return model.AwardVote{GameID: r.GameID, VoterID: r.VoterID, CategoryID: r.CategoryID, NomineeID: r.NomineeID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type resultRow struct {
	bun.BaseModel `bun:"table:award_results,alias:ar"`
	GameID        uuid.UUID  `bun:"game_id,pk,type:uuid"`
	CategoryID    string     `bun:"category_id,pk"`
	WinnerID      uuid.UUID  `bun:"winner_id,notnull,type:uuid"`
	WinnerVotes   int        `bun:"winner_votes,notnull"`
	RunnerUpID    *uuid.UUID `bun:"runner_up_id,type:uuid"`
	RunnerUpVotes *int       `bun:"runner_up_votes"`
	SortOrder     int        `bun:"sort_order,notnull"`
	ComputedAt    time.Time  `bun:"computed_at,notnull"`
}

func (r resultRow) model() model.AwardResult {
	return model.AwardResult{
		GameID: r.GameID, CategoryID: r.CategoryID, WinnerID: r.WinnerID, WinnerVotes: r.WinnerVotes,
		RunnerUpID: r.RunnerUpID, RunnerUpVotes: r.RunnerUpVotes, ComputedAt: r.ComputedAt,
	}
}
