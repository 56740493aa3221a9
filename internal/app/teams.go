package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/partition"
	"github.com/okian/squadup/internal/domain/types"
	"github.com/okian/squadup/pkg/logger"
	"github.com/okian/squadup/pkg/metrics"
)

// SaveFormAdjustment upserts one adjuster's nudge for one player in one game.
func (s *Service) SaveFormAdjustment(ctx context.Context, in FormInput) (model.FormAdjustment, error) {
	if err := check(in); err != nil {
		return model.FormAdjustment{}, err
	}
	if _, err := s.store.GetGame(ctx, in.GameID); err != nil {
		return model.FormAdjustment{}, err
	}
	if _, err := s.store.GetPlayer(ctx, in.PlayerID); err != nil {
		return model.FormAdjustment{}, err
	}
	a := model.FormAdjustment{
		GameID:     in.GameID,
		AdjusterID: in.AdjusterID,
		PlayerID:   in.PlayerID,
		Values:     in.Values,
		Note:       in.Note,
		UpdatedAt:  s.now(),
	}
	if err := s.store.UpsertFormAdjustment(ctx, a); err != nil {
		return model.FormAdjustment{}, err
	}
	metrics.RecordSubmission("form_adjustment")
	return a, nil
}

// GenerateTeams splits the game's confirmed players into the most balanced
// pair of squads and stores the result, unlocked and unpublished.
func (s *Service) GenerateTeams(ctx context.Context, gameID uuid.UUID) (_ model.TeamAssignment, err error) {
	ctx, end := s.span(ctx, "service.GenerateTeams")
	defer func() { end(err) }()
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("game_id", gameID.String()))

	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return model.TeamAssignment{}, err
	}
	if current, err := s.store.GetTeamAssignment(ctx, gameID); err == nil && current.Locked {
		metrics.RecordTeamGeneration(metrics.OutcomeRejected, 0, 0)
		return model.TeamAssignment{}, repository.ErrTeamsLocked
	}

	rsvps, err := s.store.ListRSVPs(ctx, gameID, model.RSVPConfirmed)
	if err != nil {
		return model.TeamAssignment{}, err
	}
	if len(rsvps) != partition.PlayerCount {
		metrics.RecordTeamGeneration(metrics.OutcomeRejected, 0, 0)
		return model.TeamAssignment{}, fmt.Errorf("%w: need %d confirmed players, found %d",
			partition.ErrInvalidPlayerCount, partition.PlayerCount, len(rsvps))
	}
	ids := make([]uuid.UUID, len(rsvps))
	for i, r := range rsvps {
		ids[i] = r.PlayerID
	}

	vectors, err := s.ResolvePlayerVectors(ctx, gameID, ids, g.UseFormAdjustments)
	if err != nil {
		metrics.RecordTeamGeneration(metrics.OutcomeFailed, 0, 0)
		return model.TeamAssignment{}, err
	}
	res, err := partition.Generate(ctx, vectors)
	if err != nil {
		metrics.RecordTeamGeneration(metrics.OutcomeRejected, 0, 0)
		return model.TeamAssignment{}, err
	}

	now := s.now()
	t := model.TeamAssignment{
		GameID:    gameID,
		TeamA:     res.TeamA,
		TeamB:     res.TeamB,
		Cost:      res.Cost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveTeamAssignment(ctx, t); err != nil {
		metrics.RecordTeamGeneration(metrics.OutcomeFailed, 0, 0)
		return model.TeamAssignment{}, err
	}
	metrics.RecordTeamGeneration(metrics.OutcomeOK, res.Cost, res.Evaluated)
	s.logger.Info(ctx, "teams generated",
		logger.String("game_id", gameID.String()),
		logger.Float64("cost", res.Cost),
		logger.Int("evaluated", res.Evaluated),
		logger.Bool("form_adjustments", g.UseFormAdjustments),
	)
	return t, nil
}

// Teams returns the game's assignment with player names.
func (s *Service) Teams(ctx context.Context, gameID uuid.UUID) (types.TeamsView, error) {
	t, err := s.store.GetTeamAssignment(ctx, gameID)
	if err != nil {
		return types.TeamsView{}, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return types.TeamsView{}, err
	}
	members := func(ids []uuid.UUID) []types.TeamMember {
		out := make([]types.TeamMember, len(ids))
		for i, id := range ids {
			out[i] = types.TeamMember{PlayerID: id, Name: names[id]}
		}
		return out
	}
	return types.TeamsView{
		GameID:    t.GameID,
		TeamA:     members(t.TeamA),
		TeamB:     members(t.TeamB),
		Cost:      t.Cost,
		Locked:    t.Locked,
		Published: t.Published,
		UpdatedAt: t.UpdatedAt,
	}, nil
}

// LockTeams freezes the assignment against regeneration.
func (s *Service) LockTeams(ctx context.Context, gameID uuid.UUID) error {
	return s.setTeamFlag(ctx, gameID, "locked", true)
}

// UnlockTeams allows the assignment to be regenerated.
func (s *Service) UnlockTeams(ctx context.Context, gameID uuid.UUID) error {
	return s.setTeamFlag(ctx, gameID, "locked", false)
}

// PublishTeams shows or hides the assignment.
func (s *Service) PublishTeams(ctx context.Context, gameID uuid.UUID, publish bool) error {
	return s.setTeamFlag(ctx, gameID, "published", publish)
}

func (s *Service) setTeamFlag(ctx context.Context, gameID uuid.UUID, flag string, v bool) error {
	var f repository.TeamFlags
	switch flag {
	case "locked":
		f.Locked = &v
	case "published":
		f.Published = &v
	}
	if err := s.store.SetTeamFlags(ctx, gameID, f); err != nil {
		return err
	}
	s.logger.Info(ctx, "team flag changed",
		logger.String("game_id", gameID.String()),
		logger.String("flag", flag),
		logger.Bool("value", v),
	)
	return nil
}
