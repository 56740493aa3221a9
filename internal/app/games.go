package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/pkg/logger"
	"github.com/okian/squadup/pkg/metrics"
)

// CreateGame schedules a new game.
func (s *Service) CreateGame(ctx context.Context, in GameInput) (model.Game, error) {
	in.defaults()
	if err := check(in); err != nil {
		return model.Game{}, err
	}
	g := model.Game{
		ID:                 uuid.New(),
		StartsAt:           in.StartsAt,
		Location:           in.Location,
		Capacity:           in.Capacity,
		RSVPCutoff:         in.RSVPCutoff,
		RatingCutoff:       in.RatingCutoff,
		Status:             in.Status,
		UseFormAdjustments: in.UseFormAdjustments,
		CreatedBy:          in.CreatedBy,
		CreatedAt:          s.now(),
	}
	if err := s.store.CreateGame(ctx, g); err != nil {
		return model.Game{}, err
	}
	s.logger.Info(ctx, "game created",
		logger.String("game_id", g.ID.String()),
		logger.Int("capacity", g.Capacity),
	)
	return g, nil
}

// GetGame returns one game.
func (s *Service) GetGame(ctx context.Context, id uuid.UUID) (model.Game, error) {
	return s.store.GetGame(ctx, id)
}

// SetGameStatus moves a game between draft, open and closed.
func (s *Service) SetGameStatus(ctx context.Context, id uuid.UUID, status model.GameStatus) (model.Game, error) {
	switch status {
	case model.GameDraft, model.GameOpen, model.GameClosed:
	default:
		return model.Game{}, ErrInvalidStatus
	}
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return model.Game{}, err
	}
	if g.Status == model.GameCompleted {
		return model.Game{}, ErrGameNotOpen
	}
	g.Status = status
	if err := s.store.UpdateGame(ctx, g); err != nil {
		return model.Game{}, err
	}
	return g, nil
}

// CompleteGame records the final score and publishes the teams.
func (s *Service) CompleteGame(ctx context.Context, in CompleteInput) (model.Game, error) {
	if err := check(in); err != nil {
		return model.Game{}, err
	}
	g, err := s.store.GetGame(ctx, in.GameID)
	if err != nil {
		return model.Game{}, err
	}
	now := s.now()
	g.Status = model.GameCompleted
	g.CompletedAt = &now
	g.ScoreTeamA = &in.ScoreTeamA
	g.ScoreTeamB = &in.ScoreTeamB
	g.Notes = in.Notes
	if err := s.store.UpdateGame(ctx, g); err != nil {
		return model.Game{}, err
	}

	published := true
	err = s.store.SetTeamFlags(ctx, g.ID, repository.TeamFlags{Published: &published})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.Game{}, err
	}
	s.logger.Info(ctx, "game completed",
		logger.String("game_id", g.ID.String()),
		logger.Int("score_a", in.ScoreTeamA),
		logger.Int("score_b", in.ScoreTeamB),
	)
	return g, nil
}

// ListRSVPs returns a game's sign-ups, optionally filtered by status.
func (s *Service) ListRSVPs(ctx context.Context, gameID uuid.UUID, status model.RSVPStatus) ([]model.RSVP, error) {
	return s.store.ListRSVPs(ctx, gameID, status)
}

// JoinGame signs a player up. The player is confirmed while seats remain and
// waitlisted otherwise. An active sign-up is returned unchanged.
func (s *Service) JoinGame(ctx context.Context, gameID, playerID uuid.UUID) (model.RSVP, error) {
	g, err := s.openGame(ctx, gameID)
	if err != nil {
		return model.RSVP{}, err
	}
	if _, err := s.store.GetPlayer(ctx, playerID); err != nil {
		return model.RSVP{}, err
	}

	all, err := s.store.ListRSVPs(ctx, gameID, "")
	if err != nil {
		return model.RSVP{}, err
	}
	confirmed := 0
	for _, r := range all {
		if r.PlayerID == playerID && r.Status != model.RSVPCancelled {
			return r, nil
		}
		if r.Status == model.RSVPConfirmed {
			confirmed++
		}
	}

	now := s.now()
	r := model.RSVP{GameID: gameID, PlayerID: playerID, Status: model.RSVPWaitlist, CreatedAt: now, UpdatedAt: now}
	if confirmed < g.Capacity {
		r.Status = model.RSVPConfirmed
	}
	if err := s.store.UpsertRSVP(ctx, r); err != nil {
		return model.RSVP{}, err
	}
	metrics.RecordSubmission("rsvp")
	s.logger.Info(ctx, "player joined game",
		logger.String("game_id", gameID.String()),
		logger.String("player_id", playerID.String()),
		logger.String("status", string(r.Status)),
	)
	return r, nil
}

// LeaveGame cancels a sign-up. When a confirmed seat frees up, the earliest
// waitlisted player is promoted and returned.
func (s *Service) LeaveGame(ctx context.Context, gameID, playerID uuid.UUID) (*model.RSVP, error) {
	g, err := s.openGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	all, err := s.store.ListRSVPs(ctx, gameID, "")
	if err != nil {
		return nil, err
	}
	var (
		mine      *model.RSVP
		confirmed int
		waitlist  []model.RSVP
	)
	for i, r := range all {
		switch {
		case r.PlayerID == playerID:
			mine = &all[i]
		case r.Status == model.RSVPConfirmed:
			confirmed++
		case r.Status == model.RSVPWaitlist:
			waitlist = append(waitlist, r)
		}
	}
	if mine == nil || mine.Status == model.RSVPCancelled {
		return nil, ErrNotSignedUp
	}

	now := s.now()
	mine.Status, mine.UpdatedAt = model.RSVPCancelled, now
	if err := s.store.UpsertRSVP(ctx, *mine); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "player left game",
		logger.String("game_id", gameID.String()),
		logger.String("player_id", playerID.String()),
	)

	if len(waitlist) == 0 || confirmed >= g.Capacity {
		return nil, nil
	}
	next := waitlist[0]
	next.Status, next.UpdatedAt = model.RSVPConfirmed, now
	if err := s.store.UpsertRSVP(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "waitlisted player promoted",
		logger.String("game_id", gameID.String()),
		logger.String("player_id", next.PlayerID.String()),
	)
	return &next, nil
}

func (s *Service) openGame(ctx context.Context, id uuid.UUID) (model.Game, error) {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return model.Game{}, err
	}
	if g.Status == model.GameClosed || g.Status == model.GameCompleted {
		return model.Game{}, ErrGameNotOpen
	}
	if !g.AcceptsRSVP(s.now()) {
		return model.Game{}, ErrRSVPCutoff
	}
	return g, nil
}
