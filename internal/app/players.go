package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/pkg/logger"
)

// UpsertPlayer registers a player or renames an existing one.
func (s *Service) UpsertPlayer(ctx context.Context, in PlayerInput) (model.Player, error) {
	if err := check(in); err != nil {
		return model.Player{}, err
	}
	p := model.Player{ID: in.ID, Name: in.Name, Role: in.Role, CreatedAt: s.now()}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Role == "" {
		p.Role = model.RolePlayer
	}
	if err := s.store.UpsertPlayer(ctx, p); err != nil {
		return model.Player{}, err
	}
	s.logger.Debug(ctx, "player saved", logger.String("player_id", p.ID.String()))
	return s.store.GetPlayer(ctx, p.ID)
}

// GetPlayer returns one player.
func (s *Service) GetPlayer(ctx context.Context, id uuid.UUID) (model.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

// ListPlayers returns every registered player.
func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// names maps player ids to display names. Unknown ids are skipped.
func (s *Service) names(ctx context.Context) (map[uuid.UUID]string, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(players))
	for _, p := range players {
		out[p.ID] = p.Name
	}
	return out, nil
}
