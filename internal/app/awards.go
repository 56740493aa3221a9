package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/squadup/internal/domain/awards"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/pkg/logger"
	"github.com/okian/squadup/pkg/metrics"
)

// AwardCategories returns the award reference set.
func (s *Service) AwardCategories(ctx context.Context) ([]model.AwardCategory, error) {
	return s.store.ListAwardCategories(ctx)
}

// SubmitAwardVote upserts a voter's pick in one category of a completed game.
func (s *Service) SubmitAwardVote(ctx context.Context, in VoteInput) (model.AwardVote, error) {
	if err := check(in); err != nil {
		return model.AwardVote{}, err
	}
	if in.VoterID == in.NomineeID {
		return model.AwardVote{}, ErrSelfVote
	}
	cats, err := s.store.ListAwardCategories(ctx)
	if err != nil {
		return model.AwardVote{}, err
	}
	if !slices.ContainsFunc(cats, func(c model.AwardCategory) bool { return c.ID == in.CategoryID }) {
		return model.AwardVote{}, ErrUnknownCategory
	}
	g, err := s.store.GetGame(ctx, in.GameID)
	if err != nil {
		return model.AwardVote{}, err
	}
	if g.Status != model.GameCompleted {
		return model.AwardVote{}, ErrGameNotCompleted
	}
	for _, id := range []uuid.UUID{in.VoterID, in.NomineeID} {
		if _, err := s.store.GetPlayer(ctx, id); err != nil {
			return model.AwardVote{}, err
		}
	}

	now := s.now()
	v := model.AwardVote{
		GameID:     in.GameID,
		VoterID:    in.VoterID,
		CategoryID: in.CategoryID,
		NomineeID:  in.NomineeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.UpsertAwardVote(ctx, v); err != nil {
		return model.AwardVote{}, err
	}
	metrics.RecordSubmission("award_vote")
	return v, nil
}

// TabulateAwards recomputes the game's award results, then decays the whole
// ledger and credits winners and runners-up. Results and ledger are written
// together or not at all.
func (s *Service) TabulateAwards(ctx context.Context, gameID uuid.UUID) (_ []model.AwardResult, err error) {
	ctx, end := s.span(ctx, "service.TabulateAwards")
	defer func() { end(err) }()
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("game_id", gameID.String()))

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	votes, err := s.store.ListAwardVotes(ctx, gameID)
	if err != nil {
		return nil, err
	}
	cats, err := s.store.ListAwardCategories(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	results, err := awards.Tabulate(gameID, cats, votes, now)
	if err != nil {
		metrics.RecordAwardTabulation(metrics.OutcomeRejected, 0, 0, 0)
		return nil, err
	}

	var out awards.Outcome
	err = s.store.SaveAwardOutcome(ctx, gameID, results, func(l *ledger.Ledger) error {
		out = awards.Apply(l, results, s.table, s.decay, now)
		return nil
	})
	if err != nil {
		metrics.RecordAwardTabulation(metrics.OutcomeFailed, 0, 0, 0)
		s.logger.Error(ctx, "failed to store award outcome", logger.Error(err))
		return nil, err
	}

	metrics.RecordAwardTabulation(metrics.OutcomeOK, len(results), out.Decayed, out.Applied)
	s.logger.Info(ctx, "awards tabulated",
		logger.String("game_id", gameID.String()),
		logger.Int("votes", len(votes)),
		logger.Int("results", len(results)),
		logger.Int("decayed", out.Decayed),
		logger.Int("applied", out.Applied),
		logger.Int("skipped", out.Skipped),
	)
	return results, nil
}

// AwardResults returns the stored results of a game in tabulation order.
func (s *Service) AwardResults(ctx context.Context, gameID uuid.UUID) ([]model.AwardResult, error) {
	return s.store.ListAwardResults(ctx, gameID)
}
