package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/domain/aggregate"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/resolve"
	"github.com/okian/squadup/internal/domain/skill"
	"github.com/okian/squadup/internal/domain/types"
	"github.com/okian/squadup/pkg/logger"
	"github.com/okian/squadup/pkg/metrics"
)

// SubmitRating upserts one rater's scores for one ratee.
func (s *Service) SubmitRating(ctx context.Context, in RatingInput) (model.Rating, error) {
	if err := check(in); err != nil {
		return model.Rating{}, err
	}
	if in.RaterID == in.RateeID {
		return model.Rating{}, ErrSelfRating
	}
	for _, id := range []uuid.UUID{in.RaterID, in.RateeID} {
		if _, err := s.store.GetPlayer(ctx, id); err != nil {
			return model.Rating{}, err
		}
	}

	now := s.now()
	r := model.Rating{RaterID: in.RaterID, RateeID: in.RateeID, Scores: in.Scores, CreatedAt: now, UpdatedAt: now}
	if err := s.store.UpsertRating(ctx, r); err != nil {
		return model.Rating{}, err
	}
	metrics.RecordSubmission("rating")
	if s.autoAggregate {
		s.scheduleAggregate(ctx)
	}
	return r, nil
}

// AggregateSkillProfiles recomputes every skill profile from the ratings and
// swaps the stored set in one step.
func (s *Service) AggregateSkillProfiles(ctx context.Context) (_ []model.SkillProfile, err error) {
	ctx, end := s.span(ctx, "service.AggregateSkillProfiles")
	defer func() { end(err) }()
	start := time.Now()

	ratings, err := s.store.ListRatings(ctx)
	if err != nil {
		metrics.RecordAggregation(metrics.OutcomeFailed, msSince(start), 0)
		return nil, err
	}
	profiles, err := aggregate.Compute(ratings, s.now())
	if err != nil {
		metrics.RecordAggregation(metrics.OutcomeRejected, msSince(start), 0)
		return nil, err
	}
	if err := s.store.ReplaceSkillProfiles(ctx, profiles); err != nil {
		metrics.RecordAggregation(metrics.OutcomeFailed, msSince(start), 0)
		s.logger.Error(ctx, "failed to store skill profiles", logger.Error(err))
		return nil, err
	}

	metrics.RecordAggregation(metrics.OutcomeOK, msSince(start), len(profiles))
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("ratings", len(ratings)),
		attribute.Int("profiles", len(profiles)),
	)
	s.logger.Info(ctx, "skill profiles aggregated",
		logger.Int("ratings", len(ratings)),
		logger.Int("profiles", len(profiles)),
	)
	return profiles, nil
}

// ResolvePlayerVectors builds the per-game attribute vectors of ids. Players
// without a profile resolve to the default value. Form adjustments of gameID
// are included only when useForm is set.
func (s *Service) ResolvePlayerVectors(ctx context.Context, gameID uuid.UUID, ids []uuid.UUID, useForm bool) ([]skill.PlayerVector, error) {
	in := resolve.Inputs{UseFormAdjustments: useForm}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Profiles, err = s.store.ListSkillProfiles(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		in.Modifiers, err = s.store.ListModifiers(gctx, ids)
		return err
	})
	if useForm {
		g.Go(func() error {
			var err error
			in.Adjustments, err = s.store.ListFormAdjustments(gctx, gameID, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load resolver inputs: %w", err)
	}
	return s.resolver.Resolve(ids, in), nil
}

// ApplyPerformanceDelta credits playerID with categoryID's delta table scaled
// by multiplier. It reports false when the category has no delta table.
func (s *Service) ApplyPerformanceDelta(ctx context.Context, playerID uuid.UUID, categoryID string, multiplier float64) (bool, error) {
	delta, ok := s.table.Lookup(categoryID)
	if !ok {
		return false, nil
	}
	err := s.store.UpdateModifiers(ctx, func(l *ledger.Ledger) error {
		l.Apply(playerID, delta, multiplier, s.now())
		return nil
	})
	if err != nil {
		return false, err
	}
	metrics.RecordModifierDelta()
	s.logger.Info(ctx, "performance delta applied",
		logger.String("player_id", playerID.String()),
		logger.String("category", categoryID),
		logger.Float64("multiplier", multiplier),
	)
	return true, nil
}

// Modifiers returns the ledger rows of ids, or every row when ids is nil.
func (s *Service) Modifiers(ctx context.Context, ids []uuid.UUID) ([]model.PerformanceModifier, error) {
	return s.store.ListModifiers(ctx, ids)
}

// Standings returns up to limit skill profiles ranked by strength.
func (s *Service) Standings(ctx context.Context, limit int) ([]types.ProfileEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	limit = min(limit, s.maxProfileLimit)

	entries, err := s.rankedProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ProfileRank returns the ranked profile of one player.
func (s *Service) ProfileRank(ctx context.Context, playerID uuid.UUID) (types.ProfileEntry, error) {
	entries, err := s.rankedProfiles(ctx)
	if err != nil {
		return types.ProfileEntry{}, err
	}
	for _, e := range entries {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return types.ProfileEntry{}, fmt.Errorf("skill profile of %s: %w", playerID, repository.ErrNotFound)
}

// rankedProfiles orders profiles by strength desc, then votes desc, then id.
// Equal strength and votes share a rank.
func (s *Service) rankedProfiles(ctx context.Context) ([]types.ProfileEntry, error) {
	profiles, err := s.store.ListSkillProfiles(ctx, nil)
	if err != nil {
		return nil, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(profiles, func(a, b model.SkillProfile) int {
		if c := cmp.Compare(b.Strength, a.Strength); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Votes, a.Votes); c != 0 {
			return c
		}
		return slices.Compare(a.PlayerID[:], b.PlayerID[:])
	})

	out := make([]types.ProfileEntry, len(profiles))
	for i, p := range profiles {
		rank := i + 1
		if i > 0 && p.Strength == profiles[i-1].Strength && p.Votes == profiles[i-1].Votes {
			rank = out[i-1].Rank
		}
		out[i] = types.ProfileEntry{
			Rank:      rank,
			PlayerID:  p.PlayerID,
			Name:      names[p.PlayerID],
			Attrs:     p.Attrs.Map(),
			Strength:  p.Strength,
			Votes:     p.Votes,
			UpdatedAt: p.UpdatedAt,
		}
	}
	return out, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
