//go:build integration

package bunstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/adapters/repository/bunstore"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

func setupStore(t *testing.T) *bunstore.Store {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("squadup"),
		postgres.WithUsername("squadup"),
		postgres.WithPassword("squadup"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pg)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := bunstore.Open(ctx, dsn, bunstore.WithConnectAttempts(10), bunstore.WithConnectDelay(time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Migrate(ctx)
	require.NoError(t, err)
	return s
}

func seedPlayers(t *testing.T, s *bunstore.Store, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, s.UpsertPlayer(context.Background(), model.Player{
			ID: ids[i], Name: "player", Role: model.RolePlayer, CreatedAt: time.Now().UTC(),
		}))
	}
	return ids
}

func TestStore_Postgres(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	ids := seedPlayers(t, s, 3)

	game := model.Game{ID: uuid.New(), StartsAt: now.Add(24 * time.Hour), Capacity: 10, Status: model.GameOpen, CreatedAt: now}
	require.NoError(t, s.CreateGame(ctx, game))

	t.Run("categories are seeded in order", func(t *testing.T) {
		cats, err := s.ListAwardCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 5)
		assert.Equal(t, model.CategoryMVP, cats[0].ID)
		assert.Equal(t, model.CategoryMostImproved, cats[4].ID)
	})

	t.Run("rsvp upsert keeps created_at", func(t *testing.T) {
		require.NoError(t, s.UpsertRSVP(ctx, model.RSVP{GameID: game.ID, PlayerID: ids[0], Status: model.RSVPWaitlist, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, s.UpsertRSVP(ctx, model.RSVP{GameID: game.ID, PlayerID: ids[0], Status: model.RSVPConfirmed, CreatedAt: now.Add(time.Hour), UpdatedAt: now.Add(time.Hour)}))
		rs, err := s.ListRSVPs(ctx, game.ID, model.RSVPConfirmed)
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.True(t, rs[0].CreatedAt.Equal(now))
	})

	t.Run("ratings upsert on rater and ratee", func(t *testing.T) {
		r := model.Rating{RaterID: ids[0], RateeID: ids[1], Scores: [6]int{1, 2, 3, 4, 5, 1}, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, s.UpsertRating(ctx, r))
		r.Scores = [6]int{5, 5, 5, 5, 5, 5}
		require.NoError(t, s.UpsertRating(ctx, r))
		rs, err := s.ListRatings(ctx)
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, [6]int{5, 5, 5, 5, 5, 5}, rs[0].Scores)
	})

	t.Run("locked teams are not overwritten", func(t *testing.T) {
		teams := model.TeamAssignment{GameID: game.ID, TeamA: ids[:1], TeamB: ids[1:], Cost: 2.5, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, s.SaveTeamAssignment(ctx, teams))
		locked := true
		require.NoError(t, s.SetTeamFlags(ctx, game.ID, repository.TeamFlags{Locked: &locked}))
		err := s.SaveTeamAssignment(ctx, model.TeamAssignment{GameID: game.ID, TeamA: ids[1:], TeamB: ids[:1], Cost: 0.1})
		assert.ErrorIs(t, err, repository.ErrTeamsLocked)
		got, err := s.GetTeamAssignment(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, ids[:1], got.TeamA)
		assert.Equal(t, 2.5, got.Cost)
	})

	t.Run("award outcome writes results and ledger atomically", func(t *testing.T) {
		results := []model.AwardResult{{GameID: game.ID, CategoryID: model.CategoryMVP, WinnerID: ids[2], WinnerVotes: 2, ComputedAt: now}}
		err := s.SaveAwardOutcome(ctx, game.ID, results, func(l *ledger.Ledger) error {
			l.Apply(ids[2], skill.Uniform(0.1), ledger.WinnerMultiplier, now)
			return nil
		})
		require.NoError(t, err)
		got, err := s.ListAwardResults(ctx, game.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ids[2], got[0].WinnerID)
		mods, err := s.ListModifiers(ctx, []uuid.UUID{ids[2]})
		require.NoError(t, err)
		require.Len(t, mods, 1)
		assert.InDelta(t, 0.1, mods[0].Deltas[skill.IQ], 1e-9)
	})

	t.Run("unknown records are not found", func(t *testing.T) {
		_, err := s.GetGame(ctx, uuid.New())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
