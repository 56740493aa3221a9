// Package seed fills a store with generated players, ratings and a game ready
// for team generation.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	service "github.com/okian/squadup/internal/app"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

// Target is the subset of the service the generator drives.
type Target interface {
	UpsertPlayer(ctx context.Context, in service.PlayerInput) (model.Player, error)
	SubmitRating(ctx context.Context, in service.RatingInput) (model.Rating, error)
	CreateGame(ctx context.Context, in service.GameInput) (model.Game, error)
	JoinGame(ctx context.Context, gameID, playerID uuid.UUID) (model.RSVP, error)
}

// Generator creates demo data.
type Generator struct {
	faker           *gofakeit.Faker
	players         int
	ratingsPerRatee int
	joiners         int
	now             func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the generated data reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.faker = gofakeit.New(seed) }
}

// WithPlayers sets how many players are created.
func WithPlayers(n int) Option {
	return func(g *Generator) {
		if n > 1 {
			g.players = n
		}
	}
}

// WithRatingsPerPlayer sets how many peers rate each player.
func WithRatingsPerPlayer(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.ratingsPerRatee = n
		}
	}
}

// WithJoiners sets how many players sign up for the generated game.
func WithJoiners(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.joiners = n
		}
	}
}

// New returns a Generator that creates 12 players, 4 ratings each and a game
// with 10 sign-ups.
func New(opts ...Option) *Generator {
	g := &Generator{
		faker:           gofakeit.New(0),
		players:         12,
		ratingsPerRatee: 4,
		joiners:         model.DefaultCapacity,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ratingsPerRatee = min(g.ratingsPerRatee, g.players-1)
	g.joiners = min(g.joiners, g.players)
	return g
}

// Summary describes what Run created.
type Summary struct {
	Players []uuid.UUID
	Ratings int
	GameID  uuid.UUID
	Joined  int
}

// Run creates the players, their ratings and one open game.
func (g *Generator) Run(ctx context.Context, t Target) (Summary, error) {
	var sum Summary
	for range g.players {
		p, err := t.UpsertPlayer(ctx, service.PlayerInput{Name: g.faker.Name(), Role: model.RolePlayer})
		if err != nil {
			return sum, fmt.Errorf("seed player: %w", err)
		}
		sum.Players = append(sum.Players, p.ID)
	}

	for i, ratee := range sum.Players {
		base := g.faker.IntRange(2, 4)
		for k := 1; k <= g.ratingsPerRatee; k++ {
			rater := sum.Players[(i+k)%len(sum.Players)]
			_, err := t.SubmitRating(ctx, service.RatingInput{
				RaterID: rater,
				RateeID: ratee,
				Scores:  g.scores(base),
			})
			if err != nil {
				return sum, fmt.Errorf("seed rating: %w", err)
			}
			sum.Ratings++
		}
	}

	game, err := t.CreateGame(ctx, service.GameInput{
		StartsAt: g.now().Add(72 * time.Hour).Truncate(time.Hour),
		Location: g.faker.City(),
	})
	if err != nil {
		return sum, fmt.Errorf("seed game: %w", err)
	}
	sum.GameID = game.ID
	for _, id := range sum.Players[:g.joiners] {
		if _, err := t.JoinGame(ctx, game.ID, id); err != nil {
			return sum, fmt.Errorf("seed rsvp: %w", err)
		}
		sum.Joined++
	}
	return sum, nil
}

// scores spreads six scores around base, clamped to 1..5.
func (g *Generator) scores(base int) [skill.Count]int {
	var out [skill.Count]int
	for i := range out {
		out[i] = min(5, max(1, base+g.faker.IntRange(-1, 1)))
	}
	return out
}
