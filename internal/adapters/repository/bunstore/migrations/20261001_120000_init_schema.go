package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'player',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id UUID PRIMARY KEY,
		starts_at TIMESTAMPTZ NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		capacity INT NOT NULL DEFAULT 10 CHECK (capacity BETWEEN 2 AND 30),
		rsvp_cutoff TIMESTAMPTZ,
		rating_cutoff TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'open',
		use_form_adjustments BOOLEAN NOT NULL DEFAULT FALSE,
		created_by UUID REFERENCES players(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ,
		score_team_a INT,
		score_team_b INT,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS rsvps (
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		player_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (game_id, player_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rsvps_game_status ON rsvps (game_id, status, created_at)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		rater_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		ratee_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		tc SMALLINT NOT NULL CHECK (tc BETWEEN 1 AND 5),
		pd SMALLINT NOT NULL CHECK (pd BETWEEN 1 AND 5),
		da SMALLINT NOT NULL CHECK (da BETWEEN 1 AND 5),
		en SMALLINT NOT NULL CHECK (en BETWEEN 1 AND 5),
		fi SMALLINT NOT NULL CHECK (fi BETWEEN 1 AND 5),
		iq SMALLINT NOT NULL CHECK (iq BETWEEN 1 AND 5),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (rater_id, ratee_id),
		CHECK (rater_id <> ratee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS skill_profiles (
		player_id UUID PRIMARY KEY REFERENCES players(id) ON DELETE CASCADE,
		tc DOUBLE PRECISION NOT NULL,
		pd DOUBLE PRECISION NOT NULL,
		da DOUBLE PRECISION NOT NULL,
		en DOUBLE PRECISION NOT NULL,
		fi DOUBLE PRECISION NOT NULL,
		iq DOUBLE PRECISION NOT NULL,
		strength DOUBLE PRECISION NOT NULL,
		n_votes INT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS performance_modifiers (
		player_id UUID PRIMARY KEY REFERENCES players(id) ON DELETE CASCADE,
		tc DOUBLE PRECISION NOT NULL DEFAULT 0,
		pd DOUBLE PRECISION NOT NULL DEFAULT 0,
		da DOUBLE PRECISION NOT NULL DEFAULT 0,
		en DOUBLE PRECISION NOT NULL DEFAULT 0,
		fi DOUBLE PRECISION NOT NULL DEFAULT 0,
		iq DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS form_adjustments (
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		adjuster_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		player_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		tc SMALLINT NOT NULL DEFAULT 0 CHECK (tc BETWEEN -1 AND 1),
		pd SMALLINT NOT NULL DEFAULT 0 CHECK (pd BETWEEN -1 AND 1),
		da SMALLINT NOT NULL DEFAULT 0 CHECK (da BETWEEN -1 AND 1),
		en SMALLINT NOT NULL DEFAULT 0 CHECK (en BETWEEN -1 AND 1),
		fi SMALLINT NOT NULL DEFAULT 0 CHECK (fi BETWEEN -1 AND 1),
		iq SMALLINT NOT NULL DEFAULT 0 CHECK (iq BETWEEN -1 AND 1),
		note TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (game_id, adjuster_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS team_assignments (
		game_id UUID PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
		team_a TEXT[] NOT NULL,
		team_b TEXT[] NOT NULL,
		cost DOUBLE PRECISION NOT NULL,
		locked BOOLEAN NOT NULL DEFAULT FALSE,
		published BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS award_categories (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sort_order INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS award_votes (
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		voter_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES award_categories(id),
		nominee_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (game_id, voter_id, category_id),
		CHECK (voter_id <> nominee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS award_results (
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES award_categories(id),
		winner_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		winner_votes INT NOT NULL,
		runner_up_id UUID REFERENCES players(id) ON DELETE SET NULL,
		runner_up_votes INT,
		sort_order INT NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (game_id, category_id)
	)`,
	`INSERT INTO award_categories (id, label, description, sort_order) VALUES
		('mvp', 'MVP', 'Most valuable player of the match', 1),
		('top_scorer', 'Top Scorer', 'Scored or created the most goals', 2),
		('best_defender', 'Best Defender', 'Kept the opposition quiet', 3),
		('best_goalie', 'Best Goalkeeper', 'Best shot-stopping and distribution', 4),
		('most_improved', 'Most Improved', 'Biggest step up compared to previous games', 5)
	ON CONFLICT (id) DO NOTHING`,
}

var tables = []string{
	"award_results", "award_votes", "award_categories", "team_assignments",
	"form_adjustments", "performance_modifiers", "skill_profiles", "ratings",
	"rsvps", "games", "players",
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range schema {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create schema: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, t := range tables {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+t+" CASCADE"); err != nil {
					return fmt.Errorf("failed to drop %s: %w", t, err)
				}
			}
			return nil
		})
	})
}
