// Package bunstore is the Postgres implementation of repository.Store.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/adapters/repository/bunstore/migrations"
	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/pkg/logger"
	"github.com/okian/squadup/pkg/metrics"
)

// Store persists records in Postgres through bun.
type Store struct {
	db *bun.DB
}

var _ repository.Store = (*Store)(nil)

// Option configures Open.
type Option func(*options)

type options struct {
	attempts uint
	delay    time.Duration
	log      logger.Logger
}

// WithConnectAttempts sets how many times Open pings the database before giving up.
func WithConnectAttempts(n uint) Option {
	return func(o *options) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithConnectDelay sets the base backoff between connection attempts.
func WithConnectDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithLogger sets the logger used while connecting.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Open connects to dsn, retrying the initial ping with backoff.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	o := options{attempts: 5, delay: 500 * time.Millisecond, log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	err := retry.Do(
		func() error { return sqldb.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			o.log.Warn(ctx, "database not ready", logger.Int("attempt", int(n)+1), logger.Error(err))
		}),
	)
	if err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("%w: connect: %w", fault.ErrStore, err)
	}
	return New(bun.NewDB(sqldb, pgdialect.New())), nil
}

// New wraps an existing bun handle.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// DB exposes the bun handle for migrations.
func (s *Store) DB() *bun.DB { return s.db }

// Migrator returns a migrator over the store's schema migrations.
func (s *Store) Migrator() *migrate.Migrator {
	return migrate.NewMigrator(s.db, migrations.Migrations)
}

// Migrate creates the migration tables if needed and applies pending migrations.
func (s *Store) Migrate(ctx context.Context) (*migrate.MigrationGroup, error) {
	m := s.Migrator()
	if err := m.Init(ctx); err != nil {
		return nil, fmt.Errorf("%w: init migrations: %w", fault.ErrStore, err)
	}
	group, err := m.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: migrate: %w", fault.ErrStore, err)
	}
	return group, nil
}

// Close closes the underlying pool.
func (s *Store) Close() error { return s.db.Close() }

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	if fault.Kind(err) != nil {
		return err
	}
	metrics.RecordErrorByComponent("repository", "db_error")
	return fmt.Errorf("%w: %s: %w", fault.ErrStore, op, err)
}

func expectRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return wrap(op, sql.ErrNoRows)
	}
	return nil
}

// UpsertPlayer implements repository.PlayerStore.
func (s *Store) UpsertPlayer(ctx context.Context, p model.Player) error {
	defer observe("upsert_player", time.Now())
	row := &playerRow{ID: p.ID, Name: p.Name, Role: string(p.Role), CreatedAt: p.CreatedAt}
	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("role = EXCLUDED.role").
		Exec(ctx)
	return wrap("upsert player", err)
}

// GetPlayer implements repository.PlayerStore.
func (s *Store) GetPlayer(ctx context.Context, id uuid.UUID) (model.Player, error) {
	defer observe("get_player", time.Now())
	var row playerRow
	if err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		return model.Player{}, wrap("get player", err)
	}
	return row.model(), nil
}

// ListPlayers implements repository.PlayerStore.
func (s *Store) ListPlayers(ctx context.Context) ([]model.Player, error) {
	defer observe("list_players", time.Now())
	var rows []playerRow
	if err := s.db.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, wrap("list players", err)
	}
	out := make([]model.Player, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// CreateGame implements repository.GameStore.
func (s *Store) CreateGame(ctx context.Context, g model.Game) error {
	defer observe("create_game", time.Now())
	_, err := s.db.NewInsert().Model(toGameRow(g)).Exec(ctx)
	return wrap("create game", err)
}

// GetGame implements repository.GameStore.
func (s *Store) GetGame(ctx context.Context, id uuid.UUID) (model.Game, error) {
	defer observe("get_game", time.Now())
	var row gameRow
	if err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		return model.Game{}, wrap("get game", err)
	}
	return row.model(), nil
}

// UpdateGame implements repository.GameStore.
func (s *Store) UpdateGame(ctx context.Context, g model.Game) error {
	defer observe("update_game", time.Now())
	res, err := s.db.NewUpdate().Model(toGameRow(g)).
		ExcludeColumn("id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return wrap("update game", err)
	}
	return expectRow("update game", res)
}

// UpsertRSVP implements repository.RSVPStore.
func (s *Store) UpsertRSVP(ctx context.Context, r model.RSVP) error {
	defer observe("upsert_rsvp", time.Now())
	row := &rsvpRow{GameID: r.GameID, PlayerID: r.PlayerID, Status: string(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (game_id, player_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return wrap("upsert rsvp", err)
}

// ListRSVPs implements repository.RSVPStore.
func (s *Store) ListRSVPs(ctx context.Context, gameID uuid.UUID, status model.RSVPStatus) ([]model.RSVP, error) {
	defer observe("list_rsvps", time.Now())
	var rows []rsvpRow
	q := s.db.NewSelect().Model(&rows).Where("game_id = ?", gameID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	if err := q.Order("created_at ASC", "player_id ASC").Scan(ctx); err != nil {
		return nil, wrap("list rsvps", err)
	}
	out := make([]model.RSVP, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// CountRSVPs implements repository.RSVPStore.
func (s *Store) CountRSVPs(ctx context.Context, gameID uuid.UUID, status model.RSVPStatus) (int, error) {
	defer observe("count_rsvps", time.Now())
	q := s.db.NewSelect().Model((*rsvpRow)(nil)).Where("game_id = ?", gameID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	n, err := q.Count(ctx)
	return n, wrap("count rsvps", err)
}

// UpsertRating implements repository.RatingStore.
func (s *Store) UpsertRating(ctx context.Context, r model.Rating) error {
	defer observe("upsert_rating", time.Now())
	q := s.db.NewInsert().Model(toRatingRow(r)).On("CONFLICT (rater_id, ratee_id) DO UPDATE")
	for _, c := range []string{"tc", "pd", "da", "en", "fi", "iq", "updated_at"} {
		q = q.Set(c + " = EXCLUDED." + c)
	}
	_, err := q.Exec(ctx)
	return wrap("upsert rating", err)
}

// ListRatings implements repository.RatingStore.
func (s *Store) ListRatings(ctx context.Context) ([]model.Rating, error) {
	defer observe("list_ratings", time.Now())
	var rows []ratingRow
	if err := s.db.NewSelect().Model(&rows).Order("created_at ASC", "rater_id ASC", "ratee_id ASC").Scan(ctx); err != nil {
		return nil, wrap("list ratings", err)
	}
	out := make([]model.Rating, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// ReplaceSkillProfiles implements repository.ProfileStore.
func (s *Store) ReplaceSkillProfiles(ctx context.Context, profiles []model.SkillProfile) error {
	defer observe("replace_profiles", time.Now())
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*profileRow)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return err
		}
		if len(profiles) == 0 {
			return nil
		}
		rows := make([]profileRow, len(profiles))
		for i, p := range profiles {
			rows[i] = toProfileRow(p)
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	return wrap("replace profiles", err)
}

// ListSkillProfiles implements repository.ProfileStore.
func (s *Store) ListSkillProfiles(ctx context.Context, ids []uuid.UUID) ([]model.SkillProfile, error) {
	defer observe("list_profiles", time.Now())
	if ids != nil && len(ids) == 0 {
		return nil, nil
	}
	var rows []profileRow
	q := s.db.NewSelect().Model(&rows)
	if ids != nil {
		q = q.Where("player_id IN (?)", bun.In(ids))
	}
	if err := q.Order("player_id ASC").Scan(ctx); err != nil {
		return nil, wrap("list profiles", err)
	}
	out := make([]model.SkillProfile, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// ListModifiers implements repository.ModifierStore.
func (s *Store) ListModifiers(ctx context.Context, ids []uuid.UUID) ([]model.PerformanceModifier, error) {
	defer observe("list_modifiers", time.Now())
	rows, err := listModifiers(ctx, s.db, ids, false)
	return rows, wrap("list modifiers", err)
}

func listModifiers(ctx context.Context, db bun.IDB, ids []uuid.UUID, forUpdate bool) ([]model.PerformanceModifier, error) {
	if ids != nil && len(ids) == 0 {
		return nil, nil
	}
	var rows []modifierRow
	q := db.NewSelect().Model(&rows)
	if ids != nil {
		q = q.Where("player_id IN (?)", bun.In(ids))
	}
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Order("player_id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.PerformanceModifier, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// UpdateModifiers implements repository.ModifierStore.
func (s *Store) UpdateModifiers(ctx context.Context, fn repository.LedgerFunc) error {
	defer observe("update_modifiers", time.Now())
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return updateLedger(ctx, tx, fn)
	})
}

// updateLedger serializes ledger writers on a table lock, runs fn on the full
// ledger and upserts the rows it changed.
func updateLedger(ctx context.Context, tx bun.Tx, fn repository.LedgerFunc) error {
	if _, err := tx.ExecContext(ctx, "LOCK TABLE performance_modifiers IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return wrap("lock modifiers", err)
	}
	current, err := listModifiers(ctx, tx, nil, false)
	if err != nil {
		return wrap("load modifiers", err)
	}
	l := ledger.New(current)
	if err := fn(l); err != nil {
		return err
	}
	changed := l.Changed()
	if len(changed) == 0 {
		return nil
	}
	rows := make([]modifierRow, len(changed))
	for i, m := range changed {
		rows[i] = toModifierRow(m)
	}
	q := tx.NewInsert().Model(&rows).On("CONFLICT (player_id) DO UPDATE")
	for _, c := range []string{"tc", "pd", "da", "en", "fi", "iq", "updated_at"} {
		q = q.Set(c + " = EXCLUDED." + c)
	}
	_, err = q.Exec(ctx)
	return wrap("write modifiers", err)
}

// UpsertFormAdjustment implements repository.FormStore.
func (s *Store) UpsertFormAdjustment(ctx context.Context, a model.FormAdjustment) error {
	defer observe("upsert_form", time.Now())
	q := s.db.NewInsert().Model(toFormRow(a)).On("CONFLICT (game_id, adjuster_id, player_id) DO UPDATE")
	for _, c := range []string{"tc", "pd", "da", "en", "fi", "iq", "note", "updated_at"} {
		q = q.Set(c + " = EXCLUDED." + c)
	}
	_, err := q.Exec(ctx)
	return wrap("upsert form adjustment", err)
}

// ListFormAdjustments implements repository.FormStore.
func (s *Store) ListFormAdjustments(ctx context.Context, gameID uuid.UUID, ids []uuid.UUID) ([]model.FormAdjustment, error) {
	defer observe("list_forms", time.Now())
	if ids != nil && len(ids) == 0 {
		return nil, nil
	}
	var rows []formRow
	q := s.db.NewSelect().Model(&rows).Where("game_id = ?", gameID)
	if ids != nil {
		q = q.Where("player_id IN (?)", bun.In(ids))
	}
	if err := q.Order("updated_at ASC").Scan(ctx); err != nil {
		return nil, wrap("list form adjustments", err)
	}
	out := make([]model.FormAdjustment, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// SaveTeamAssignment implements repository.TeamStore.
func (s *Store) SaveTeamAssignment(ctx context.Context, t model.TeamAssignment) error {
	defer observe("save_teams", time.Now())
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var locked bool
		err := tx.NewSelect().Model((*teamRow)(nil)).
			Column("locked").
			Where("game_id = ?", t.GameID).
			For("UPDATE").
			Scan(ctx, &locked)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return wrap("load teams", err)
		case locked:
			return repository.ErrTeamsLocked
		}
		_, err = tx.NewInsert().Model(toTeamRow(t)).
			On("CONFLICT (game_id) DO UPDATE").
			Set("team_a = EXCLUDED.team_a").
			Set("team_b = EXCLUDED.team_b").
			Set("cost = EXCLUDED.cost").
			Set("locked = EXCLUDED.locked").
			Set("published = EXCLUDED.published").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return wrap("save teams", err)
	})
}

// GetTeamAssignment implements repository.TeamStore.
func (s *Store) GetTeamAssignment(ctx context.Context, gameID uuid.UUID) (model.TeamAssignment, error) {
	defer observe("get_teams", time.Now())
	var row teamRow
	if err := s.db.NewSelect().Model(&row).Where("game_id = ?", gameID).Scan(ctx); err != nil {
		return model.TeamAssignment{}, wrap("get teams", err)
	}
	t, err := row.model()
	if err != nil {
		return model.TeamAssignment{}, wrap("decode teams", err)
	}
	return t, nil
}

// SetTeamFlags implements repository.TeamStore.
func (s *Store) SetTeamFlags(ctx context.Context, gameID uuid.UUID, flags repository.TeamFlags) error {
	defer observe("set_team_flags", time.Now())
	q := s.db.NewUpdate().Model((*teamRow)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("game_id = ?", gameID)
	if flags.Locked != nil {
		q = q.Set("locked = ?", *flags.Locked)
	}
	if flags.Published != nil {
		q = q.Set("published = ?", *flags.Published)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return wrap("set team flags", err)
	}
	return expectRow("set team flags", res)
}

// ListAwardCategories implements repository.AwardStore.
func (s *Store) ListAwardCategories(ctx context.Context) ([]model.AwardCategory, error) {
	defer observe("list_categories", time.Now())
	var rows []categoryRow
	if err := s.db.NewSelect().Model(&rows).Order("sort_order ASC").Scan(ctx); err != nil {
		return nil, wrap("list categories", err)
	}
	out := make([]model.AwardCategory, len(rows))
	for i, r := range rows {
		out[i] = model.AwardCategory{ID: r.ID, Label: r.Label, Description: r.Description}
	}
	return out, nil
}

// UpsertAwardVote implements repository.AwardStore.
func (s *Store) UpsertAwardVote(ctx context.Context, v model.AwardVote) error {
	defer observe("upsert_vote", time.Now())
	row := &voteRow{GameID: v.GameID, VoterID: v.VoterID, CategoryID: v.CategoryID, NomineeID: v.NomineeID, CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt}
	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (game_id, voter_id, category_id) DO UPDATE").
		Set("nominee_id = EXCLUDED.nominee_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return wrap("upsert vote", err)
}

// ListAwardVotes implements repository.AwardStore.
func (s *Store) ListAwardVotes(ctx context.Context, gameID uuid.UUID) ([]model.AwardVote, error) {
	defer observe("list_votes", time.Now())
	var rows []voteRow
	err := s.db.NewSelect().Model(&rows).
		Where("game_id = ?", gameID).
		Order("created_at ASC", "voter_id ASC", "category_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrap("list votes", err)
	}
	out := make([]model.AwardVote, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// SaveAwardOutcome implements repository.AwardStore.
func (s *Store) SaveAwardOutcome(ctx context.Context, gameID uuid.UUID, results []model.AwardResult, fn repository.LedgerFunc) error {
	defer observe("save_award_outcome", time.Now())
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*resultRow)(nil)).Where("game_id = ?", gameID).Exec(ctx); err != nil {
			return wrap("clear results", err)
		}
		if len(results) > 0 {
			rows := make([]resultRow, len(results))
			for i, r := range results {
				rows[i] = resultRow{
					GameID: gameID, CategoryID: r.CategoryID, WinnerID: r.WinnerID, WinnerVotes: r.WinnerVotes,
					RunnerUpID: r.RunnerUpID, RunnerUpVotes: r.RunnerUpVotes, SortOrder: i, ComputedAt: r.ComputedAt,
				}
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return wrap("insert results", err)
			}
		}
		if fn == nil {
			return nil
		}
		return updateLedger(ctx, tx, fn)
	})
}

// ListAwardResults implements repository.AwardStore.
func (s *Store) ListAwardResults(ctx context.Context, gameID uuid.UUID) ([]model.AwardResult, error) {
	defer observe("list_results", time.Now())
	var rows []resultRow
	if err := s.db.NewSelect().Model(&rows).Where("game_id = ?", gameID).Order("sort_order ASC").Scan(ctx); err != nil {
		return nil, wrap("list results", err)
	}
	out := make([]model.AwardResult, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// Counts implements repository.Store.
func (s *Store) Counts(ctx context.Context) (repository.Counts, error) {
	var c repository.Counts
	for _, t := range []struct {
		model any
		dst   *int
	}{
		{(*playerRow)(nil), &c.Players},
		{(*gameRow)(nil), &c.Games},
		{(*ratingRow)(nil), &c.Ratings},
		{(*profileRow)(nil), &c.Profiles},
		{(*modifierRow)(nil), &c.Modifiers},
	} {
		n, err := s.db.NewSelect().Model(t.model).Count(ctx)
		if err != nil {
			return repository.Counts{}, wrap("count", err)
		}
		*t.dst = n
	}
	return c, nil
}
