package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/pkg/metrics"
)

type pairKey struct{ a, b uuid.UUID }

type rsvpKey = pairKey

type formKey struct{ game, adjuster, player uuid.UUID }

type voteKey struct {
	game, voter uuid.UUID
	category    string
}

// MemStore is an in-memory Store. Ordered collections are kept in insertion
// order and updated in place on conflict, so listing is stable.
type MemStore struct {
	mu sync.RWMutex

	categories []model.AwardCategory

	players     map[uuid.UUID]model.Player
	playerOrder []uuid.UUID
	games       map[uuid.UUID]model.Game

	rsvps     []model.RSVP
	rsvpIndex map[rsvpKey]int

	ratings     []model.Rating
	ratingIndex map[pairKey]int

	profiles []model.SkillProfile

	modifiers     map[uuid.UUID]model.PerformanceModifier
	modifierOrder []uuid.UUID

	forms     []model.FormAdjustment
	formIndex map[formKey]int

	teams map[uuid.UUID]model.TeamAssignment

	votes     []model.AwardVote
	voteIndex map[voteKey]int

	results map[uuid.UUID][]model.AwardResult
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty store seeded with the award reference set.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		categories:  model.DefaultAwardCategories(),
		players:     make(map[uuid.UUID]model.Player),
		games:       make(map[uuid.UUID]model.Game),
		rsvpIndex:   make(map[rsvpKey]int),
		ratingIndex: make(map[pairKey]int),
		modifiers:   make(map[uuid.UUID]model.PerformanceModifier),
		formIndex:   make(map[formKey]int),
		teams:       make(map[uuid.UUID]model.TeamAssignment),
		voteIndex:   make(map[voteKey]int),
		results:     make(map[uuid.UUID][]model.AwardResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

func notFound(what string, id any) error {
	metrics.RecordErrorByComponent("repository", "not_found")
	return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
}

func wanted(ids []uuid.UUID) func(uuid.UUID) bool {
	if ids == nil {
		return func(uuid.UUID) bool { return true }
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id uuid.UUID) bool {
		_, ok := set[id]
		return ok
	}
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

// UpsertPlayer implements PlayerStore.
func (s *MemStore) UpsertPlayer(_ context.Context, p model.Player) error {
	defer observe("upsert_player", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.players[p.ID]; ok {
		p.CreatedAt = old.CreatedAt
	} else {
		s.playerOrder = append(s.playerOrder, p.ID)
	}
	s.players[p.ID] = p
	return nil
}

// GetPlayer implements PlayerStore.
func (s *MemStore) GetPlayer(_ context.Context, id uuid.UUID) (model.Player, error) {
	defer observe("get_player", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return model.Player{}, notFound("player", id)
	}
	return p, nil
}

// ListPlayers implements PlayerStore.
func (s *MemStore) ListPlayers(_ context.Context) ([]model.Player, error) {
	defer observe("list_players", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		out = append(out, s.players[id])
	}
	return out, nil
}

// CreateGame implements GameStore.
func (s *MemStore) CreateGame(_ context.Context, g model.Game) error {
	defer observe("create_game", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; ok {
		return fmt.Errorf("game %s already exists", g.ID)
	}
	s.games[g.ID] = g
	return nil
}

// GetGame implements GameStore.
func (s *MemStore) GetGame(_ context.Context, id uuid.UUID) (model.Game, error) {
	defer observe("get_game", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return model.Game{}, notFound("game", id)
	}
	return g, nil
}

// UpdateGame implements GameStore.
func (s *MemStore) UpdateGame(_ context.Context, g model.Game) error {
	defer observe("update_game", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.games[g.ID]
	if !ok {
		return notFound("game", g.ID)
	}
	g.CreatedAt = old.CreatedAt
	s.games[g.ID] = g
	return nil
}

// UpsertRSVP implements RSVPStore.
func (s *MemStore) UpsertRSVP(_ context.Context, r model.RSVP) error {
	defer observe("upsert_rsvp", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	k := rsvpKey{r.GameID, r.PlayerID}
	if i, ok := s.rsvpIndex[k]; ok {
		r.CreatedAt = s.rsvps[i].CreatedAt
		s.rsvps[i] = r
		return nil
	}
	s.rsvpIndex[k] = len(s.rsvps)
	s.rsvps = append(s.rsvps, r)
	return nil
}

// ListRSVPs implements RSVPStore.
func (s *MemStore) ListRSVPs(_ context.Context, gameID uuid.UUID, status model.RSVPStatus) ([]model.RSVP, error) {
	defer observe("list_rsvps", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.RSVP
	for _, r := range s.rsvps {
		if r.GameID == gameID && (status == "" || r.Status == status) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b model.RSVP) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// CountRSVPs implements RSVPStore.
func (s *MemStore) CountRSVPs(ctx context.Context, gameID uuid.UUID, status model.RSVPStatus) (int, error) {
	rs, err := s.ListRSVPs(ctx, gameID, status)
	return len(rs), err
}

// UpsertRating implements RatingStore.
func (s *MemStore) UpsertRating(_ context.Context, r model.Rating) error {
	defer observe("upsert_rating", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{r.RaterID, r.RateeID}
	if i, ok := s.ratingIndex[k]; ok {
		r.CreatedAt = s.ratings[i].CreatedAt
		s.ratings[i] = r
		return nil
	}
	s.ratingIndex[k] = len(s.ratings)
	s.ratings = append(s.ratings, r)
	return nil
}

// ListRatings implements RatingStore.
func (s *MemStore) ListRatings(_ context.Context) ([]model.Rating, error) {
	defer observe("list_ratings", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ratings), nil
}

// ReplaceSkillProfiles implements ProfileStore.
func (s *MemStore) ReplaceSkillProfiles(_ context.Context, profiles []model.SkillProfile) error {
	defer observe("replace_profiles", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = slices.Clone(profiles)
	return nil
}

// ListSkillProfiles implements ProfileStore.
func (s *MemStore) ListSkillProfiles(_ context.Context, ids []uuid.UUID) ([]model.SkillProfile, error) {
	defer observe("list_profiles", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	keep := wanted(ids)
	out := make([]model.SkillProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if keep(p.PlayerID) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListModifiers implements ModifierStore.
func (s *MemStore) ListModifiers(_ context.Context, ids []uuid.UUID) ([]model.PerformanceModifier, error) {
	defer observe("list_modifiers", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modifierRows(wanted(ids)), nil
}

func (s *MemStore) modifierRows(keep func(uuid.UUID) bool) []model.PerformanceModifier {
	out := make([]model.PerformanceModifier, 0, len(s.modifierOrder))
	for _, id := range s.modifierOrder {
		if keep(id) {
			out = append(out, s.modifiers[id])
		}
	}
	return out
}

// UpdateModifiers implements ModifierStore.
func (s *MemStore) UpdateModifiers(_ context.Context, fn LedgerFunc) error {
	defer observe("update_modifiers", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLedger(fn)
}

// updateLedger runs fn on a working copy and commits only when it succeeds.
// Callers hold the write lock.
func (s *MemStore) updateLedger(fn LedgerFunc) error {
	l := ledger.New(s.modifierRows(wanted(nil)))
	if err := fn(l); err != nil {
		return err
	}
	for _, r := range l.Changed() {
		if _, ok := s.modifiers[r.PlayerID]; !ok {
			s.modifierOrder = append(s.modifierOrder, r.PlayerID)
		}
		s.modifiers[r.PlayerID] = r
	}
	return nil
}

// UpsertFormAdjustment implements FormStore.
func (s *MemStore) UpsertFormAdjustment(_ context.Context, a model.FormAdjustment) error {
	defer observe("upsert_form", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	k := formKey{a.GameID, a.AdjusterID, a.PlayerID}
	if i, ok := s.formIndex[k]; ok {
		s.forms[i] = a
		return nil
	}
	s.formIndex[k] = len(s.forms)
	s.forms = append(s.forms, a)
	return nil
}

// ListFormAdjustments implements FormStore.
func (s *MemStore) ListFormAdjustments(_ context.Context, gameID uuid.UUID, ids []uuid.UUID) ([]model.FormAdjustment, error) {
	defer observe("list_forms", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	keep := wanted(ids)
	var out []model.FormAdjustment
	for _, a := range s.forms {
		if a.GameID == gameID && keep(a.PlayerID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// SaveTeamAssignment implements TeamStore.
func (s *MemStore) SaveTeamAssignment(_ context.Context, t model.TeamAssignment) error {
	defer observe("save_teams", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.teams[t.GameID]; ok {
		if old.Locked {
			return ErrTeamsLocked
		}
		t.CreatedAt = old.CreatedAt
	}
	t.TeamA = slices.Clone(t.TeamA)
	t.TeamB = slices.Clone(t.TeamB)
	s.teams[t.GameID] = t
	return nil
}

// GetTeamAssignment implements TeamStore.
func (s *MemStore) GetTeamAssignment(_ context.Context, gameID uuid.UUID) (model.TeamAssignment, error) {
	defer observe("get_teams", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[gameID]
	if !ok {
		return model.TeamAssignment{}, notFound("teams for game", gameID)
	}
	t.TeamA = slices.Clone(t.TeamA)
	t.TeamB = slices.Clone(t.TeamB)
	return t, nil
}

// SetTeamFlags implements TeamStore.
func (s *MemStore) SetTeamFlags(_ context.Context, gameID uuid.UUID, flags TeamFlags) error {
	defer observe("set_team_flags", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[gameID]
	if !ok {
		return notFound("teams for game", gameID)
	}
	if flags.Locked != nil {
		t.Locked = *flags.Locked
	}
	if flags.Published != nil {
		t.Published = *flags.Published
	}
	t.UpdatedAt = time.Now()
	s.teams[gameID] = t
	return nil
}

// ListAwardCategories implements AwardStore.
func (s *MemStore) ListAwardCategories(context.Context) ([]model.AwardCategory, error) {
	return slices.Clone(s.categories), nil
}

// UpsertAwardVote implements AwardStore.
func (s *MemStore) UpsertAwardVote(_ context.Context, v model.AwardVote) error {
	defer observe("upsert_vote", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	k := voteKey{v.GameID, v.VoterID, v.CategoryID}
	if i, ok := s.voteIndex[k]; ok {
		v.CreatedAt = s.votes[i].CreatedAt
		s.votes[i] = v
		return nil
	}
	s.voteIndex[k] = len(s.votes)
	s.votes = append(s.votes, v)
	return nil
}

// ListAwardVotes implements AwardStore.
func (s *MemStore) ListAwardVotes(_ context.Context, gameID uuid.UUID) ([]model.AwardVote, error) {
	defer observe("list_votes", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.AwardVote
	for _, v := range s.votes {
		if v.GameID == gameID {
			out = append(out, v)
		}
	}
	return out, nil
}

// SaveAwardOutcome implements AwardStore.
func (s *MemStore) SaveAwardOutcome(_ context.Context, gameID uuid.UUID, results []model.AwardResult, fn LedgerFunc) error {
	defer observe("save_award_outcome", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		if err := s.updateLedger(fn); err != nil {
			return err
		}
	}
	if len(results) == 0 {
		delete(s.results, gameID)
		return nil
	}
	s.results[gameID] = slices.Clone(results)
	return nil
}

// ListAwardResults implements AwardStore.
func (s *MemStore) ListAwardResults(_ context.Context, gameID uuid.UUID) ([]model.AwardResult, error) {
	defer observe("list_results", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.results[gameID]), nil
}

// Counts implements Store.
func (s *MemStore) Counts(context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Players:   len(s.players),
		Games:     len(s.games),
		Ratings:   len(s.ratings),
		Profiles:  len(s.profiles),
		Modifiers: len(s.modifiers),
	}, nil
}
