// Package ledger maintains per-player performance modifiers: additive skill
// corrections driven by award outcomes that fade with every award run.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

// Multipliers applied to a category's delta table.
const (
	DefaultDecay       = 0.98
	WinnerMultiplier   = 1.0
	RunnerUpMultiplier = 0.5
)

// Ledger is an ordered, in-memory working copy of the modifier rows loaded
// from the store. Mutations are written back as a single batch.
type Ledger struct {
	order []uuid.UUID
	rows  map[uuid.UUID]model.PerformanceModifier
	dirty map[uuid.UUID]bool
}

// New builds a ledger over the given rows, preserving their order.
func New(rows []model.PerformanceModifier) *Ledger {
	l := &Ledger{
		order: make([]uuid.UUID, 0, len(rows)),
		rows:  make(map[uuid.UUID]model.PerformanceModifier, len(rows)),
		dirty: make(map[uuid.UUID]bool),
	}
	for _, r := range rows {
		if _, ok := l.rows[r.PlayerID]; !ok {
			l.order = append(l.order, r.PlayerID)
		}
		l.rows[r.PlayerID] = r
	}
	return l
}

// Len returns the number of rows.
func (l *Ledger) Len() int { return len(l.order) }

// Get returns the deltas of playerID, or a zero vector when absent.
func (l *Ledger) Get(playerID uuid.UUID) skill.Vector {
	return l.rows[playerID].Deltas
}

// Has reports whether playerID has a row.
func (l *Ledger) Has(playerID uuid.UUID) bool {
	_, ok := l.rows[playerID]
	return ok
}

// Decay multiplies every row's deltas by factor and returns how many rows
// were touched.
func (l *Ledger) Decay(factor float64, at time.Time) int {
	for _, id := range l.order {
		r := l.rows[id]
		r.Deltas = r.Deltas.Scale(factor)
		r.UpdatedAt = at
		l.rows[id] = r
		l.dirty[id] = true
	}
	return len(l.order)
}

// Apply adds delta*multiplier to playerID's deltas, creating a zero row first
// when the player has none.
func (l *Ledger) Apply(playerID uuid.UUID, delta skill.Vector, multiplier float64, at time.Time) {
	r, ok := l.rows[playerID]
	if !ok {
		r = model.PerformanceModifier{PlayerID: playerID}
		l.order = append(l.order, playerID)
	}
	r.Deltas = r.Deltas.Add(delta.Scale(multiplier))
	r.UpdatedAt = at
	l.rows[playerID] = r
	l.dirty[playerID] = true
}

// Rows returns every row in ledger order.
func (l *Ledger) Rows() []model.PerformanceModifier {
	out := make([]model.PerformanceModifier, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.rows[id])
	}
	return out
}

// Changed returns the rows mutated since New, in ledger order.
func (l *Ledger) Changed() []model.PerformanceModifier {
	out := make([]model.PerformanceModifier, 0, len(l.dirty))
	for _, id := range l.order {
		if l.dirty[id] {
			out = append(out, l.rows[id])
		}
	}
	return out
}
