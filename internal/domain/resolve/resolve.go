// Package resolve builds the per-game player vectors consumed by the team
// partition optimizer.
package resolve

import (
	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

// Inputs are the records needed to resolve one game's players. Profiles and
// Modifiers may miss players; Adjustments may be empty.
type Inputs struct {
	Profiles           []model.SkillProfile
	Modifiers          []model.PerformanceModifier
	Adjustments        []model.FormAdjustment
	UseFormAdjustments bool
}

// Resolver combines profile, modifier and form adjustment into a clamped vector.
type Resolver struct {
	defaultValue float64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDefault sets the attribute value used for players without a profile.
func WithDefault(v float64) Option {
	return func(r *Resolver) {
		if v >= skill.MinValue && v <= skill.MaxValue {
			r.defaultValue = v
		}
	}
}

// New returns a Resolver. Without options unprofiled players resolve to 3.0.
func New(opts ...Option) *Resolver {
	r := &Resolver{defaultValue: skill.NeutralValue}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns one vector per id, in ids order. A missing profile is not an
// error: the player starts from the default value on every attribute.
func (r *Resolver) Resolve(ids []uuid.UUID, in Inputs) []skill.PlayerVector {
	profiles := make(map[uuid.UUID]skill.Vector, len(in.Profiles))
	for _, p := range in.Profiles {
		profiles[p.PlayerID] = p.Attrs
	}
	modifiers := make(map[uuid.UUID]skill.Vector, len(in.Modifiers))
	for _, m := range in.Modifiers {
		modifiers[m.PlayerID] = m.Deltas
	}
	var form map[uuid.UUID]skill.Vector
	if in.UseFormAdjustments {
		form = AverageAdjustments(in.Adjustments)
	}

	out := make([]skill.PlayerVector, 0, len(ids))
	for _, id := range ids {
		base, ok := profiles[id]
		if !ok {
			base = skill.Uniform(r.defaultValue)
		}
		v := base.Add(modifiers[id])
		if in.UseFormAdjustments {
			v = v.Add(form[id])
		}
		out = append(out, skill.NewPlayerVector(id, v.Clamp(skill.MinValue, skill.MaxValue)))
	}
	return out
}

// AverageAdjustments averages every adjuster's entry per player.
func AverageAdjustments(adjs []model.FormAdjustment) map[uuid.UUID]skill.Vector {
	sums := make(map[uuid.UUID]skill.Vector)
	counts := make(map[uuid.UUID]int)
	for _, a := range adjs {
		sums[a.PlayerID] = sums[a.PlayerID].Add(a.Vector())
		counts[a.PlayerID]++
	}
	out := make(map[uuid.UUID]skill.Vector, len(sums))
	for id, s := range sums {
		out[id] = s.Scale(1 / float64(counts[id]))
	}
	return out
}
