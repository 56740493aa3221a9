// Package skill holds the six-attribute skill vector and the strength formula
// shared by aggregation, resolution and team partitioning.
package skill

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Attribute identifies one of the six rated skill attributes.
type Attribute int

// Attributes in canonical order. The order is also the storage and wire order.
const (
	TC Attribute = iota // technique
	PD                  // passing & dribbling
	DA                  // defending & aggression
	EN                  // endurance
	FI                  // finishing
	IQ                  // game awareness
)

// Count is the number of attributes in a Vector.
const Count = 6

// Value bounds for aggregated and resolved attributes.
const (
	MinValue     = 1.0
	MaxValue     = 5.0
	NeutralValue = 3.0
)

// All lists the attributes in canonical order.
var All = [Count]Attribute{TC, PD, DA, EN, FI, IQ}

var codes = [Count]string{"tc", "pd", "da", "en", "fi", "iq"}

var labels = [Count]string{
	"Technique",
	"Passing & Dribbling",
	"Defending & Aggression",
	"Endurance",
	"Finishing",
	"Game Awareness",
}

// Weights used to derive strength. They sum to 1.0.
var Weights = Vector{0.20, 0.20, 0.20, 0.15, 0.15, 0.10}

// String returns the short attribute code, e.g. "tc".
func (a Attribute) String() string {
	if a < 0 || int(a) >= Count {
		return fmt.Sprintf("attribute(%d)", int(a))
	}
	return codes[a]
}

// Label returns the human readable attribute name.
func (a Attribute) Label() string {
	if a < 0 || int(a) >= Count {
		return a.String()
	}
	return labels[a]
}

// ParseAttribute maps a short code back to its Attribute.
func ParseAttribute(code string) (Attribute, error) {
	for i, c := range codes {
		if c == code {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", code)
}

// Vector is a value per attribute, indexed by Attribute.
type Vector [Count]float64

// Uniform returns a vector with every attribute set to v.
func Uniform(v float64) Vector {
	var out Vector
	for i := range out {
		out[i] = v
	}
	return out
}

// Get returns the value of attribute a.
func (v Vector) Get(a Attribute) float64 { return v[a] }

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Scale returns v * f.
func (v Vector) Scale(f float64) Vector {
	for i := range v {
		v[i] *= f
	}
	return v
}

// Clamp bounds every attribute to [lo, hi].
func (v Vector) Clamp(lo, hi float64) Vector {
	for i := range v {
		v[i] = math.Max(lo, math.Min(hi, v[i]))
	}
	return v
}

// Round rounds every attribute to the given number of decimals.
func (v Vector) Round(decimals int) Vector {
	for i := range v {
		v[i] = Round(v[i], decimals)
	}
	return v
}

// Strength is the weighted sum of the attributes using Weights.
func (v Vector) Strength() float64 {
	var s float64
	for i := range v {
		s += Weights[i] * v[i]
	}
	return s
}

// IsZero reports whether all attributes are zero.
func (v Vector) IsZero() bool { return v == Vector{} }

// Map returns the vector keyed by attribute code.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, Count)
	for i, c := range codes {
		out[c] = v[i]
	}
	return out
}

// FromMap builds a vector from values keyed by attribute code. Missing codes are zero.
func FromMap(m map[string]float64) Vector {
	var v Vector
	for i, c := range codes {
		v[i] = m[c]
	}
	return v
}

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

// PlayerVector is a fully resolved player as consumed by the partition optimizer.
type PlayerVector struct {
	ID       uuid.UUID
	Attrs    Vector
	Strength float64
}

// NewPlayerVector builds a PlayerVector with strength derived from attrs.
func NewPlayerVector(id uuid.UUID, attrs Vector) PlayerVector {
	return PlayerVector{ID: id, Attrs: attrs, Strength: attrs.Strength()}
}
