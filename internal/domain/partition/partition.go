// Package partition splits ten resolved players into two balanced squads of
// five by exhaustive search over every distinct 5-5 split.
package partition

import (
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/skill"
)

// Squad shape. The search is C(10,5)/2 and does not generalize.
const (
	PlayerCount = 10
	TeamSize    = 5
)

const costDecimals = 3

// ErrInvalidPlayerCount is returned when the input is not exactly PlayerCount players.
var ErrInvalidPlayerCount = fmt.Errorf("%w: invalid player count", fault.ErrPrecondition)

// Cost weights per attribute group.
const (
	strengthWeight  = 3.0
	coreWeight      = 1.5 // tc, pd, da
	physicalWeight  = 1.0 // en, fi
	awarenessWeight = 0.8 // iq
)

// Result is the chosen split.
type Result struct {
	TeamA     []uuid.UUID
	TeamB     []uuid.UUID
	Cost      float64
	Evaluated int
}

// Cost scores the imbalance between two squads from the absolute differences
// of their per-attribute sums. Lower is better; the score is symmetric.
func Cost(a, b []skill.PlayerVector) float64 {
	sa, va := totals(a)
	sb, vb := totals(b)
	d := func(x skill.Attribute) float64 { return math.Abs(va[x] - vb[x]) }

	return strengthWeight*math.Abs(sa-sb) +
		coreWeight*(d(skill.TC)+d(skill.PD)+d(skill.DA)) +
		physicalWeight*(d(skill.EN)+d(skill.FI)) +
		awarenessWeight*d(skill.IQ)
}

func totals(team []skill.PlayerVector) (float64, skill.Vector) {
	var strength float64
	var attrs skill.Vector
	for _, p := range team {
		strength += p.Strength
		attrs = attrs.Add(p.Attrs)
	}
	return strength, attrs
}

// LowerHalf yields, in lexicographic order, every k-subset of {0..n-1} that
// contains index 0. Each such subset and its complement form one distinct
// split, so for k = n/2 this is exactly the first half of the full
// lexicographic list. The yielded slice is reused between iterations.
func LowerHalf(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k <= 0 || k > n {
			return
		}
		combo := make([]int, k)
		for i := range combo {
			combo[i] = i
		}
		for combo[0] == 0 {
			if !yield(combo) {
				return
			}
			// advance to the next combination
			i := k - 1
			for i >= 0 && combo[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			combo[i]++
			for j := i + 1; j < k; j++ {
				combo[j] = combo[j-1] + 1
			}
		}
	}
}

// Generate returns the minimum-cost split of players. Ties keep the first
// split in enumeration order. The returned cost is rounded to three decimals.
func Generate(ctx context.Context, players []skill.PlayerVector) (Result, error) {
	_, span := otel.Tracer("squadup/partition").Start(ctx, "partition.Generate")
	defer span.End()
	span.SetAttributes(attribute.Int("players", len(players)))

	if len(players) != PlayerCount {
		err := fmt.Errorf("%w: need %d players, got %d", ErrInvalidPlayerCount, PlayerCount, len(players))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	var (
		best      = math.Inf(1)
		bestMask  uint
		evaluated int
		teamA     = make([]skill.PlayerVector, 0, TeamSize)
		teamB     = make([]skill.PlayerVector, 0, PlayerCount-TeamSize)
	)
	for combo := range LowerHalf(PlayerCount, TeamSize) {
		var mask uint
		for _, i := range combo {
			mask |= 1 << i
		}
		teamA, teamB = split(players, mask, teamA[:0], teamB[:0])
		evaluated++
		if c := Cost(teamA, teamB); c < best {
			best = c
			bestMask = mask
		}
	}

	res := Result{Cost: skill.Round(best, costDecimals), Evaluated: evaluated}
	for i, p := range players {
		if bestMask&(1<<i) != 0 {
			res.TeamA = append(res.TeamA, p.ID)
		} else {
			res.TeamB = append(res.TeamB, p.ID)
		}
	}
	span.SetAttributes(
		attribute.Int("evaluated", evaluated),
		attribute.Float64("cost", res.Cost),
	)
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func split(players []skill.PlayerVector, mask uint, a, b []skill.PlayerVector) ([]skill.PlayerVector, []skill.PlayerVector) {
	for i, p := range players {
		if mask&(1<<i) != 0 {
			a = append(a, p)
		} else {
			b = append(b, p)
		}
	}
	return a, b
}
