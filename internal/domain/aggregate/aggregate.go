// Package aggregate reduces raw peer ratings into skill profiles using a
// trimmed mean per attribute.
package aggregate

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

// Trim policy constants.
const (
	largeSampleMin   = 8
	smallSampleMin   = 4
	largeTrimPercent = 0.1

	attrDecimals     = 2
	strengthDecimals = 3
)

// ErrNoData is returned when there are no ratings to aggregate.
var ErrNoData = fmt.Errorf("%w: no ratings found", fault.ErrPrecondition)

// TrimCount returns how many values are dropped from EACH end of a sorted
// sample of size n.
func TrimCount(n int) int {
	switch {
	case n >= largeSampleMin:
		return int(math.Round(float64(n) * largeTrimPercent))
	case n >= smallSampleMin:
		return 1
	default:
		return 0
	}
}

// TrimmedMean returns the mean of values after dropping TrimCount values from
// each end of the ascending order. values is not modified. Returns 0 for an
// empty sample.
func TrimmedMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	k := TrimCount(len(sorted))
	kept := sorted[k : len(sorted)-k]

	var sum float64
	for _, v := range kept {
		sum += v
	}
	return sum / float64(len(kept))
}

// Profile aggregates all ratings of a single ratee. ratings must be non-empty
// and all share the same RateeID.
func Profile(playerID uuid.UUID, ratings []model.Rating, at time.Time) model.SkillProfile {
	var attrs skill.Vector
	column := make([]float64, len(ratings))
	for _, a := range skill.All {
		for i, r := range ratings {
			column[i] = float64(r.Scores[a])
		}
		attrs[a] = skill.Round(TrimmedMean(column), attrDecimals)
	}
	return model.SkillProfile{
		PlayerID: playerID,
		Attrs:    attrs,
		Strength: skill.Round(attrs.Strength(), strengthDecimals),
		// raw count for tc; every rating carries all six scores
		Votes:     len(ratings),
		UpdatedAt: at,
	}
}

// Compute builds the full replacement set of skill profiles from every rating
// in the system. Profiles are returned in order of each ratee's first
// appearance in ratings. Fails with ErrNoData if ratings is empty.
func Compute(ratings []model.Rating, at time.Time) ([]model.SkillProfile, error) {
	if len(ratings) == 0 {
		return nil, ErrNoData
	}

	var order []uuid.UUID
	byRatee := make(map[uuid.UUID][]model.Rating)
	for _, r := range ratings {
		if _, ok := byRatee[r.RateeID]; !ok {
			order = append(order, r.RateeID)
		}
		byRatee[r.RateeID] = append(byRatee[r.RateeID], r)
	}

	profiles := make([]model.SkillProfile, 0, len(order))
	for _, id := range order {
		profiles = append(profiles, Profile(id, byRatee[id], at))
	}
	return profiles, nil
}
