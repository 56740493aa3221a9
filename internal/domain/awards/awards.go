// Package awards tabulates post-game award votes and turns the outcome into
// performance modifier updates.
package awards

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
)

// ErrNoVotes is returned when a game has no award votes at all.
var ErrNoVotes = fmt.Errorf("%w: no votes found for this game", fault.ErrPrecondition)

// Tally is a nominee's vote count within one category.
type Tally struct {
	NomineeID uuid.UUID
	Votes     int
}

// Count tallies votes per nominee. The result is sorted by votes descending;
// nominees with equal counts keep the order in which they first received a vote.
func Count(votes []model.AwardVote) []Tally {
	index := make(map[uuid.UUID]int)
	var tallies []Tally
	for _, v := range votes {
		i, ok := index[v.NomineeID]
		if !ok {
			i = len(tallies)
			index[v.NomineeID] = i
			tallies = append(tallies, Tally{NomineeID: v.NomineeID})
		}
		tallies[i].Votes++
	}
	slices.SortStableFunc(tallies, func(a, b Tally) int {
		return cmp.Compare(b.Votes, a.Votes)
	})
	return tallies
}

// Tabulate computes one result per category that received votes, in
// categories order. Votes for categories outside the reference set are ignored.
func Tabulate(gameID uuid.UUID, categories []model.AwardCategory, votes []model.AwardVote, at time.Time) ([]model.AwardResult, error) {
	if len(votes) == 0 {
		return nil, ErrNoVotes
	}

	byCategory := make(map[string][]model.AwardVote)
	for _, v := range votes {
		byCategory[v.CategoryID] = append(byCategory[v.CategoryID], v)
	}

	var results []model.AwardResult
	for _, c := range categories {
		tallies := Count(byCategory[c.ID])
		if len(tallies) == 0 {
			continue
		}
		r := model.AwardResult{
			GameID:      gameID,
			CategoryID:  c.ID,
			WinnerID:    tallies[0].NomineeID,
			WinnerVotes: tallies[0].Votes,
			ComputedAt:  at,
		}
		if len(tallies) > 1 {
			id, n := tallies[1].NomineeID, tallies[1].Votes
			r.RunnerUpID, r.RunnerUpVotes = &id, &n
		}
		results = append(results, r)
	}
	return results, nil
}

// Outcome summarizes a ledger update.
type Outcome struct {
	Decayed int
	Applied int
	Skipped int
}

// Apply decays the whole ledger once and then credits each result's winner
// and runner-up with the category deltas. Nothing happens without results.
// Categories missing from table are skipped.
func Apply(l *ledger.Ledger, results []model.AwardResult, table ledger.Table, decay float64, at time.Time) Outcome {
	var out Outcome
	if len(results) == 0 {
		return out
	}
	out.Decayed = l.Decay(decay, at)
	for _, r := range results {
		delta, ok := table.Lookup(r.CategoryID)
		if !ok {
			out.Skipped++
			continue
		}
		l.Apply(r.WinnerID, delta, ledger.WinnerMultiplier, at)
		out.Applied++
		if r.RunnerUpID != nil {
			l.Apply(*r.RunnerUpID, delta, ledger.RunnerUpMultiplier, at)
			out.Applied++
		}
	}
	return out
}
