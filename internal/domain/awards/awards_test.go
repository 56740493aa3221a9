package awards_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/domain/awards"
	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

var categories = []model.AwardCategory{
	{ID: "mvp", Label: "MVP"},
	{ID: "top_scorer", Label: "Top Scorer"},
	{ID: "best_defender", Label: "Best Defender"},
	{ID: "best_goalie", Label: "Best Goalkeeper"},
	{ID: "most_improved", Label: "Most Improved"},
}

func vote(game uuid.UUID, category string, nominee uuid.UUID) model.AwardVote {
	return model.AwardVote{GameID: game, VoterID: uuid.New(), CategoryID: category, NomineeID: nominee}
}

func TestCount(t *testing.T) {
	Convey("Given votes {P1:3, P2:3, P3:1} with P1 voted first", t, func() {
		game := uuid.New()
		p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
		votes := []model.AwardVote{
			vote(game, "mvp", p1),
			vote(game, "mvp", p3),
			vote(game, "mvp", p2),
			vote(game, "mvp", p2),
			vote(game, "mvp", p1),
			vote(game, "mvp", p2),
			vote(game, "mvp", p1),
		}

		Convey("Then the first counted nominee wins the tie and the other is runner-up", func() {
			tallies := awards.Count(votes)
			So(tallies, ShouldResemble, []awards.Tally{
				{NomineeID: p1, Votes: 3},
				{NomineeID: p2, Votes: 3},
				{NomineeID: p3, Votes: 1},
			})
		})
	})
}

func TestTabulate(t *testing.T) {
	now := time.Date(2026, 10, 3, 21, 0, 0, 0, time.UTC)

	Convey("Given a game without votes", t, func() {
		_, err := awards.Tabulate(uuid.New(), categories, nil, now)

		Convey("Then it fails with ErrNoVotes", func() {
			So(errors.Is(err, awards.ErrNoVotes), ShouldBeTrue)
			So(errors.Is(err, fault.ErrPrecondition), ShouldBeTrue)
		})
	})

	Convey("Given a single voter voting for P1", t, func() {
		game, p1 := uuid.New(), uuid.New()
		results, err := awards.Tabulate(game, categories, []model.AwardVote{vote(game, "mvp", p1)}, now)

		Convey("Then P1 wins with one vote and there is no runner-up", func() {
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			So(results[0].CategoryID, ShouldEqual, "mvp")
			So(results[0].WinnerID, ShouldEqual, p1)
			So(results[0].WinnerVotes, ShouldEqual, 1)
			So(results[0].RunnerUpID, ShouldBeNil)
			So(results[0].RunnerUpVotes, ShouldBeNil)
			So(results[0].ComputedAt, ShouldEqual, now)
		})
	})

	Convey("Given votes across categories", t, func() {
		game := uuid.New()
		a, b := uuid.New(), uuid.New()
		votes := []model.AwardVote{
			vote(game, "most_improved", a),
			vote(game, "top_scorer", b),
			vote(game, "top_scorer", a),
			vote(game, "top_scorer", b),
			vote(game, "fair_play", a),
		}
		results, err := awards.Tabulate(game, categories, votes, now)

		Convey("Then results follow the reference order and skip empty or unknown categories", func() {
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)
			So(results[0].CategoryID, ShouldEqual, "top_scorer")
			So(results[0].WinnerID, ShouldEqual, b)
			So(results[0].WinnerVotes, ShouldEqual, 2)
			So(*results[0].RunnerUpID, ShouldEqual, a)
			So(*results[0].RunnerUpVotes, ShouldEqual, 1)
			So(results[1].CategoryID, ShouldEqual, "most_improved")
		})
	})
}

func TestApply(t *testing.T) {
	now := time.Now()

	Convey("Given an existing ledger row for a bystander", t, func() {
		bystander, winner, runner := uuid.New(), uuid.New(), uuid.New()
		l := ledger.New([]model.PerformanceModifier{
			{PlayerID: bystander, Deltas: skill.Uniform(1)},
		})
		votes := 1
		results := []model.AwardResult{
			{CategoryID: "top_scorer", WinnerID: winner, WinnerVotes: 2, RunnerUpID: &runner, RunnerUpVotes: &votes},
			{CategoryID: "fair_play", WinnerID: runner, WinnerVotes: 1},
		}

		Convey("When the outcome is applied", func() {
			out := awards.Apply(l, results, ledger.DefaultTable(), ledger.DefaultDecay, now)

			Convey("Then every existing row decays once", func() {
				So(out.Decayed, ShouldEqual, 1)
				So(l.Get(bystander)[skill.TC], ShouldAlmostEqual, 0.98, 1e-12)
			})

			Convey("Then winner and runner-up are credited with 1.0 and 0.5 multipliers", func() {
				So(l.Get(winner)[skill.FI], ShouldAlmostEqual, 0.10, 1e-12)
				So(l.Get(runner)[skill.FI], ShouldAlmostEqual, 0.05, 1e-12)
				So(out.Applied, ShouldEqual, 2)
			})

			Convey("Then categories without a delta table are skipped", func() {
				So(out.Skipped, ShouldEqual, 1)
			})
		})

		Convey("When there are no results", func() {
			out := awards.Apply(l, nil, ledger.DefaultTable(), ledger.DefaultDecay, now)

			Convey("Then the ledger is untouched", func() {
				So(out, ShouldResemble, awards.Outcome{})
				So(l.Get(bystander), ShouldResemble, skill.Uniform(1))
			})
		})
	})
}
