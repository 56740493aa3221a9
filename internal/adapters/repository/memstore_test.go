package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

func TestMemStore_RSVPs(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

	Convey("Given a store with two sign-ups", t, func() {
		s := repository.NewMemStore()
		game, early, late := uuid.New(), uuid.New(), uuid.New()
		So(s.UpsertRSVP(ctx, model.RSVP{GameID: game, PlayerID: late, Status: model.RSVPWaitlist, CreatedAt: t0.Add(time.Minute)}), ShouldBeNil)
		So(s.UpsertRSVP(ctx, model.RSVP{GameID: game, PlayerID: early, Status: model.RSVPWaitlist, CreatedAt: t0}), ShouldBeNil)

		Convey("Then listing is ordered by sign-up time", func() {
			rs, err := s.ListRSVPs(ctx, game, model.RSVPWaitlist)
			So(err, ShouldBeNil)
			So(rs, ShouldHaveLength, 2)
			So(rs[0].PlayerID, ShouldEqual, early)
		})

		Convey("When a sign-up is upserted again", func() {
			So(s.UpsertRSVP(ctx, model.RSVP{GameID: game, PlayerID: early, Status: model.RSVPConfirmed, CreatedAt: t0.Add(time.Hour)}), ShouldBeNil)

			Convey("Then the status changes and the original time is kept", func() {
				rs, _ := s.ListRSVPs(ctx, game, "")
				So(rs[0].PlayerID, ShouldEqual, early)
				So(rs[0].Status, ShouldEqual, model.RSVPConfirmed)
				So(rs[0].CreatedAt, ShouldEqual, t0)
				n, _ := s.CountRSVPs(ctx, game, model.RSVPConfirmed)
				So(n, ShouldEqual, 1)
			})
		})
	})
}

func TestMemStore_Teams(t *testing.T) {
	ctx := context.Background()

	Convey("Given a game without teams", t, func() {
		s := repository.NewMemStore()
		game := uuid.New()

		Convey("Then reading or flagging them is not found", func() {
			_, err := s.GetTeamAssignment(ctx, game)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
			locked := true
			So(errors.Is(s.SetTeamFlags(ctx, game, repository.TeamFlags{Locked: &locked}), fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("When teams are saved and locked", func() {
			first := model.TeamAssignment{GameID: game, TeamA: []uuid.UUID{uuid.New()}, TeamB: []uuid.UUID{uuid.New()}, Cost: 1.5}
			So(s.SaveTeamAssignment(ctx, first), ShouldBeNil)
			locked := true
			So(s.SetTeamFlags(ctx, game, repository.TeamFlags{Locked: &locked}), ShouldBeNil)

			Convey("Then saving again is rejected and the stored split is unchanged", func() {
				err := s.SaveTeamAssignment(ctx, model.TeamAssignment{GameID: game, Cost: 0.1})
				So(errors.Is(err, repository.ErrTeamsLocked), ShouldBeTrue)
				So(errors.Is(err, fault.ErrPrecondition), ShouldBeTrue)
				got, _ := s.GetTeamAssignment(ctx, game)
				So(got.Cost, ShouldEqual, 1.5)
				So(got.Locked, ShouldBeTrue)
				So(got.Published, ShouldBeFalse)
			})
		})
	})
}

func TestMemStore_Ledger(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	Convey("Given a store with one modifier row", t, func() {
		s := repository.NewMemStore()
		p := uuid.New()
		So(s.UpdateModifiers(ctx, func(l *ledger.Ledger) error {
			l.Apply(p, skill.Uniform(1), 1, now)
			return nil
		}), ShouldBeNil)

		Convey("When a ledger update fails", func() {
			err := s.UpdateModifiers(ctx, func(l *ledger.Ledger) error {
				l.Decay(0.5, now)
				l.Apply(uuid.New(), skill.Uniform(1), 1, now)
				return errors.New("boom")
			})

			Convey("Then nothing is committed", func() {
				So(err, ShouldNotBeNil)
				rows, _ := s.ListModifiers(ctx, nil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Deltas, ShouldResemble, skill.Uniform(1))
			})
		})

		Convey("When an award outcome is saved", func() {
			game := uuid.New()
			results := []model.AwardResult{{GameID: game, CategoryID: model.CategoryMVP, WinnerID: p, WinnerVotes: 2}}
			err := s.SaveAwardOutcome(ctx, game, results, func(l *ledger.Ledger) error {
				l.Decay(ledger.DefaultDecay, now)
				return nil
			})

			Convey("Then results and ledger change together", func() {
				So(err, ShouldBeNil)
				got, _ := s.ListAwardResults(ctx, game)
				So(got, ShouldResemble, results)
				rows, _ := s.ListModifiers(ctx, []uuid.UUID{p})
				So(rows[0].Deltas[skill.TC], ShouldAlmostEqual, 0.98, 1e-12)
			})
		})
	})
}

func TestMemStore_Upserts(t *testing.T) {
	ctx := context.Background()

	Convey("Given repeated ratings from the same rater", t, func() {
		s := repository.NewMemStore()
		rater, ratee := uuid.New(), uuid.New()
		So(s.UpsertRating(ctx, model.Rating{RaterID: rater, RateeID: ratee, Scores: [6]int{1, 1, 1, 1, 1, 1}}), ShouldBeNil)
		So(s.UpsertRating(ctx, model.Rating{RaterID: rater, RateeID: ratee, Scores: [6]int{5, 5, 5, 5, 5, 5}}), ShouldBeNil)

		Convey("Then only the latest is kept", func() {
			rs, _ := s.ListRatings(ctx)
			So(rs, ShouldHaveLength, 1)
			So(rs[0].Scores[0], ShouldEqual, 5)
			c, _ := s.Counts(ctx)
			So(c.Ratings, ShouldEqual, 1)
		})
	})

	Convey("Given profiles for two players", t, func() {
		s := repository.NewMemStore()
		a, b := uuid.New(), uuid.New()
		So(s.ReplaceSkillProfiles(ctx, []model.SkillProfile{{PlayerID: a}, {PlayerID: b}}), ShouldBeNil)

		Convey("Then a filtered listing returns only the requested ones", func() {
			ps, _ := s.ListSkillProfiles(ctx, []uuid.UUID{b})
			So(ps, ShouldHaveLength, 1)
			So(ps[0].PlayerID, ShouldEqual, b)
			all, _ := s.ListSkillProfiles(ctx, nil)
			So(all, ShouldHaveLength, 2)
		})
	})

	Convey("Given the default store", t, func() {
		cats, err := repository.NewMemStore().ListAwardCategories(ctx)

		Convey("Then the award reference set is seeded in order", func() {
			So(err, ShouldBeNil)
			So(cats, ShouldHaveLength, 5)
			So(cats[0].ID, ShouldEqual, model.CategoryMVP)
			So(cats[4].ID, ShouldEqual, model.CategoryMostImproved)
		})
	})
}

func TestMemStore_Profiles(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 4, 9, 0, 0, 0, time.UTC)

	Convey("Given a published set of profiles", t, func() {
		s := repository.NewMemStore()
		a, b, c := uuid.New(), uuid.New(), uuid.New()
		first := []model.SkillProfile{
			{PlayerID: a, Attrs: skill.Uniform(4), Strength: 4, Votes: 3, UpdatedAt: now},
			{PlayerID: b, Attrs: skill.Uniform(2), Strength: 2, Votes: 1, UpdatedAt: now},
		}
		So(s.ReplaceSkillProfiles(ctx, first), ShouldBeNil)

		Convey("When a later aggregation replaces them", func() {
			second := []model.SkillProfile{
				{PlayerID: c, Attrs: skill.Uniform(3), Strength: 3, Votes: 2, UpdatedAt: now.Add(time.Hour)},
				{PlayerID: a, Attrs: skill.Uniform(5), Strength: 5, Votes: 4, UpdatedAt: now.Add(time.Hour)},
			}
			So(s.ReplaceSkillProfiles(ctx, second), ShouldBeNil)

			Convey("Then only the new set is visible", func() {
				got, err := s.ListSkillProfiles(ctx, nil)
				So(err, ShouldBeNil)
				byID := cmpopts.SortSlices(func(x, y model.SkillProfile) bool { return x.PlayerID.String() < y.PlayerID.String() })
				So(cmp.Diff(second, got, byID), ShouldBeEmpty)
			})

			Convey("Then filtering by id skips players without a profile", func() {
				got, err := s.ListSkillProfiles(ctx, []uuid.UUID{b, c})
				So(err, ShouldBeNil)
				So(cmp.Diff(second[:1], got), ShouldBeEmpty)
			})
		})
	})
}
