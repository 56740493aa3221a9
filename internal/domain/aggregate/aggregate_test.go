package aggregate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/domain/aggregate"
	"github.com/okian/squadup/internal/domain/fault"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
)

func rating(rater, ratee uuid.UUID, scores ...int) model.Rating {
	r := model.Rating{RaterID: rater, RateeID: ratee}
	copy(r.Scores[:], scores)
	return r
}

func TestTrimCount(t *testing.T) {
	Convey("Given the trim policy", t, func() {
		Convey("When the sample is smaller than four", func() {
			Convey("Then nothing is dropped", func() {
				for n := 0; n < 4; n++ {
					So(aggregate.TrimCount(n), ShouldEqual, 0)
				}
			})
		})

		Convey("When the sample has four to seven values", func() {
			Convey("Then exactly one value is dropped from each end", func() {
				for n := 4; n < 8; n++ {
					So(aggregate.TrimCount(n), ShouldEqual, 1)
				}
			})
		})

		Convey("When the sample has eight or more values", func() {
			Convey("Then round(n*0.1) values are dropped from each end", func() {
				So(aggregate.TrimCount(8), ShouldEqual, 1)
				So(aggregate.TrimCount(10), ShouldEqual, 1)
				So(aggregate.TrimCount(15), ShouldEqual, 2)
				So(aggregate.TrimCount(20), ShouldEqual, 2)
				So(aggregate.TrimCount(25), ShouldEqual, 3)
				So(aggregate.TrimCount(40), ShouldEqual, 4)
			})
		})
	})
}

func TestTrimmedMean(t *testing.T) {
	Convey("Given samples of different sizes", t, func() {
		Convey("When four raters score 1, 2, 4 and 5", func() {
			Convey("Then the extremes are dropped and the mean is 3", func() {
				So(aggregate.TrimmedMean([]float64{1, 2, 4, 5}), ShouldEqual, 3.0)
			})
		})

		Convey("When the input is unsorted", func() {
			values := []float64{5, 1, 4, 2}
			mean := aggregate.TrimmedMean(values)

			Convey("Then it is sorted internally and the input is untouched", func() {
				So(mean, ShouldEqual, 3.0)
				So(values, ShouldResemble, []float64{5, 1, 4, 2})
			})
		})

		Convey("When fewer than four values exist", func() {
			Convey("Then all values are averaged", func() {
				So(aggregate.TrimmedMean([]float64{1, 2, 5}), ShouldAlmostEqual, 8.0/3.0, 1e-9)
			})
		})

		Convey("When eight values exist", func() {
			Convey("Then one value is dropped from each end", func() {
				So(aggregate.TrimmedMean([]float64{1, 1, 2, 3, 3, 4, 5, 5}), ShouldEqual, 3.0)
			})
		})

		Convey("When the sample is empty", func() {
			Convey("Then the mean is zero", func() {
				So(aggregate.TrimmedMean(nil), ShouldEqual, 0)
			})
		})
	})
}

func TestCompute(t *testing.T) {
	Convey("Given the full rating set", t, func() {
		now := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

		Convey("When there are no ratings at all", func() {
			profiles, err := aggregate.Compute(nil, now)

			Convey("Then it fails with a precondition error", func() {
				So(profiles, ShouldBeNil)
				So(errors.Is(err, aggregate.ErrNoData), ShouldBeTrue)
				So(errors.Is(err, fault.ErrPrecondition), ShouldBeTrue)
			})
		})

		Convey("When a player has exactly four raters", func() {
			ratee := uuid.New()
			ratings := []model.Rating{
				rating(uuid.New(), ratee, 1, 3, 3, 3, 3, 3),
				rating(uuid.New(), ratee, 2, 3, 3, 3, 3, 3),
				rating(uuid.New(), ratee, 4, 3, 3, 3, 3, 3),
				rating(uuid.New(), ratee, 5, 3, 3, 3, 3, 3),
			}
			profiles, err := aggregate.Compute(ratings, now)

			Convey("Then the technique mean is computed from the trimmed set [2,4]", func() {
				So(err, ShouldBeNil)
				So(profiles, ShouldHaveLength, 1)
				p := profiles[0]
				So(p.PlayerID, ShouldEqual, ratee)
				So(p.Attrs[skill.TC], ShouldEqual, 3.0)
				So(p.Strength, ShouldEqual, 3.0)
				So(p.Votes, ShouldEqual, 4)
				So(p.UpdatedAt, ShouldEqual, now)
			})
		})

		Convey("When several players are rated", func() {
			first, second := uuid.New(), uuid.New()
			rater := uuid.New()
			ratings := []model.Rating{
				rating(rater, second, 4, 3, 3, 3, 3, 3),
				rating(rater, first, 5, 5, 5, 5, 5, 5),
				rating(uuid.New(), second, 4, 3, 3, 3, 3, 3),
			}
			profiles, err := aggregate.Compute(ratings, now)

			Convey("Then one profile per ratee is produced in first-appearance order", func() {
				So(err, ShouldBeNil)
				So(profiles, ShouldHaveLength, 2)
				So(profiles[0].PlayerID, ShouldEqual, second)
				So(profiles[1].PlayerID, ShouldEqual, first)
			})

			Convey("Then strength is the weighted sum rounded to three decimals", func() {
				So(profiles[0].Strength, ShouldAlmostEqual, 3.2, 1e-9)
				So(profiles[1].Strength, ShouldAlmostEqual, 5.0, 1e-9)
			})

			Convey("Then votes count raw ratings, not trimmed ones", func() {
				So(profiles[0].Votes, ShouldEqual, 2)
				So(profiles[1].Votes, ShouldEqual, 1)
			})
		})

		Convey("When attribute means need rounding", func() {
			ratee := uuid.New()
			ratings := []model.Rating{
				rating(uuid.New(), ratee, 1, 1, 1, 1, 1, 1),
				rating(uuid.New(), ratee, 2, 2, 2, 2, 2, 2),
				rating(uuid.New(), ratee, 5, 5, 5, 5, 5, 5),
			}
			profiles, err := aggregate.Compute(ratings, now)

			Convey("Then each mean is rounded to two decimals", func() {
				So(err, ShouldBeNil)
				for _, a := range skill.All {
					So(profiles[0].Attrs[a], ShouldEqual, 2.67)
				}
				So(profiles[0].Strength, ShouldAlmostEqual, 2.67, 1e-9)
			})
		})
	})
}
