package resolve_test

import (
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/resolve"
	"github.com/okian/squadup/internal/domain/skill"
)

func TestResolve(t *testing.T) {
	Convey("Given a resolver with the neutral default", t, func() {
		r := resolve.New()
		game := uuid.New()
		rated, fresh := uuid.New(), uuid.New()
		ids := []uuid.UUID{rated, fresh}
		profiles := []model.SkillProfile{
			{PlayerID: rated, Attrs: skill.Vector{4, 4, 4, 4, 4, 4}, Strength: 4},
		}

		Convey("When a player has no profile", func() {
			out := r.Resolve(ids, resolve.Inputs{Profiles: profiles})

			Convey("Then every attribute falls back to 3.0", func() {
				So(out, ShouldHaveLength, 2)
				So(out[1].ID, ShouldEqual, fresh)
				So(out[1].Attrs, ShouldResemble, skill.Uniform(3))
				So(out[1].Strength, ShouldAlmostEqual, 3.0, 1e-9)
			})
		})

		Convey("When modifiers push attributes past the bounds", func() {
			out := r.Resolve(ids, resolve.Inputs{
				Profiles: profiles,
				Modifiers: []model.PerformanceModifier{
					{PlayerID: rated, Deltas: skill.Vector{2, -10, 0, 0, 0, 0.5}},
				},
			})

			Convey("Then the resolved vector is clamped to [1,5]", func() {
				So(out[0].Attrs[skill.TC], ShouldEqual, 5.0)
				So(out[0].Attrs[skill.PD], ShouldEqual, 1.0)
				So(out[0].Attrs[skill.IQ], ShouldEqual, 4.5)
			})

			Convey("Then strength is recomputed from the clamped vector", func() {
				So(out[0].Strength, ShouldAlmostEqual, out[0].Attrs.Strength(), 1e-12)
			})
		})

		Convey("When form adjustments exist", func() {
			adjs := []model.FormAdjustment{
				{GameID: game, AdjusterID: uuid.New(), PlayerID: rated, Values: [6]int{1, 1, 0, 0, 0, -1}},
				{GameID: game, AdjusterID: uuid.New(), PlayerID: rated, Values: [6]int{0, 1, 0, 0, 0, -1}},
			}

			Convey("And the game enables them", func() {
				out := r.Resolve(ids, resolve.Inputs{Profiles: profiles, Adjustments: adjs, UseFormAdjustments: true})

				Convey("Then the per-player average is added", func() {
					So(out[0].Attrs[skill.TC], ShouldAlmostEqual, 4.5, 1e-12)
					So(out[0].Attrs[skill.PD], ShouldAlmostEqual, 5.0, 1e-12)
					So(out[0].Attrs[skill.IQ], ShouldAlmostEqual, 3.0, 1e-12)
				})
			})

			Convey("And the game disables them", func() {
				out := r.Resolve(ids, resolve.Inputs{Profiles: profiles, Adjustments: adjs})

				Convey("Then they are ignored", func() {
					So(out[0].Attrs, ShouldResemble, skill.Vector{4, 4, 4, 4, 4, 4})
				})
			})
		})
	})

	Convey("Given a resolver with a custom default", t, func() {
		r := resolve.New(resolve.WithDefault(2.5))
		id := uuid.New()

		Convey("Then unprofiled players use it", func() {
			out := r.Resolve([]uuid.UUID{id}, resolve.Inputs{})
			So(out[0].Attrs, ShouldResemble, skill.Uniform(2.5))
		})
	})

	Convey("Given an out-of-range default", t, func() {
		r := resolve.New(resolve.WithDefault(9))

		Convey("Then the neutral value is kept", func() {
			out := r.Resolve([]uuid.UUID{uuid.New()}, resolve.Inputs{})
			So(out[0].Attrs, ShouldResemble, skill.Uniform(3))
		})
	})
}

func TestAverageAdjustments(t *testing.T) {
	Convey("Given entries from three adjusters", t, func() {
		p := uuid.New()
		adjs := []model.FormAdjustment{
			{PlayerID: p, Values: [6]int{1, 0, 0, 0, 0, 0}},
			{PlayerID: p, Values: [6]int{1, 0, 0, 0, 0, 0}},
			{PlayerID: p, Values: [6]int{-1, 0, 0, 0, 0, 0}},
		}

		Convey("Then values are averaged, not summed", func() {
			avg := resolve.AverageAdjustments(adjs)
			So(avg[p][skill.TC], ShouldAlmostEqual, 1.0/3.0, 1e-12)
		})
	})
}
