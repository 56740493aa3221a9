package types_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/domain/types"
)

func TestProfileEntryJSON(t *testing.T) {
	Convey("Given a ranked profile entry", t, func() {
		entry := types.ProfileEntry{
			Rank:     1,
			PlayerID: uuid.MustParse("8c1e3f5e-0f7b-4b8e-9a3c-2f3d6c1b7a10"),
			Attrs:    map[string]float64{"tc": 4.25},
			Strength: 3.9,
			Votes:    7,
		}

		Convey("When it is encoded", func() {
			raw, err := json.Marshal(entry)
			So(err, ShouldBeNil)

			Convey("Then it uses the wire field names", func() {
				s := string(raw)
				So(s, ShouldContainSubstring, `"rank":1`)
				So(s, ShouldContainSubstring, `"player_id":"8c1e3f5e-0f7b-4b8e-9a3c-2f3d6c1b7a10"`)
				So(s, ShouldContainSubstring, `"n_votes":7`)
				So(s, ShouldNotContainSubstring, `"name"`)
			})
		})
	})
}
