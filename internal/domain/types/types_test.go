package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/laureates/internal/domain/aggregate"
	types "github.com/okian/laureates/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuery(t *testing.T) {
	Convey("Given a query with no bounds", t, func() {
		q := types.Query{Category: "physics"}

		Convey("When encoding it", func() {
			b, err := json.Marshal(q)

			Convey("Then unset bounds should be omitted", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"category":"physics"}`)
			})
		})
	})
}

func TestViewBundle(t *testing.T) {
	Convey("Given an empty view bundle", t, func() {
		bundle := types.ViewBundle{
			Query:      types.ResolvedQuery{YearMin: 1901, YearMax: 1910},
			Countries:  []aggregate.CountryCount{},
			Series:     []aggregate.YearAge{},
			Categories: []aggregate.CategoryCount{},
			Gender:     aggregate.GenderPercentages(nil),
		}

		Convey("When encoding it", func() {
			b, err := json.Marshal(bundle)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(b, &decoded), ShouldBeNil)

			Convey("Then sequences should encode as empty arrays", func() {
				So(decoded["countries"], ShouldResemble, []any{})
				So(decoded["series"], ShouldResemble, []any{})
				So(decoded["categories"], ShouldResemble, []any{})
			})

			Convey("And the suggestion should be omitted", func() {
				_, ok := decoded["suggestion"]
				So(ok, ShouldBeFalse)
			})

			Convey("And the gender cards should carry the no-data label", func() {
				gender := decoded["gender"].(map[string]any)
				So(gender["male_label"], ShouldEqual, "0 %")
				So(gender["no_data"], ShouldEqual, true)
			})
		})
	})
}
