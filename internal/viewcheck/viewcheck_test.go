package viewcheck

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/laureates/internal/adapters/http/api"
	"github.com/okian/laureates/internal/adapters/repository"
	service "github.com/okian/laureates/internal/app"
	"github.com/okian/laureates/internal/domain/aggregate"
	"github.com/okian/laureates/internal/domain/model"
	"github.com/okian/laureates/internal/domain/types"
	"github.com/okian/laureates/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func intp(v int) *int { return &v }

var testOptions = types.Options{ //nolint:gochecknoglobals // fixture
	YearMin:    1901,
	YearMax:    2016,
	Categories: []string{"physics", "chemistry", "peace"},
}

func TestGenerateQueries(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		rng := rand.New(rand.NewPCG(1, 2))
		queries := generateQueries(testOptions, 500, rng)

		Convey("Then it should produce the requested number of queries", func() {
			So(len(queries), ShouldEqual, 500)
		})

		Convey("And every bound should lie inside the dataset range", func() {
			for _, q := range queries {
				if q.YearMin != nil {
					So(*q.YearMin, ShouldBeBetweenOrEqual, 1901, 2016)
				}
				if q.YearMax != nil {
					So(*q.YearMax, ShouldBeBetweenOrEqual, 1901, 2016)
				}
			}
		})

		Convey("And the mix should include every kind of query", func() {
			var full, inverted, known, unknown int
			for _, q := range queries {
				switch {
				case q.YearMin == nil:
					full++
				case expectRejected(q):
					inverted++
				}
				switch {
				case q.Category == "":
				case q.Category == "physics" || q.Category == "chemistry" || q.Category == "peace":
					known++
				default:
					unknown++
				}
			}
			So(full, ShouldBeGreaterThan, 0)
			So(inverted, ShouldBeGreaterThan, 0)
			So(known, ShouldBeGreaterThan, 0)
			So(unknown, ShouldBeGreaterThan, 0)
		})

		Convey("And the same seed should reproduce the same queries", func() {
			again := generateQueries(testOptions, 500, rand.New(rand.NewPCG(1, 2)))
			So(again, ShouldResemble, queries)
		})
	})

	Convey("Given category names to misspell", t, func() {
		So(misspell("physics"), ShouldEqual, "hpysics")
		So(misspell("a"), ShouldEqual, "ax")
		So(misspell("oops"), ShouldEqual, "oopsx")
	})
}

func TestViewsPath(t *testing.T) {
	Convey("Given queries to encode", t, func() {
		So(viewsPath(types.Query{}), ShouldEqual, "/api/views")
		So(viewsPath(types.Query{YearMin: intp(1901), YearMax: intp(1910), Category: "peace"}),
			ShouldEqual, "/api/views?category=peace&year_max=1910&year_min=1901")
	})
}

func TestVerifyBundle(t *testing.T) {
	Convey("Given a consistent bundle", t, func() {
		q := types.Query{YearMin: intp(1901), YearMax: intp(1910)}
		b := types.ViewBundle{
			Query:      types.ResolvedQuery{YearMin: 1901, YearMax: 1910},
			Total:      3,
			Countries:  []aggregate.CountryCount{{Country: "DEU", Count: 2}, {Country: "FRA", Count: 1}},
			Series:     []aggregate.YearAge{{Year: 1901, Age: 56}, {Year: 1903, Age: 36}, {Year: 1905, Age: 40}},
			Trendline:  aggregate.Trendline{Valid: true, N: 3},
			Gender:     aggregate.GenderSplit{Total: 3, Male: 2, Female: 1, MalePct: 66.67, FemalePct: 33.33},
			Categories: []aggregate.CategoryCount{{Category: "physics", Count: 2}, {Category: "peace", Count: 1}},
		}

		Convey("Then it should pass", func() {
			So(verifyBundle(q, testOptions, b), ShouldBeEmpty)
		})

		Convey("When the category counts disagree with the total", func() {
			b.Total = 4
			b.Gender.Total = 4

			Convey("Then a violation should be reported", func() {
				v := verifyBundle(q, testOptions, b)
				So(len(v), ShouldEqual, 1)
				So(v[0], ShouldContainSubstring, "sum to 3")
			})
		})

		Convey("When a series point falls outside the range", func() {
			b.Series[2].Year = 1950

			Convey("Then a violation should be reported", func() {
				So(verifyBundle(q, testOptions, b), ShouldNotBeEmpty)
			})
		})

		Convey("When the countries are out of order", func() {
			b.Countries[0].Count, b.Countries[1].Count = 1, 2

			Convey("Then a violation should be reported", func() {
				So(verifyBundle(q, testOptions, b)[0], ShouldContainSubstring, "countries not ordered")
			})
		})
	})

	Convey("Given an empty bundle without the no-data flag", t, func() {
		b := types.ViewBundle{Query: types.ResolvedQuery{YearMin: 1901, YearMax: 2016}}

		Convey("Then a violation should be reported", func() {
			So(verifyBundle(types.Query{}, testOptions, b), ShouldContain, "empty view without no-data gender split")
		})
	})
}

func newTestServer() *httptest.Server {
	born := func(y int) time.Time { return time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC) }
	code := func(s string) *string { return &s }
	records := []model.Record{
		{Year: 1901, Category: "physics", Gender: model.GenderMale, Born: born(1845), BornCountry: "Germany", CountryISO3: code("DEU")},
		{Year: 1903, Category: "physics", Gender: model.GenderFemale, Born: born(1867), BornCountry: "Poland", CountryISO3: code("POL")},
		{Year: 1911, Category: "chemistry", Gender: model.GenderFemale, Born: born(1867), BornCountry: "Poland", CountryISO3: code("POL")},
		{Year: 1964, Category: "peace", Gender: model.GenderMale, Born: born(1929), BornCountry: "USA", CountryISO3: code("USA")},
		{Year: 2014, Category: "peace", Gender: model.GenderFemale, Born: born(1997), BornCountry: "Pakistan", CountryISO3: code("PAK")},
		{Year: 1912, Category: "literature", Gender: model.GenderMale, Born: born(1862), BornCountry: "Prussia"},
	}
	ds, err := repository.NewDataset(records, repository.LoadStats{})
	So(err, ShouldBeNil)

	svc := service.New(service.WithStore(ds))
	So(svc.Start(context.Background()), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a running dashboard", t, func() {
		srv := newTestServer()
		defer srv.Close()

		Convey("When running a seeded check", func() {
			stats, err := Run(context.Background(), &Config{
				BaseURL: srv.URL,
				Queries: 200,
				Workers: 4,
				Timeout: 5 * time.Second,
				Seed:    42,
			})

			Convey("Then every bundle should verify", func() {
				So(err, ShouldBeNil)
				So(stats.Violations, ShouldBeEmpty)
				So(stats.QueriesSent, ShouldEqual, 200)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Succeeded+stats.Rejected, ShouldEqual, 200)
				So(stats.Rejected, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a service that is not reachable", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("Then the health check should fail", func() {
			_, err := Run(context.Background(), &Config{BaseURL: srv.URL, Queries: 1, Workers: 1, Timeout: time.Second})
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrViolations), ShouldBeFalse)
		})
	})
}
