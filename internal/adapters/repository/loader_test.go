package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/laureates/internal/adapters/repository"
	"github.com/okian/laureates/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const sample = `year,category,laureate,gender,born,bornCountry,died
1901,physics,Wilhelm Conrad Röntgen,male,3/27/1845,Germany,2/10/1923
1903,physics,Marie Curie,female,11/7/1867,Poland,7/4/1934
1911,chemistry,Marie Curie,female,11/7/1867,Poland,7/4/1934
1917,peace,International Committee of the Red Cross,org,0000-00-00,,
1921,physics,Albert Einstein,male,03/14/1879,Germany,4/18/1955
1964,peace,Martin Luther King Jr.,male,1/15/1929,USA,4/4/1968
1909,medicine,Emil Theodor Kocher,male,8/25/1841,Switzerland,7/27/1917
1912,literature,Gerhart Hauptmann,male,11/15/1862,Prussia,6/6/1946
1950,literature,Bertrand Russell,male,not a date,United Kingdom,2/2/1970
19x5,chemistry,Nobody,male,1/1/1900,France,
2014,peace,Malala Yousafzai,female,7/12/1997,Pakistan,
1993,medicine,Richard J. Roberts,male,9/6/1943,United Kingdom,
`

func TestLoadCSV(t *testing.T) {
	Convey("Given a raw dataset with dirty rows", t, func() {
		ctx := context.Background()
		ds, err := repository.LoadCSV(ctx, strings.NewReader(sample), repository.WithLogger(logger.Get()))

		So(err, ShouldBeNil)
		So(ds, ShouldNotBeNil)

		Convey("Then every retained record should have a valid birth date", func() {
			for _, r := range ds.Records(ctx) {
				So(r.Born.IsZero(), ShouldBeFalse)
				_, ok := r.Age()
				So(ok, ShouldBeTrue)
			}
		})

		Convey("And the placeholder birth date should be absent", func() {
			for _, r := range ds.Records(ctx) {
				So(r.Year, ShouldNotEqual, 1917)
			}
		})

		Convey("And drops should be counted per reason", func() {
			stats := ds.Stats(ctx)
			So(stats.RowsRead, ShouldEqual, 12)
			So(stats.Records, ShouldEqual, 9)
			So(stats.Dropped[repository.DropPlaceholderDate], ShouldEqual, 1)
			So(stats.Dropped[repository.DropBadDate], ShouldEqual, 1)
			So(stats.Dropped[repository.DropBadYear], ShouldEqual, 1)
			So(stats.DroppedTotal(), ShouldEqual, 3)
		})

		Convey("And ages should be derived from the award year", func() {
			first := ds.Records(ctx)[0]
			age, _ := first.Age()
			So(age, ShouldEqual, 56)

			einstein := ds.Records(ctx)[3]
			So(einstein.Year, ShouldEqual, 1921)
			age, _ = einstein.Age()
			So(age, ShouldEqual, 42)
		})

		Convey("And country names should resolve to ISO3 codes", func() {
			recs := ds.Records(ctx)
			code, ok := recs[0].Country()
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, "DEU")

			code, ok = recs[4].Country()
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, "USA")
		})

		Convey("And unresolvable names should leave the code empty without failing", func() {
			recs := ds.Records(ctx)
			So(recs[6].BornCountry, ShouldEqual, "Prussia")
			So(recs[6].CountryISO3, ShouldBeNil)

			stats := ds.Stats(ctx)
			So(stats.UnmappedRecords, ShouldEqual, 1)
			So(stats.UnmappedCountries, ShouldResemble, []string{"Prussia"})
		})

		Convey("And control bounds should come from the retained records", func() {
			lo, hi := ds.YearBounds(ctx)
			So(lo, ShouldEqual, 1901)
			So(hi, ShouldEqual, 2014)
			So(ds.Categories(ctx), ShouldResemble, []string{"physics", "chemistry", "peace", "medicine", "literature"})
		})

		Convey("And genders outside male/female should be unknown", func() {
			for _, r := range ds.Records(ctx) {
				So(string(r.Gender), ShouldBeIn, []string{"male", "female"})
			}
		})
	})
}

func TestLoadCSVSchema(t *testing.T) {
	Convey("Given header variations", t, func() {
		ctx := context.Background()

		Convey("When columns differ in case, order and padding", func() {
			data := "\ufeffBornCountry , Born,Gender,CATEGORY,Year\nFrance,5/15/1859,male,physics,1903\n"
			ds, err := repository.LoadCSV(ctx, strings.NewReader(data))

			Convey("Then they should still be located", func() {
				So(err, ShouldBeNil)
				So(ds.Count(ctx), ShouldEqual, 1)
				code, _ := ds.Records(ctx)[0].Country()
				So(code, ShouldEqual, "FRA")
			})
		})

		Convey("When a required column is missing", func() {
			data := "year,category,gender,born\n1901,physics,male,3/27/1845\n"
			_, err := repository.LoadCSV(ctx, strings.NewReader(data))

			Convey("Then the load should fail with a schema error", func() {
				So(errors.Is(err, repository.ErrSchema), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "borncountry")
			})
		})

		Convey("When the input is empty", func() {
			_, err := repository.LoadCSV(ctx, strings.NewReader(""))
			So(errors.Is(err, repository.ErrSchema), ShouldBeTrue)
		})

		Convey("When every row is dropped", func() {
			data := "year,category,gender,born,bornCountry\n1917,peace,org,0000-00-00,\n"
			_, err := repository.LoadCSV(ctx, strings.NewReader(data))
			So(errors.Is(err, repository.ErrEmptyDataset), ShouldBeTrue)
		})

		Convey("When a row has the wrong number of fields", func() {
			data := "year,category,gender,born,bornCountry\n1901,physics,male,3/27/1845,Germany\n1902,physics\n"
			ds, err := repository.LoadCSV(ctx, strings.NewReader(data))

			Convey("Then only that row should be dropped", func() {
				So(err, ShouldBeNil)
				So(ds.Count(ctx), ShouldEqual, 1)
				So(ds.Stats(ctx).Dropped[repository.DropMalformed], ShouldEqual, 1)
			})
		})

		Convey("When birth dates are missing or nan", func() {
			data := "year,category,gender,born,bornCountry\n1901,physics,male,,Germany\n1902,physics,male,nan,Germany\n1903,physics,male,1/1/1850,Germany\n"
			ds, err := repository.LoadCSV(ctx, strings.NewReader(data))

			So(err, ShouldBeNil)
			So(ds.Count(ctx), ShouldEqual, 1)
			So(ds.Stats(ctx).Dropped[repository.DropMissingDate], ShouldEqual, 2)
		})

		Convey("When a custom date layout is configured", func() {
			data := "year,category,gender,born,bornCountry\n1901,physics,male,1845-03-27,Germany\n"
			ds, err := repository.LoadCSV(ctx, strings.NewReader(data), repository.WithDateLayout("2006-01-02"))

			So(err, ShouldBeNil)
			So(ds.Records(ctx)[0].Born.Month().String(), ShouldEqual, "March")
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a dataset on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "nobel.csv")
		So(os.WriteFile(path, []byte(sample), 0o600), ShouldBeNil)

		Convey("When loading it by path", func() {
			ds, err := repository.LoadFile(ctx, path)

			Convey("Then the source should be recorded", func() {
				So(err, ShouldBeNil)
				So(ds.Stats(ctx).Source, ShouldEqual, path)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := repository.LoadFile(ctx, filepath.Join(dir, "missing.csv"))

			Convey("Then the load should fail", func() {
				So(errors.Is(err, repository.ErrOpen), ShouldBeTrue)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})
	})
}

func TestLoadCSVCancelled(t *testing.T) {
	Convey("Given a cancelled context and a large input", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var b strings.Builder
		b.WriteString("year,category,gender,born,bornCountry\n")
		for i := 0; i < 5000; i++ {
			b.WriteString("1901,physics,male,3/27/1845,Germany\n")
		}

		_, err := repository.LoadCSV(ctx, strings.NewReader(b.String()))

		Convey("Then loading should stop with the context error", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
