package viewcheck

import (
	"fmt"
	"slices"

	"github.com/okian/laureates/internal/domain/types"
)

// expectRejected reports whether the service must answer q with 400.
func expectRejected(q types.Query) bool {
	return q.YearMin != nil && q.YearMax != nil && *q.YearMin > *q.YearMax
}

// verifyBundle checks that the views in b agree with each other and with
// the query that produced them. It returns one message per violation.
func verifyBundle(q types.Query, opts types.Options, b types.ViewBundle) []string {
	var out []string
	fail := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	wantMin, wantMax := opts.YearMin, opts.YearMax
	if q.YearMin != nil {
		wantMin = *q.YearMin
	}
	if q.YearMax != nil {
		wantMax = *q.YearMax
	}
	if b.Query.YearMin != wantMin || b.Query.YearMax != wantMax {
		fail("resolved range [%d,%d], want [%d,%d]", b.Query.YearMin, b.Query.YearMax, wantMin, wantMax)
	}

	sum := 0
	for i, c := range b.Categories {
		sum += c.Count
		if i > 0 && c.Count > b.Categories[i-1].Count {
			fail("categories not ordered by count at %q", c.Category)
		}
		if q.Category != "" && c.Category != q.Category {
			fail("category %q present under filter %q", c.Category, q.Category)
		}
	}
	if sum != b.Total {
		fail("category counts sum to %d, total is %d", sum, b.Total)
	}

	mapped := 0
	for i, c := range b.Countries {
		mapped += c.Count
		if i > 0 && c.Count > b.Countries[i-1].Count {
			fail("countries not ordered by count at %q", c.Country)
		}
	}
	if mapped > b.Total {
		fail("country counts sum to %d, above total %d", mapped, b.Total)
	}

	if len(b.Series) > b.Total {
		fail("series has %d points for %d records", len(b.Series), b.Total)
	}
	for _, p := range b.Series {
		if p.Year < wantMin || p.Year > wantMax {
			fail("series year %d outside [%d,%d]", p.Year, wantMin, wantMax)
			break
		}
	}
	if b.Trendline.Valid && b.Trendline.N != len(b.Series) {
		fail("trendline fitted on %d points, series has %d", b.Trendline.N, len(b.Series))
	}

	g := b.Gender
	if g.Total != b.Total {
		fail("gender total %d, total is %d", g.Total, b.Total)
	}
	if g.MalePct < 0 || g.FemalePct < 0 || g.MalePct+g.FemalePct > 100 {
		fail("gender percentages %.2f/%.2f out of range", g.MalePct, g.FemalePct)
	}
	if b.Total == 0 && !g.NoData {
		fail("empty view without no-data gender split")
	}

	if q.Category != "" && !slices.Contains(opts.Categories, q.Category) && b.Total != 0 {
		fail("unknown category %q matched %d records", q.Category, b.Total)
	}
	return out
}
