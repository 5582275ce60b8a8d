package viewcheck

import (
	"math/rand/v2"

	"github.com/okian/laureates/internal/domain/types"
)

// Shares of generated queries, out of 100.
const (
	shareFullRange  = 10 // no bounds at all
	shareInverted   = 5  // year_min > year_max, must be rejected
	shareUnknownCat = 5  // misspelt category, must come back empty
	shareCategory   = 50 // known category
)

// generateQueries builds n random queries inside the bounds in opts.
func generateQueries(opts types.Options, n int, rng *rand.Rand) []types.Query {
	queries := make([]types.Query, n)
	span := opts.YearMax - opts.YearMin + 1
	for i := range queries {
		roll := rng.IntN(100)
		if roll < shareFullRange {
			continue
		}

		lo := opts.YearMin + rng.IntN(span)
		hi := lo + rng.IntN(opts.YearMax-lo+1)
		if roll < shareFullRange+shareInverted && lo < hi {
			lo, hi = hi, lo
		}
		q := types.Query{YearMin: &lo, YearMax: &hi}

		switch {
		case roll < shareFullRange+shareInverted+shareUnknownCat && len(opts.Categories) > 0:
			q.Category = misspell(opts.Categories[rng.IntN(len(opts.Categories))])
		case rng.IntN(100) < shareCategory && len(opts.Categories) > 0:
			q.Category = opts.Categories[rng.IntN(len(opts.Categories))]
		}
		queries[i] = q
	}
	return queries
}

// misspell swaps the first two letters, or appends one for short names.
func misspell(category string) string {
	if len(category) < 2 || category[0] == category[1] {
		return category + "x"
	}
	return string(category[1]) + string(category[0]) + category[2:]
}
