package aggregate

import (
	"sort"

	"github.com/okian/laureates/internal/domain/model"
)

type tally[K comparable] struct {
	key   K
	count int
}

// countBy groups records by key, skipping records for which key reports
// false. Groups come back ordered by descending count; ties keep the
// order in which the group was first seen.
func countBy[K comparable](records []model.Record, key func(model.Record) (K, bool)) []tally[K] {
	index := make(map[K]int)
	groups := make([]tally[K], 0)
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		if i, seen := index[k]; seen {
			groups[i].count++
			continue
		}
		index[k] = len(groups)
		groups = append(groups, tally[K]{key: k, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})
	return groups
}

// CountryCounts counts records per ISO3 code. Records without a code
// cannot be placed on the map and are left out.
func CountryCounts(records []model.Record) []CountryCount {
	groups := countBy(records, model.Record.Country)
	out := make([]CountryCount, len(groups))
	for i, g := range groups {
		out[i] = CountryCount{Country: g.key, Count: g.count}
	}
	return out
}

// CategoryCounts counts records per category.
func CategoryCounts(records []model.Record) []CategoryCount {
	groups := countBy(records, func(r model.Record) (string, bool) {
		return r.Category, true
	})
	out := make([]CategoryCount, len(groups))
	for i, g := range groups {
		out[i] = CategoryCount{Category: g.key, Count: g.count}
	}
	return out
}
