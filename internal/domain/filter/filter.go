// Package filter selects the records that fall inside a year range and,
// optionally, a single prize category.
package filter

import "github.com/okian/laureates/internal/domain/model"

// Criteria restricts a record set. Year bounds are inclusive. A nil
// Category applies no category restriction.
type Criteria struct {
	YearMin  int
	YearMax  int
	Category *string
}

// Matches reports whether a single record satisfies the criteria.
func (c Criteria) Matches(r model.Record) bool {
	if r.Year < c.YearMin || r.Year > c.YearMax {
		return false
	}
	if c.Category != nil && r.Category != *c.Category {
		return false
	}
	return true
}

// Apply returns the records matching c in their original order. The result
// is never nil and shares no backing array with records.
func Apply(records []model.Record, c Criteria) []model.Record {
	out := make([]model.Record, 0, len(records)/4)
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
