// Package types contains common types used across the application
package types

import (
	"errors"

	"github.com/okian/laureates/internal/domain/aggregate"
)

// Errors shared between the service and its HTTP adapter.
var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrNotReady     = errors.New("dataset not loaded")
)

// Query selects the slice of the dataset to aggregate. Nil bounds default
// to the dataset's observed years; an empty Category selects every category.
type Query struct {
	YearMin  *int   `json:"year_min,omitempty"`
	YearMax  *int   `json:"year_max,omitempty"`
	Category string `json:"category,omitempty"`
}

// ResolvedQuery is a Query with its defaults filled in.
type ResolvedQuery struct {
	YearMin  int    `json:"year_min" validate:"ltefield=YearMax"`
	YearMax  int    `json:"year_max"`
	Category string `json:"category,omitempty"`
}

// ViewBundle carries every dashboard view for one query.
type ViewBundle struct {
	Query      ResolvedQuery             `json:"query"`
	Total      int                       `json:"total"`
	Countries  []aggregate.CountryCount  `json:"countries"`
	Series     []aggregate.YearAge       `json:"series"`
	Trendline  aggregate.Trendline       `json:"trendline"`
	Gender     aggregate.GenderSplit     `json:"gender"`
	Categories []aggregate.CategoryCount `json:"categories"`
	Suggestion string                    `json:"suggestion,omitempty"`
}

// Options describes the controls the dashboard renders.
type Options struct {
	YearMin    int      `json:"year_min"`
	YearMax    int      `json:"year_max"`
	Categories []string `json:"categories"`
	Marks      []int    `json:"marks"`
}
