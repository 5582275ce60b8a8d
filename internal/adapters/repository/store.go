// Package repository loads the prize-award dataset and holds it in memory.
package repository

import (
	"context"
	"slices"
	"time"

	"github.com/okian/laureates/internal/domain/model"
)

// Drop reasons reported in LoadStats.Dropped.
const (
	DropMalformed       = "malformed"
	DropBadYear         = "bad_year"
	DropMissingDate     = "missing_date"
	DropPlaceholderDate = "placeholder_date"
	DropBadDate         = "bad_date"
)

// Store provides read access to the loaded dataset.
type Store interface {
	// Records returns every retained record. The slice is shared and must
	// not be modified.
	Records(ctx context.Context) []model.Record

	// YearBounds returns the smallest and largest award year.
	YearBounds(ctx context.Context) (minYear, maxYear int)

	// Categories returns the distinct categories in first-seen order.
	Categories(ctx context.Context) []string

	// Stats describes how the dataset was loaded.
	Stats(ctx context.Context) LoadStats

	// Count returns the number of retained records.
	Count(ctx context.Context) int
}

// LoadStats describes one dataset load.
type LoadStats struct {
	Source            string         `json:"source"`
	RowsRead          int            `json:"rows_read"`
	Records           int            `json:"records"`
	Dropped           map[string]int `json:"dropped"`
	UnmappedRecords   int            `json:"unmapped_records"`
	UnmappedCountries []string       `json:"unmapped_countries"`
	LoadedAt          time.Time      `json:"loaded_at"`
	Duration          time.Duration  `json:"duration_ns"`
}

// DroppedTotal sums the dropped rows over every reason.
func (s LoadStats) DroppedTotal() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// Dataset is the immutable, in-memory record set. It is built once and is
// safe for concurrent readers.
type Dataset struct {
	records    []model.Record
	yearMin    int
	yearMax    int
	categories []string
	stats      LoadStats
}

var _ Store = (*Dataset)(nil)

// NewDataset snapshots records into a Dataset. It returns ErrEmptyDataset
// when records is empty, since the year bounds would be undefined.
func NewDataset(records []model.Record, stats LoadStats) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	d := &Dataset{
		records: slices.Clip(slices.Clone(records)),
		yearMin: records[0].Year,
		yearMax: records[0].Year,
		stats:   stats,
	}
	seen := make(map[string]struct{})
	for _, r := range d.records {
		d.yearMin = min(d.yearMin, r.Year)
		d.yearMax = max(d.yearMax, r.Year)
		if _, ok := seen[r.Category]; !ok {
			seen[r.Category] = struct{}{}
			d.categories = append(d.categories, r.Category)
		}
	}
	d.stats.Records = len(d.records)
	if d.stats.Dropped == nil {
		d.stats.Dropped = map[string]int{}
	}
	return d, nil
}

// Records implements Store.
func (d *Dataset) Records(_ context.Context) []model.Record { return d.records }

// YearBounds implements Store.
func (d *Dataset) YearBounds(_ context.Context) (minYear, maxYear int) {
	return d.yearMin, d.yearMax
}

// Categories implements Store. The returned slice is a copy.
func (d *Dataset) Categories(_ context.Context) []string { return slices.Clone(d.categories) }

// Stats implements Store.
func (d *Dataset) Stats(_ context.Context) LoadStats {
	s := d.stats
	s.Dropped = make(map[string]int, len(d.stats.Dropped))
	for k, v := range d.stats.Dropped {
		s.Dropped[k] = v
	}
	s.UnmappedCountries = slices.Clone(d.stats.UnmappedCountries)
	return s
}

// Count implements Store.
func (d *Dataset) Count(_ context.Context) int { return len(d.records) }
