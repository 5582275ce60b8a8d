package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/laureates/internal/domain/country"
	"github.com/okian/laureates/internal/domain/model"
	"github.com/okian/laureates/pkg/logger"
)

const (
	// defaultDateLayout reads birth dates as month/day/year; one- and
	// two-digit months and days are both accepted.
	defaultDateLayout = "1/2/2006"

	// placeholderPrefix marks birth dates with an unknown year ("0000-00-00").
	placeholderPrefix = "00"

	// ctxCheckEvery bounds how many rows are read between cancellation checks.
	ctxCheckEvery = 1024
)

// Required source columns.
const (
	colYear        = "year"
	colCategory    = "category"
	colGender      = "gender"
	colBorn        = "born"
	colBornCountry = "borncountry"
)

var requiredColumns = []string{colYear, colCategory, colGender, colBorn, colBornCountry} //nolint:gochecknoglobals // schema

type loader struct {
	registry   *country.Registry
	logger     logger.Logger
	dateLayout string
	source     string
}

// LoadFile opens path and loads it with LoadCSV.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	return LoadCSV(ctx, f, append([]Option{WithSource(path)}, opts...)...)
}

// LoadCSV reads a delimited dataset, cleans it and returns the immutable
// Dataset. Rows with an unusable year or birth date are dropped and counted
// in the stats; a missing required column or an I/O failure is an error.
func LoadCSV(ctx context.Context, r io.Reader, opts ...Option) (*Dataset, error) {
	l := &loader{dateLayout: defaultDateLayout}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		reg, err := country.Default()
		if err != nil {
			return nil, err
		}
		l.registry = reg
	}
	return l.load(ctx, r)
}

func (l *loader) load(ctx context.Context, r io.Reader) (*Dataset, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrSchema)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	stats := LoadStats{Source: l.source, Dropped: map[string]int{}}
	unmapped := map[string]struct{}{}
	records := make([]model.Record, 0, 1024)

	for n := 1; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.RowsRead++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				l.drop(ctx, &stats, DropMalformed, n, err.Error())
				continue
			}
			return nil, fmt.Errorf("%w: row %d: %w", ErrRead, n, err)
		}

		rec, reason := l.parseRow(row, cols)
		if reason != "" {
			l.drop(ctx, &stats, reason, n, strings.Join(row, ","))
			continue
		}
		if rec.CountryISO3 == nil {
			stats.UnmappedRecords++
			if name := strings.TrimSpace(rec.BornCountry); name != "" {
				unmapped[name] = struct{}{}
			}
		}
		records = append(records, rec)
	}

	for name := range unmapped {
		stats.UnmappedCountries = append(stats.UnmappedCountries, name)
	}
	sort.Strings(stats.UnmappedCountries)
	stats.LoadedAt = time.Now()
	stats.Duration = time.Since(start)

	ds, err := NewDataset(records, stats)
	if err != nil {
		return nil, err
	}

	if l.logger != nil {
		l.logger.Info(ctx, "dataset loaded",
			logger.String("source", l.source),
			logger.Int("rows", stats.RowsRead),
			logger.Int("records", ds.Count(ctx)),
			logger.Int("dropped", stats.DroppedTotal()),
			logger.Int("unmapped_countries", len(stats.UnmappedCountries)),
			logger.Duration("duration", stats.Duration),
		)
	}
	return ds, nil
}

// parseRow builds a Record from one row. A non-empty reason means the row
// must be dropped.
func (l *loader) parseRow(row []string, cols map[string]int) (model.Record, string) {
	year, err := strconv.Atoi(strings.TrimSpace(row[cols[colYear]]))
	if err != nil {
		return model.Record{}, DropBadYear
	}

	born, reason := l.parseBorn(row[cols[colBorn]])
	if reason != "" {
		return model.Record{}, reason
	}

	rec := model.Record{
		Year:        year,
		Category:    strings.TrimSpace(row[cols[colCategory]]),
		Gender:      model.ParseGender(row[cols[colGender]]),
		Born:        born,
		BornCountry: strings.TrimSpace(row[cols[colBornCountry]]),
	}
	if code, ok := l.registry.Resolve(rec.BornCountry); ok {
		rec.CountryISO3 = &code
	}
	return rec, ""
}

// parseBorn parses a birth date. Placeholder years are rejected before
// parsing so they never turn into garbage dates.
func (l *loader) parseBorn(raw string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return time.Time{}, DropMissingDate
	}
	if strings.HasPrefix(raw, placeholderPrefix) {
		return time.Time{}, DropPlaceholderDate
	}
	t, err := time.Parse(l.dateLayout, raw)
	if err != nil {
		return time.Time{}, DropBadDate
	}
	return t, ""
}

func (l *loader) drop(ctx context.Context, stats *LoadStats, reason string, n int, detail string) {
	stats.Dropped[reason]++
	if l.logger != nil {
		l.logger.Debug(ctx, "row dropped",
			logger.String("reason", reason),
			logger.Int("row", n),
			logger.String("values", detail),
		)
	}
}

// indexColumns maps required column names to their position. Names are
// matched case-insensitively; extra columns are ignored.
func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	return cols, nil
}
