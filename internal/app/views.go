package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"github.com/okian/laureates/internal/adapters/repository"
	"github.com/okian/laureates/internal/domain/aggregate"
	"github.com/okian/laureates/internal/domain/filter"
	"github.com/okian/laureates/internal/domain/types"
	"github.com/okian/laureates/pkg/logger"
	"github.com/okian/laureates/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxSuggestDistance is the largest edit distance offered as "did you mean".
const maxSuggestDistance = 3

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Query, ResolvedQuery, ViewBundle and Options are the shapes shared with
// the HTTP layer.
type (
	Query         = types.Query
	ResolvedQuery = types.ResolvedQuery
	ViewBundle    = types.ViewBundle
	Options       = types.Options
)

// ComputeViews filters the dataset by q and derives every view from the
// same subset. The only error besides ErrNotStarted is ErrInvalidQuery.
// Every call refilters the dataset; bundles are never shared.
func (s *Service) ComputeViews(ctx context.Context, q Query) (ViewBundle, error) {
	store, err := s.dataset()
	if err != nil {
		return ViewBundle{}, err
	}

	ctx, span := s.tracer.Start(ctx, "Service.ComputeViews",
		trace.WithAttributes(
			attribute.String("query.category", q.Category),
			attribute.Bool("query.year_min_set", q.YearMin != nil),
			attribute.Bool("query.year_max_set", q.YearMax != nil),
		),
	)
	defer span.End()

	start := time.Now()

	yearMin, yearMax := store.YearBounds(ctx)
	resolved := ResolvedQuery{YearMin: yearMin, YearMax: yearMax, Category: q.Category}
	if q.YearMin != nil {
		resolved.YearMin = *q.YearMin
	}
	if q.YearMax != nil {
		resolved.YearMax = *q.YearMax
	}
	span.SetAttributes(
		attribute.Int("query.year_min", resolved.YearMin),
		attribute.Int("query.year_max", resolved.YearMax),
	)

	if err := validate.Struct(resolved); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			err = fmt.Errorf("%w: year_min %d is greater than year_max %d",
				ErrInvalidQuery, resolved.YearMin, resolved.YearMax)
		}
		span.RecordError(err)
		return ViewBundle{}, err
	}

	bundle := s.buildViews(ctx, store, resolved)

	span.SetAttributes(attribute.Int("view.total", bundle.Total))
	metrics.RecordViewComputation(bundle.Total, float64(time.Since(start).Microseconds())/1000)

	return bundle, nil
}

// buildViews filters the dataset and derives every view from one subset.
func (s *Service) buildViews(ctx context.Context, store repository.Store, resolved ResolvedQuery) ViewBundle {
	criteria := filter.Criteria{YearMin: resolved.YearMin, YearMax: resolved.YearMax}
	if resolved.Category != "" {
		category := resolved.Category
		criteria.Category = &category
	}
	subset := filter.Apply(store.Records(ctx), criteria)

	series := aggregate.YearAgeSeries(subset)
	bundle := ViewBundle{
		Query:      resolved,
		Total:      len(subset),
		Countries:  s.nameCountries(aggregate.CountryCounts(subset)),
		Series:     series,
		Trendline:  aggregate.Trend(series),
		Gender:     aggregate.GenderPercentages(subset),
		Categories: aggregate.CategoryCounts(subset),
	}

	if len(subset) == 0 {
		if resolved.Category != "" {
			bundle.Suggestion = suggest(resolved.Category, store.Categories(ctx))
		}
		s.log().Debug(ctx, "empty view",
			logger.Int("yearMin", resolved.YearMin),
			logger.Int("yearMax", resolved.YearMax),
			logger.String("category", resolved.Category),
			logger.String("suggestion", bundle.Suggestion),
		)
	}
	return bundle
}

// Options returns the year bounds, the categories in first-seen order and
// the year marks for the range control.
func (s *Service) Options(ctx context.Context) (Options, error) {
	store, err := s.dataset()
	if err != nil {
		return Options{}, err
	}

	yearMin, yearMax := store.YearBounds(ctx)
	s.mu.RLock()
	step := s.markStep
	s.mu.RUnlock()

	marks := make([]int, 0, (yearMax-yearMin)/step+1)
	for y := yearMin; y <= yearMax; y += step {
		marks = append(marks, y)
	}

	return Options{
		YearMin:    yearMin,
		YearMax:    yearMax,
		Categories: store.Categories(ctx),
		Marks:      marks,
	}, nil
}

// nameCountries fills in the registry name for each code.
func (s *Service) nameCountries(counts []aggregate.CountryCount) []aggregate.CountryCount {
	for i := range counts {
		if c, ok := s.registry.Lookup(counts[i].Country); ok {
			counts[i].Name = c.Name
		}
	}
	return counts
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}

// suggest returns the known category closest to category, or "" when none
// is within maxSuggestDistance. Comparison ignores case; ties keep the
// first-seen category.
func suggest(category string, known []string) string {
	best, bestDist := "", maxSuggestDistance+1
	needle := strings.ToLower(category)
	for _, k := range known {
		if k == category {
			return ""
		}
		if d := levenshtein.ComputeDistance(needle, strings.ToLower(k)); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
