// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/laureates/internal/adapters/repository"
	"github.com/okian/laureates/internal/domain/country"
	"github.com/okian/laureates/pkg/logger"
	"github.com/okian/laureates/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultDataPath = "./data/nobel.csv"
	defaultMarkStep = 10
)

// Service implements the API dependencies for the laureates dashboard.
// The dataset is read-only once Start returns, so view computations run
// concurrently without further locking; mu guards the lifecycle only.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	registry *country.Registry
	tracer   trace.Tracer

	// Configuration
	dataPath   string
	dateLayout string
	markStep   int

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataPath sets the CSV file loaded on Start.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithStore supplies an already loaded dataset; Start then skips loading.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRegistry sets the country registry used for resolution and names.
func WithRegistry(reg *country.Registry) Option {
	return func(s *Service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithMarkStep sets the spacing, in years, of the range-control marks.
func WithMarkStep(step int) Option {
	return func(s *Service) {
		if step > 0 {
			s.markStep = step
		}
	}
}

// WithDateLayout overrides the birth-date layout used by the loader.
func WithDateLayout(layout string) Option {
	return func(s *Service) {
		if layout != "" {
			s.dateLayout = layout
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath: defaultDataPath,
		markStep: defaultMarkStep,
		tracer:   otel.Tracer("laureates-service"),
		logger:   nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset. Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.registry == nil {
		reg, err := country.Default()
		if err != nil {
			return fmt.Errorf("load country registry: %w", err)
		}
		s.registry = reg
	}

	s.logger.Info(ctx, "starting laureates service...")

	if s.store == nil {
		ds, err := repository.LoadFile(ctx, s.dataPath,
			repository.WithRegistry(s.registry),
			repository.WithLogger(s.logger.Named("loader")),
			repository.WithDateLayout(s.dateLayout),
		)
		if err != nil {
			metrics.RecordError("startup", "", "dataset_load", "critical")
			return fmt.Errorf("load dataset %s: %w", s.dataPath, err)
		}
		s.store = ds
	} else {
		s.logger.Info(ctx, "using provided dataset")
	}

	stats := s.store.Stats(ctx)
	metrics.RecordDatasetLoad(s.store.Count(ctx), stats.Dropped, len(stats.UnmappedCountries),
		float64(stats.Duration.Microseconds())/1000)

	if len(stats.UnmappedCountries) > 0 {
		s.logger.Warn(ctx, "birth countries without ISO code",
			logger.Int("records", stats.UnmappedRecords),
			logger.Any("names", stats.UnmappedCountries),
		)
	}

	yearMin, yearMax := s.store.YearBounds(ctx)
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "laureates service started",
		logger.Int("records", s.store.Count(ctx)),
		logger.Int("yearMin", yearMin),
		logger.Int("yearMax", yearMax),
		logger.Int("categories", len(s.store.Categories(ctx))),
	)

	return nil
}

// Stop marks the service stopped. The dataset is kept so that a restart
// does not reload it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "laureates service stopped")
}

// dataset returns the loaded store or ErrNotStarted.
func (s *Service) dataset() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// RecordCount returns the number of loaded records, zero before Start.
func (s *Service) RecordCount(ctx context.Context) int {
	store, err := s.dataset()
	if err != nil {
		return 0
	}
	return store.Count(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":  s.started,
		"dataPath": s.dataPath,
		"markStep": s.markStep,
	}

	if s.started {
		load := s.store.Stats(ctx)
		yearMin, yearMax := s.store.YearBounds(ctx)

		stats["records"] = s.store.Count(ctx)
		stats["yearMin"] = yearMin
		stats["yearMax"] = yearMax
		stats["categories"] = s.store.Categories(ctx)
		stats["rowsRead"] = load.RowsRead
		stats["rowsDropped"] = load.DroppedTotal()
		stats["dropped"] = load.Dropped
		stats["unmappedRecords"] = load.UnmappedRecords
		stats["unmappedCountries"] = load.UnmappedCountries
		stats["loadedAt"] = load.LoadedAt
		stats["loadDurationMs"] = float64(load.Duration.Microseconds()) / 1000
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
	}

	return stats
}
