package viewcheck

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/okian/laureates/internal/domain/types"
	"github.com/okian/laureates/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// ErrViolations is returned when any view bundle failed verification.
var ErrViolations = errors.New("view bundles failed verification")

// maxReportedViolations caps how many violations are kept in Stats.
const maxReportedViolations = 50

// Run executes the complete check and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("viewcheck")

	log.Info(ctx, "starting view check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", cfg.Queries),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	status, err := client.getJSON(ctx, "/healthz", nil)
	if err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	if status != http.StatusOK {
		return stats, fmt.Errorf("service health check failed with status: %d", status)
	}

	// Step 2: Fetch control bounds
	var opts types.Options
	status, err = client.getJSON(ctx, "/api/options", &opts)
	if err != nil {
		return stats, fmt.Errorf("fetch options: %w", err)
	}
	if status != http.StatusOK {
		return stats, fmt.Errorf("fetch options failed with status: %d", status)
	}

	// Step 3: Generate queries
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	queries := generateQueries(opts, cfg.Queries, rand.New(rand.NewPCG(seed, seed>>1)))
	stats.QueriesGenerated = len(queries)

	// Step 4: Issue queries concurrently and verify each answer
	if err := runQueries(ctx, cfg, client, opts, queries, stats, log); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "view check completed",
		logger.Int("sent", stats.QueriesSent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("rejected", stats.Rejected),
		logger.Int("rateLimited", stats.RateLimited),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("duration", stats.Duration),
		logger.Any("seed", seed),
	)

	if len(stats.Violations) > 0 {
		return stats, fmt.Errorf("%w: %d found", ErrViolations, len(stats.Violations))
	}
	return stats, nil
}

func runQueries(ctx context.Context, cfg *Config, client *httpClient, opts types.Options,
	queries []types.Query, stats *Stats, log logger.Logger,
) error {
	var mu sync.Mutex
	record := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for _, q := range queries {
		g.Go(func() error {
			path := viewsPath(q)
			var bundle types.ViewBundle
			status, err := client.getJSON(gctx, path, &bundle)
			if cfg.Verbose {
				log.Debug(gctx, "query", logger.String("path", path), logger.Int("status", status))
			}

			record(func() {
				stats.QueriesSent++
				switch {
				case err != nil:
					stats.Failed++
				case status == http.StatusTooManyRequests:
					stats.RateLimited++
				case expectRejected(q):
					if status == http.StatusBadRequest {
						stats.Rejected++
					} else {
						addViolation(stats, fmt.Sprintf("%s: inverted range answered %d", path, status))
					}
				case status != http.StatusOK:
					stats.Failed++
				default:
					stats.Succeeded++
					for _, v := range verifyBundle(q, opts, bundle) {
						addViolation(stats, path+": "+v)
					}
				}
			})
			// Cancellation is the only error that stops the run early.
			return gctx.Err()
		})
	}
	return g.Wait()
}

func addViolation(stats *Stats, v string) {
	if len(stats.Violations) < maxReportedViolations {
		stats.Violations = append(stats.Violations, v)
	}
}
