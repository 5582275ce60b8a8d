package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/laureates/internal/viewcheck"
	"github.com/okian/laureates/pkg/logger"
)

// Default configuration constants.
const (
	defaultQueries     = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		queries = flag.Int("queries", defaultQueries, "Number of random queries to issue")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed    = flag.Uint64("seed", 0, "Query generator seed (0 = random)")
		verbose = flag.Bool("verbose", false, "Log every query")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	stats, err := viewcheck.Run(ctx, &viewcheck.Config{
		BaseURL: *baseURL,
		Queries: *queries,
		Workers: *workers,
		Timeout: *timeout,
		Seed:    *seed,
		Verbose: *verbose,
	})
	if err != nil {
		for _, v := range stats.Violations {
			os.Stderr.WriteString("violation: " + v + "\n")
		}
		os.Stderr.WriteString("view check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
