// Package viewcheck drives a running dashboard with random queries and
// checks every returned view bundle for internal consistency.
package viewcheck

import "time"

// Config holds configuration for a check run.
type Config struct {
	BaseURL string        // Base URL of the service
	Queries int           // Number of random queries to issue
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Seed    uint64        // Seed for the query generator; 0 picks one from the clock
	Verbose bool          // Log every query
}

// Stats holds run statistics.
type Stats struct {
	QueriesGenerated int
	QueriesSent      int
	Succeeded        int
	Rejected         int // 400 answers to deliberately invalid queries
	RateLimited      int
	Failed           int
	Violations       []string
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
