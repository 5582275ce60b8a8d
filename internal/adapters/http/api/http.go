// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/laureates/internal/domain/types"
	"github.com/okian/laureates/pkg/logger"
	"golang.org/x/time/rate"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ComputeViews filters the dataset and returns every dashboard view.
	ComputeViews(ctx context.Context, q types.Query) (types.ViewBundle, error)

	// Options returns the bounds and values for the dashboard controls.
	Options(ctx context.Context) (types.Options, error)

	// RecordCount returns the number of loaded records.
	RecordCount(ctx context.Context) int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	viewsHandler   *ViewsHandler
	optionsHandler *OptionsHandler

	limiter *rate.Limiter
	logger  logger.Logger
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithRateLimit caps the API routes at rps requests per second with the
// given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(log logger.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		viewsHandler:   NewViewsHandler(deps),
		optionsHandler: NewOptionsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.viewsHandler.logger = s.logger
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz", false))
	mux.HandleFunc("/metrics", s.wrap(HandleMetrics, "metrics", false))
	mux.HandleFunc("/stats", s.wrap(s.statsHandler.HandleStats, "stats", false))
	mux.HandleFunc("/api/options", s.wrap(s.optionsHandler.HandleGetOptions, "options", true))
	mux.HandleFunc("/api/views", s.wrap(s.viewsHandler.HandleGetViews, "views", true))
}

// wrap applies the middleware chain: request id, then rate limiting for
// limited routes, with metrics recorded around both.
func (s *Server) wrap(next http.HandlerFunc, endpoint string, limited bool) http.HandlerFunc {
	h := next
	if limited && s.limiter != nil {
		h = RateLimitMiddleware(h, s.limiter, endpoint)
	}
	h = RequestIDMiddleware(h)
	return MetricsMiddleware(h, endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
