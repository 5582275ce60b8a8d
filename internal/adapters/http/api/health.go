package api

import (
	"context"
	"net/http"

	"github.com/okian/laureates/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordCounter reports how many records are loaded.
type RecordCounter interface {
	RecordCount(ctx context.Context) int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	counter RecordCounter
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(counter RecordCounter) *HealthHandler {
	return &HealthHandler{counter: counter}
}

type healthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

// HandleHealth handles GET /healthz requests. The service is healthy once
// a non-empty dataset is loaded; before that it answers 503.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.counter.RecordCount(r.Context())
	if n == 0 {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading", Records: 0})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Records: n})
}

// HandleMetrics serves GET /metrics from the custom registry.
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
