package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/laureates/internal/domain/types"
	"github.com/okian/laureates/pkg/logger"
)

// ViewsDependencies defines the interface for view computation.
type ViewsDependencies interface {
	ComputeViews(ctx context.Context, q types.Query) (types.ViewBundle, error)
}

// ViewsHandler handles view requests.
type ViewsHandler struct {
	deps   ViewsDependencies
	logger logger.Logger
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps ViewsDependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleGetViews handles GET /api/views?year_min=&year_max=&category= requests.
func (h *ViewsHandler) HandleGetViews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	bundle, err := h.deps.ComputeViews(r.Context(), q)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, bundle)
	case errors.Is(err, types.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, types.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", fmt.Errorf("%w: %w", ErrNotReady, err))
	default:
		if h.logger != nil {
			h.logger.Error(r.Context(), "compute views failed", logger.Error(err))
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// parseQuery reads the optional year bounds and category. An empty bound
// is left unset; anything else must be an integer.
func parseQuery(values url.Values) (types.Query, error) {
	q := types.Query{Category: values.Get("category")}

	var err error
	if q.YearMin, err = parseYear(values, "year_min"); err != nil {
		return types.Query{}, err
	}
	if q.YearMax, err = parseYear(values, "year_max"); err != nil {
		return types.Query{}, err
	}
	return q, nil
}

func parseYear(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil //nolint:nilnil // absent bound
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer year, got %q", ErrBadRequest, key, raw)
	}
	return &v, nil
}
