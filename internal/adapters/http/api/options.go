package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/laureates/internal/domain/types"
)

// OptionsDependencies defines the interface for control bounds.
type OptionsDependencies interface {
	Options(ctx context.Context) (types.Options, error)
}

// OptionsHandler handles control-bounds requests.
type OptionsHandler struct {
	deps OptionsDependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsDependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleGetOptions handles GET /api/options requests.
func (h *OptionsHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		if errors.Is(err, types.ErrNotReady) {
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
