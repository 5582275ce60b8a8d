package service

import "github.com/okian/laureates/internal/domain/types"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = types.ErrNotReady
	ErrInvalidQuery = types.ErrInvalidQuery
)
