package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrOpen         = errors.New("open dataset failed")
	ErrSchema       = errors.New("dataset schema invalid")
	ErrRead         = errors.New("read dataset failed")
	ErrEmptyDataset = errors.New("dataset has no usable records")
)
