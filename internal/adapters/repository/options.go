// Package repository loads the prize-award dataset and holds it in memory.
package repository

import (
	"github.com/okian/laureates/internal/domain/country"
	"github.com/okian/laureates/pkg/logger"
)

// Option applies a configuration option to the loader.
type Option func(*loader)

// WithRegistry sets the country registry used to resolve birth countries.
func WithRegistry(reg *country.Registry) Option {
	return func(l *loader) {
		if reg != nil {
			l.registry = reg
		}
	}
}

// WithLogger sets the logger used for the load summary and dropped rows.
func WithLogger(log logger.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithDateLayout overrides the birth-date layout (default month/day/year).
func WithDateLayout(layout string) Option {
	return func(l *loader) {
		if layout != "" {
			l.dateLayout = layout
		}
	}
}

// WithSource names the dataset in stats and logs, typically its path.
func WithSource(source string) Option {
	return func(l *loader) {
		l.source = source
	}
}
