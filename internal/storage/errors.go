package storage

import "errors"

var (
	// ErrMetricsNotFound is returned when no row exists for a provider
	ErrMetricsNotFound = errors.New("metrics not found")
)
