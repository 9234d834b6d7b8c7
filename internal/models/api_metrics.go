package models

import "time"

// ApiMetrics is one counter row per provider name, accumulated across
// all requests independent of tier.
//
// Invariant: SuccessCount + ErrorCount == RequestCount at all times.
type ApiMetrics struct {
	Provider         string     `db:"provider" json:"provider"`
	RequestCount     int64      `db:"request_count" json:"request_count"`
	SuccessCount     int64      `db:"success_count" json:"success_count"`
	ErrorCount       int64      `db:"error_count" json:"error_count"`
	TotalLatencyMS   int64      `db:"total_latency_ms" json:"total_latency_ms"`
	AvgLatencyMS     float64    `db:"avg_latency_ms" json:"avg_latency_ms"`
	MinLatencyMS     int64      `db:"min_latency_ms" json:"min_latency_ms"`
	MaxLatencyMS     int64      `db:"max_latency_ms" json:"max_latency_ms"`
	LastRequestAt    time.Time  `db:"last_request_at" json:"last_request_at"`
	LastErrorAt      *time.Time `db:"last_error_at" json:"last_error_at,omitempty"`
	LastErrorMessage string     `db:"last_error_message" json:"last_error_message,omitempty"`
}
