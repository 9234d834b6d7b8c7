package storage

import (
	"context"
	"database/sql"
	"fmt"

	"rename_gateway/internal/models"
)

// MetricsRepository persists per-provider counter snapshots
type MetricsRepository struct {
	db *DB
}

// NewMetricsRepository creates a new metrics repository
func NewMetricsRepository(db *DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Upsert writes a snapshot, replacing any previous row for the provider.
// Snapshots carry full accumulated counters, so the latest one wins.
func (r *MetricsRepository) Upsert(ctx context.Context, row *models.ApiMetrics) error {
	query := `
		INSERT INTO api_metrics (
			provider, request_count, success_count, error_count,
			total_latency_ms, avg_latency_ms, min_latency_ms, max_latency_ms,
			last_request_at, last_error_at, last_error_message
		) VALUES (
			:provider, :request_count, :success_count, :error_count,
			:total_latency_ms, :avg_latency_ms, :min_latency_ms, :max_latency_ms,
			:last_request_at, :last_error_at, :last_error_message
		)
		ON CONFLICT (provider) DO UPDATE SET
			request_count      = EXCLUDED.request_count,
			success_count      = EXCLUDED.success_count,
			error_count        = EXCLUDED.error_count,
			total_latency_ms   = EXCLUDED.total_latency_ms,
			avg_latency_ms     = EXCLUDED.avg_latency_ms,
			min_latency_ms     = EXCLUDED.min_latency_ms,
			max_latency_ms     = EXCLUDED.max_latency_ms,
			last_request_at    = EXCLUDED.last_request_at,
			last_error_at      = EXCLUDED.last_error_at,
			last_error_message = EXCLUDED.last_error_message
	`

	_, err := r.db.conn.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to upsert metrics for %s: %w", row.Provider, err)
	}

	return nil
}

// Get retrieves the persisted row for a provider
func (r *MetricsRepository) Get(ctx context.Context, provider string) (*models.ApiMetrics, error) {
	var row models.ApiMetrics
	query := `
		SELECT provider, request_count, success_count, error_count,
		       total_latency_ms, avg_latency_ms, min_latency_ms, max_latency_ms,
		       last_request_at, last_error_at, last_error_message
		FROM api_metrics
		WHERE provider = $1
	`

	err := r.db.conn.GetContext(ctx, &row, query, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMetricsNotFound
		}
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}

	return &row, nil
}

// List returns all persisted rows ordered by provider name
func (r *MetricsRepository) List(ctx context.Context) ([]models.ApiMetrics, error) {
	query := `
		SELECT provider, request_count, success_count, error_count,
		       total_latency_ms, avg_latency_ms, min_latency_ms, max_latency_ms,
		       last_request_at, last_error_at, last_error_message
		FROM api_metrics
		ORDER BY provider
	`

	var rows []models.ApiMetrics
	err := r.db.conn.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	return rows, nil
}
