package metrics

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"rename_gateway/internal/models"
	"rename_gateway/internal/queue"
)

// Store persists provider metrics rows. Implementations must treat
// Upsert as last-write-wins per provider.
type Store interface {
	Upsert(ctx context.Context, row *models.ApiMetrics) error
	List(ctx context.Context) ([]models.ApiMetrics, error)
}

// Recorder accumulates per-provider counters. The in-memory table is
// the source of truth; persistence happens asynchronously through the
// snapshot queue and its failure never reaches the request path.
//
// Updates for the same provider are serialized by the table mutex,
// preserving SuccessCount + ErrorCount == RequestCount under
// concurrent routing calls.
type Recorder struct {
	mu   sync.Mutex
	rows map[string]*models.ApiMetrics

	snapshots queue.Queue // nil disables persistence
	log       *zap.Logger
}

// NewRecorder creates a recorder. snapshots may be nil when no store
// is configured.
func NewRecorder(snapshots queue.Queue, log *zap.Logger) *Recorder {
	return &Recorder{
		rows:      make(map[string]*models.ApiMetrics),
		snapshots: snapshots,
		log:       log,
	}
}

// Record folds one attempt into the provider's row and returns the
// updated snapshot. Enqueue failures are logged and swallowed:
// observability must never block or fail the primary request.
func (r *Recorder) Record(provider string, latencyMS int64, success bool, errMsg string) models.ApiMetrics {
	now := time.Now()

	r.mu.Lock()
	row, ok := r.rows[provider]
	if !ok {
		row = &models.ApiMetrics{Provider: provider, MinLatencyMS: latencyMS}
		r.rows[provider] = row
	}

	row.RequestCount++
	if success {
		row.SuccessCount++
	} else {
		row.ErrorCount++
		row.LastErrorAt = &now
		row.LastErrorMessage = errMsg
	}

	row.TotalLatencyMS += latencyMS
	row.AvgLatencyMS = float64(row.TotalLatencyMS) / float64(row.RequestCount)
	if latencyMS < row.MinLatencyMS {
		row.MinLatencyMS = latencyMS
	}
	if latencyMS > row.MaxLatencyMS {
		row.MaxLatencyMS = latencyMS
	}
	row.LastRequestAt = now

	snapshot := *row
	r.mu.Unlock()

	if r.snapshots != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := r.snapshots.Enqueue(ctx, snapshot); err != nil {
			r.log.Warn("failed to enqueue metrics snapshot",
				zap.String("provider", provider), zap.Error(err))
		}
		cancel()
	}

	return snapshot
}

// List returns a copy of every provider row, sorted by provider name,
// for operational dashboards. Read-only: Record is the only writer.
func (r *Recorder) List() []models.ApiMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ApiMetrics, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// Get returns the row for one provider, if any attempts were recorded.
func (r *Recorder) Get(provider string) (models.ApiMetrics, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[provider]
	if !ok {
		return models.ApiMetrics{}, false
	}
	return *row, true
}
