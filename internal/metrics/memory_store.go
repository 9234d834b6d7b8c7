package metrics

import (
	"context"
	"sort"
	"sync"

	"rename_gateway/internal/models"
)

// MemoryStore keeps metrics rows in memory. Used when no database is
// configured, and by tests.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]models.ApiMetrics
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]models.ApiMetrics)}
}

// Upsert replaces the row for the snapshot's provider.
func (s *MemoryStore) Upsert(ctx context.Context, row *models.ApiMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.Provider] = *row
	return nil
}

// List returns all rows sorted by provider name.
func (s *MemoryStore) List(ctx context.Context) ([]models.ApiMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ApiMetrics, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}
