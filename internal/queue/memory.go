package queue

import (
	"context"
	"sync"
	"time"

	"rename_gateway/internal/models"
)

// MemoryQueue implements Queue over a buffered channel.
type MemoryQueue struct {
	items  chan models.ApiMetrics
	mu     sync.RWMutex
	closed bool
}

// NewMemoryQueue creates an in-memory queue with the given capacity.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryQueue{
		items: make(chan models.ApiMetrics, capacity),
	}
}

// Enqueue adds a snapshot. When the buffer is full the snapshot is
// dropped rather than blocking the request path; the next snapshot for
// the same provider supersedes it anyway.
func (q *MemoryQueue) Enqueue(ctx context.Context, snapshot models.ApiMetrics) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- snapshot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// DequeueWithTimeout retrieves snapshots, waiting at most timeout for
// the first one, then draining up to maxItems without blocking.
func (q *MemoryQueue) DequeueWithTimeout(ctx context.Context, maxItems int, timeout time.Duration) ([]models.ApiMetrics, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	var items []models.ApiMetrics
	deadline := time.After(timeout)

	select {
	case item := <-q.items:
		items = append(items, item)
	case <-deadline:
		return items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	for len(items) < maxItems {
		select {
		case item := <-q.items:
			items = append(items, item)
		default:
			return items, nil
		}
	}

	return items, nil
}

// Length returns the current queue length.
func (q *MemoryQueue) Length(ctx context.Context) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return 0, ErrQueueClosed
	}
	return len(q.items), nil
}

// Close shuts down the queue.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.items)
	return nil
}
