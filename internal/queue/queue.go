// Package queue buffers metrics snapshots between the recorder and
// the store flush worker, with two backends:
//
//  1. Memory queue (channel-based): no persistence, zero external
//     dependencies, right for standalone deployments.
//  2. Redis queue (list-based): survives restarts and supports
//     multi-pod deployments sharing one metrics store.
//
// Snapshots are last-write-wins per provider, so losing buffered items
// on a crash costs at most the tail of the counters — the recorder's
// in-memory state is the source of truth within a process.
package queue

import (
	"context"
	"errors"
	"time"

	"rename_gateway/internal/models"
)

// ErrQueueClosed is returned for operations on a closed queue.
var ErrQueueClosed = errors.New("queue is closed")

// Queue buffers provider metrics snapshots.
type Queue interface {
	// Enqueue adds a snapshot to the queue.
	Enqueue(ctx context.Context, snapshot models.ApiMetrics) error

	// DequeueWithTimeout retrieves up to maxItems snapshots, waiting at
	// most timeout for the first one. An empty slice means timeout.
	DequeueWithTimeout(ctx context.Context, maxItems int, timeout time.Duration) ([]models.ApiMetrics, error)

	// Length returns the current queue length.
	Length(ctx context.Context) (int, error)

	// Close shuts down the queue.
	Close() error
}
