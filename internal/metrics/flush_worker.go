package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rename_gateway/internal/models"
	"rename_gateway/internal/queue"
)

// FlushWorker drains metrics snapshots into the store. Snapshots are
// full rows, so within a batch only the last one per provider needs to
// be written. Store failures are logged and the batch is dropped:
// metrics persistence is lossy by design and must never back up into
// the request path.
type FlushWorker struct {
	queue queue.Queue
	store Store
	log   *zap.Logger

	batchSize    int
	batchTimeout time.Duration

	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewFlushWorker creates a worker over the given queue and store.
func NewFlushWorker(q queue.Queue, store Store, batchSize int, batchTimeout time.Duration, log *zap.Logger) *FlushWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}
	return &FlushWorker{
		queue:        q,
		store:        store,
		log:          log,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		stopChan:     make(chan struct{}),
		stoppedChan:  make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *FlushWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop drains one final batch and stops the worker.
func (w *FlushWorker) Stop() {
	close(w.stopChan)
	<-w.stoppedChan
}

func (w *FlushWorker) run(ctx context.Context) {
	defer close(w.stoppedChan)

	for {
		select {
		case <-w.stopChan:
			w.flushOnce(context.Background())
			w.log.Info("metrics flush worker stopping")
			return
		case <-ctx.Done():
			return
		default:
			w.flushOnce(ctx)
		}
	}
}

func (w *FlushWorker) flushOnce(ctx context.Context) {
	items, err := w.queue.DequeueWithTimeout(ctx, w.batchSize, w.batchTimeout)
	if err != nil {
		if err != queue.ErrQueueClosed && ctx.Err() == nil {
			w.log.Warn("failed to dequeue metrics snapshots", zap.Error(err))
			time.Sleep(time.Second)
		}
		return
	}
	if len(items) == 0 {
		return
	}

	// Last snapshot per provider wins.
	latest := make(map[string]models.ApiMetrics, len(items))
	for _, item := range items {
		latest[item.Provider] = item
	}

	for provider, row := range latest {
		row := row
		if err := w.store.Upsert(ctx, &row); err != nil {
			w.log.Warn("failed to persist metrics row",
				zap.String("provider", provider), zap.Error(err))
		}
	}
}
