package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rename_gateway/internal/models"
)

// RedisQueue implements Queue over a Redis list, for deployments where
// several pods share one metrics store.
type RedisQueue struct {
	client *redis.Client
	qKey   string
}

// NewRedisQueue creates a Redis-backed queue on an existing client.
func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{
		client: client,
		qKey:   fmt.Sprintf("queue:%s", name),
	}
}

// Enqueue pushes a JSON-encoded snapshot.
func (q *RedisQueue) Enqueue(ctx context.Context, snapshot models.ApiMetrics) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := q.client.RPush(ctx, q.qKey, data).Err(); err != nil {
		return fmt.Errorf("failed to push to redis: %w", err)
	}
	return nil
}

// DequeueWithTimeout blocks up to timeout for the first snapshot, then
// drains up to maxItems without blocking.
func (q *RedisQueue) DequeueWithTimeout(ctx context.Context, maxItems int, timeout time.Duration) ([]models.ApiMetrics, error) {
	result, err := q.client.BLPop(ctx, timeout, q.qKey).Result()
	if err == redis.Nil {
		return []models.ApiMetrics{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop from redis: %w", err)
	}

	items := make([]models.ApiMetrics, 0, maxItems)
	if item, ok := decodeSnapshot(result[1]); ok {
		items = append(items, item)
	}

	for len(items) < maxItems {
		raw, err := q.client.LPop(ctx, q.qKey).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return items, nil
		}
		if item, ok := decodeSnapshot(raw); ok {
			items = append(items, item)
		}
	}

	return items, nil
}

// Length returns the current queue length.
func (q *RedisQueue) Length(ctx context.Context) (int, error) {
	length, err := q.client.LLen(ctx, q.qKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return int(length), nil
}

// Close is a no-op: the Redis client is owned by the caller.
func (q *RedisQueue) Close() error {
	return nil
}

// decodeSnapshot skips malformed entries instead of wedging the queue.
func decodeSnapshot(raw string) (models.ApiMetrics, bool) {
	var snapshot models.ApiMetrics
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return models.ApiMetrics{}, false
	}
	return snapshot, true
}
