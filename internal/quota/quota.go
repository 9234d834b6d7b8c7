package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rename_gateway/internal/models"
)

// Resource is a countable unit charged against a plan's monthly limits.
type Resource string

const (
	ResourceFiles   Resource = "files"
	ResourceFolders Resource = "folders"
)

// Service tracks per-user monthly usage and enforces plan limits.
type Service interface {
	Within(ctx context.Context, userID string, resource Resource, limit int) bool
	Add(ctx context.Context, userID string, resource Resource, n int64) error
}

// WithinFileSize checks a single file's size against the plan limit.
// A limit of -1 means unlimited.
func WithinFileSize(sizeMB int, limits models.UsageLimits) bool {
	if limits.MaxFileSizeMB < 0 {
		return true
	}
	return sizeMB <= limits.MaxFileSizeMB
}

// NoopService does not enforce limits and discards usage.
type NoopService struct{}

func NewNoopService() *NoopService {
	return &NoopService{}
}

func (s *NoopService) Within(ctx context.Context, userID string, resource Resource, limit int) bool {
	return true
}

func (s *NoopService) Add(ctx context.Context, userID string, resource Resource, n int64) error {
	return nil
}

// RedisQuotaService tracks monthly counters in Redis and enforces limits
type RedisQuotaService struct {
	redis *redis.Client
}

// NewRedisQuotaService creates a new quota service
func NewRedisQuotaService(client *redis.Client) *RedisQuotaService {
	return &RedisQuotaService{redis: client}
}

// Within checks if a user is under the monthly limit for a resource.
// A limit of -1 means unlimited. Redis errors fail open so an outage
// never blocks requests.
func (s *RedisQuotaService) Within(ctx context.Context, userID string, resource Resource, limit int) bool {
	if limit < 0 {
		return true
	}

	used, err := s.MonthlyUsage(ctx, userID, resource)
	if err != nil {
		return true
	}

	return used < int64(limit)
}

// Add increments the running monthly counter atomically
func (s *RedisQuotaService) Add(ctx context.Context, userID string, resource Resource, n int64) error {
	now := time.Now()
	key := s.monthlyKey(userID, resource, now.Year(), int(now.Month()))

	script := redis.NewScript(`
		local key = KEYS[1]
		local n = tonumber(ARGV[1])
		local ttl = tonumber(ARGV[2])

		local total = redis.call('INCRBY', key, n)
		redis.call('EXPIRE', key, ttl)
		return total
	`)

	// Keep counters for 2 months
	ttl := 60 * 24 * 60 * 60

	_, err := script.Run(ctx, s.redis, []string{key}, n, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to add quota usage: %w", err)
	}

	return nil
}

// MonthlyUsage returns the current month's counter for a user
func (s *RedisQuotaService) MonthlyUsage(ctx context.Context, userID string, resource Resource) (int64, error) {
	now := time.Now()
	key := s.monthlyKey(userID, resource, now.Year(), int(now.Month()))

	val, err := s.redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get monthly usage: %w", err)
	}

	return val, nil
}

// Reset clears the current month's counter (admin use)
func (s *RedisQuotaService) Reset(ctx context.Context, userID string, resource Resource) error {
	now := time.Now()
	key := s.monthlyKey(userID, resource, now.Year(), int(now.Month()))
	return s.redis.Del(ctx, key).Err()
}

// monthlyKey generates the Redis key for a monthly counter
func (s *RedisQuotaService) monthlyKey(userID string, resource Resource, year int, month int) string {
	return fmt.Sprintf("quota:%s:%s:%d:%02d", resource, userID, year, month)
}
