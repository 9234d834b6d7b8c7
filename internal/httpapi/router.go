package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rename_gateway/internal/config"
	"rename_gateway/internal/engine"
	"rename_gateway/internal/localocr"
	"rename_gateway/internal/metrics"
	"rename_gateway/internal/providers"
	"rename_gateway/internal/queue"
	"rename_gateway/internal/quota"
	"rename_gateway/internal/storage"
)

// snapshotQueueCapacity bounds the in-memory snapshot backlog when no
// Redis is configured. Overflow drops snapshots, never blocks requests.
const snapshotQueueCapacity = 1024

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	Engine   *engine.Engine
	Recorder *metrics.Recorder
	Quota    quota.Service
	Log      *zap.Logger

	db          *storage.DB
	redisClient *redis.Client
	flushWorker *metrics.FlushWorker
	snapshots   queue.Queue
}

// NewRouter wires the full service from configuration: provider
// registry, local OCR floor, metrics recorder with optional async
// Postgres persistence, optional Redis quota counters, and the
// routing engine on top.
func NewRouter(cfg *config.Config, log *zap.Logger) (*http.ServeMux, *Dependencies, error) {
	registry := providers.NewRegistry(providers.Credentials{
		OpenAIAPIKey:     cfg.Providers.OpenAIAPIKey,
		GeminiAPIKey:     cfg.Providers.GeminiAPIKey,
		AnthropicAPIKey:  cfg.Providers.AnthropicAPIKey,
		OCRSpaceAPIKey:   cfg.Providers.OCRSpaceAPIKey,
		GeminiBaseURL:    cfg.Providers.GeminiBaseURL,
		AnthropicBaseURL: cfg.Providers.AnthropicBaseURL,
		OCRSpaceBaseURL:  cfg.Providers.OCRSpaceBaseURL,
	}, log)

	deps := &Dependencies{
		Log:   log,
		Quota: quota.NewNoopService(),
	}

	if cfg.Redis.Address != "" {
		deps.redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		deps.Quota = quota.NewRedisQuotaService(deps.redisClient)
	}

	// Metrics persistence is optional. Without a database the recorder
	// still serves the in-memory table; snapshots are simply not taken.
	if cfg.Database.URL != "" {
		db, err := storage.NewDB(storage.DBConfig{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.db = db

		if deps.redisClient != nil {
			deps.snapshots = queue.NewRedisQueue(deps.redisClient, "metrics_snapshots")
		} else {
			deps.snapshots = queue.NewMemoryQueue(snapshotQueueCapacity)
		}

		deps.flushWorker = metrics.NewFlushWorker(
			deps.snapshots,
			db.NewMetricsRepository(),
			cfg.Metrics.FlushBatchSize,
			cfg.Metrics.FlushTimeout,
			log,
		)
		deps.flushWorker.Start(context.Background())
	}

	deps.Recorder = metrics.NewRecorder(deps.snapshots, log)
	deps.Engine = engine.New(registry, deps.Recorder, localocr.New(), cfg.Engine, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/rename", deps.handleRename)
	mux.HandleFunc("/v1/plan", deps.handlePlan)
	mux.HandleFunc("/v1/analyze", deps.handleAnalyze)
	mux.HandleFunc("/v1/ocr", deps.handleOCR)
	mux.HandleFunc("/v1/providers/status", deps.handleProviderStatus)
	mux.HandleFunc("/v1/metrics", deps.handleMetrics)
	mux.HandleFunc("/healthz", deps.handleHealth)

	return mux, deps, nil
}

// Shutdown drains the flush worker and closes external connections.
func (d *Dependencies) Shutdown(ctx context.Context) error {
	if d.flushWorker != nil {
		d.flushWorker.Stop()
	}
	if d.snapshots != nil {
		_ = d.snapshots.Close()
	}

	var firstErr error
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
