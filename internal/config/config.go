package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration for the routing engine service.
type Config struct {
	HTTPPort    string
	LogLevel    string
	Development bool

	Database  DatabaseConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Engine    EngineConfig
	Metrics   MetricsConfig
}

// DatabaseConfig holds metrics-store connection settings. The database
// is optional: without a URL, metrics stay in memory only.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings for quota counters.
// Without an address, quota enforcement is disabled.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProvidersConfig carries vendor credentials. An empty key means the
// vendor is not configured and is excluded from routing chains; keys
// are never logged or echoed in responses.
type ProvidersConfig struct {
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AnthropicAPIKey string
	OCRSpaceAPIKey  string

	GeminiBaseURL    string
	AnthropicBaseURL string
	OCRSpaceBaseURL  string
}

// EngineConfig holds routing-engine tunables.
type EngineConfig struct {
	AttemptTimeout time.Duration // per-candidate deadline
	AnalyzeFanout  int           // max parallel vision pre-analysis calls
}

// MetricsConfig holds the async metrics flush settings.
type MetricsConfig struct {
	FlushBatchSize int
	FlushTimeout   time.Duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val == "true" || val == "1"
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnvString("HTTP_PORT", "8080"),
		LogLevel:    getEnvString("LOG_LEVEL", "info"),
		Development: getEnvBool("DEVELOPMENT", false),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", ""),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Providers: ProvidersConfig{
			OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
			GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
			AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			OCRSpaceAPIKey:   os.Getenv("OCRSPACE_API_KEY"),
			GeminiBaseURL:    getEnvString("GEMINI_BASE_URL", ""),
			AnthropicBaseURL: getEnvString("ANTHROPIC_BASE_URL", ""),
			OCRSpaceBaseURL:  getEnvString("OCRSPACE_BASE_URL", ""),
		},
		Engine: EngineConfig{
			AttemptTimeout: getEnvDuration("ENGINE_ATTEMPT_TIMEOUT", 30*time.Second),
			AnalyzeFanout:  getEnvInt("ENGINE_ANALYZE_FANOUT", 4),
		},
		Metrics: MetricsConfig{
			FlushBatchSize: getEnvInt("METRICS_FLUSH_BATCH_SIZE", 100),
			FlushTimeout:   getEnvDuration("METRICS_FLUSH_TIMEOUT", 5*time.Second),
		},
	}

	return cfg, nil
}
