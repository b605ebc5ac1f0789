package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/pharmacare/pharmacy-web/internal/platform/cache"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":3000"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	// RateLimit is requests per minute per client IP.
	RateLimit int `envconfig:"RATE_LIMIT" default:"120"`

	BackendBaseURL string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:8080/api"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"30s"`
	ListSize       int           `envconfig:"LIST_SIZE" default:"1000"`

	// PGDSN enables the login audit trail when set.
	PGDSN      string `envconfig:"PG_DSN"`
	PGMaxConns int32  `envconfig:"PG_MAX_CONNS" default:"4"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SnapshotTTL   time.Duration `envconfig:"SNAPSHOT_TTL" default:"15m"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	GotenbergURL    string        `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3001"`
	ReportResultTTL time.Duration `envconfig:"REPORT_RESULT_TTL" default:"1h"`
	// ReportQueue sends exports through asynq; otherwise they render inline.
	ReportQueue bool `envconfig:"REPORT_QUEUE" default:"true"`

	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.ListSize <= 0 {
		return nil, errors.New("list size must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Redis returns the connection options shared by sessions and the job queue.
func (c *Config) Redis() cache.Options {
	return cache.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}
