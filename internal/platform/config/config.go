package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	StorageDriver string `env:"STORAGE_DRIVER" default:"sqlite"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" default:"data.db"`

	RedisURL      string        `env:"REDIS_URL"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" default:"30s"`

	// Empty lexicon paths select the embedded default tables.
	LexiconBasePath     string `env:"LEXICON_BASE_PATH"`
	LexiconOverridePath string `env:"LEXICON_OVERRIDE_PATH"`

	AnalyzeRateLimit float64 `env:"ANALYZE_RATE_LIMIT" default:"5"`
	AnalyzeRateBurst int     `env:"ANALYZE_RATE_BURST" default:"10"`
	MaxBodySize      string  `env:"MAX_BODY_SIZE" default:"64K"`
	CORSAllowOrigins string  `env:"CORS_ALLOW_ORIGINS" default:"*"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AllowOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c *Config) AllowOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func validate(cfg *Config) error {
	switch cfg.StorageDriver {
	case DriverMemory:
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of memory, sqlite, postgres, got %q", cfg.StorageDriver)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if cfg.AnalyzeRateLimit <= 0 {
		return errors.New("ANALYZE_RATE_LIMIT must be positive")
	}
	if cfg.AnalyzeRateBurst < 1 {
		return errors.New("ANALYZE_RATE_BURST must be at least 1")
	}
	if cfg.StatsCacheTTL <= 0 {
		return errors.New("STATS_CACHE_TTL must be positive")
	}

	return nil
}
