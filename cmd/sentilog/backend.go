package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/sentilog/internal/adapter/httpserver"
	"github.com/pscheid92/sentilog/internal/adapter/memory"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/adapter/postgres"
	"github.com/pscheid92/sentilog/internal/adapter/redis"
	"github.com/pscheid92/sentilog/internal/adapter/sqlite"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/pscheid92/sentilog/internal/lexicon"
	"github.com/pscheid92/sentilog/internal/platform/config"
	"github.com/pscheid92/sentilog/internal/platform/retry"
	goredis "github.com/redis/go-redis/v9"
)

// backend holds the record store, the optional stats cache and everything that must be closed
// on exit.
type backend struct {
	store     domain.RecordStore
	cache     domain.StatsCache
	readiness httpserver.Readiness
	closers   []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects the configured storage driver and the stats cache: Redis when REDIS_URL
// is set, process memory otherwise. withCache is false for one-shot CLI commands.
func openBackend(ctx context.Context, clock clockwork.Clock, reg prometheus.Registerer, withCache bool) (*backend, error) {
	b := &backend{}
	storeMetrics := metrics.NewStoreMetrics(reg)

	store, err := openStore(ctx, b, clock, storeMetrics)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.store = metrics.InstrumentStore(store, cfg.StorageDriver, storeMetrics)
	b.readiness.Checks = append(b.readiness.Checks, httpserver.StoreCheck(b.store))

	if !withCache {
		return b, nil
	}

	cacheMetrics := metrics.NewCacheMetrics(reg)
	if cfg.RedisURL == "" {
		b.cache = memory.NewStatsCache(cfg.StatsCacheTTL, clock, cacheMetrics)
		return b, nil
	}

	rdb, err := setupRedis(ctx, clock, cacheMetrics)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.closers = append(b.closers, func() { _ = rdb.Close() })
	b.cache = redis.NewStatsCache(rdb, cfg.StatsCacheTTL, cacheMetrics)
	b.readiness.Checks = append(b.readiness.Checks, httpserver.RedisCheck(rdb))

	return b, nil
}

// openStore opens the configured driver and records its engine and schema version for readiness.
func openStore(ctx context.Context, b *backend, clock clockwork.Clock, m *metrics.StoreMetrics) (domain.RecordStore, error) {
	b.readiness.Store.Engine = cfg.StorageDriver

	switch cfg.StorageDriver {
	case config.DriverMemory:
		slog.Warn("Using in-memory storage, records are lost on exit")
		return memory.NewStore(clock), nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, clock)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		v, err := store.SchemaVersion(ctx)
		if err != nil {
			return nil, err
		}
		b.readiness.Store.SchemaVersion = v
		return store, nil

	case config.DriverPostgres:
		pool, v, err := setupDB(ctx, clock, m)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		b.readiness.Store.SchemaVersion = int(v)
		return postgres.NewStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func startupPolicy(target string) retry.Policy {
	p := retry.Startup
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Connection attempt failed, retrying", "target", target, "attempt", attempt, "backoff", backoff, "error", err)
	}
	return p
}

// setupDB connects with retries and applies pending migrations, returning the schema version.
func setupDB(ctx context.Context, clock clockwork.Clock, m *metrics.StoreMetrics) (*pgxpool.Pool, int32, error) {
	var pool *pgxpool.Pool
	err := retry.Do(ctx, clock, startupPolicy("postgres"), retry.UnlessCanceled, func(ctx context.Context) error {
		p, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.NewMetricsTracer(m))
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to connect to database: %w", err)
	}

	v, err := postgres.RunMigrationsWithLock(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, 0, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pool, v, nil
}

func setupRedis(ctx context.Context, clock clockwork.Clock, m *metrics.CacheMetrics) (*goredis.Client, error) {
	var client *goredis.Client
	err := retry.Do(ctx, clock, startupPolicy("redis"), retry.UnlessCanceled, func(ctx context.Context) error {
		c, err := redis.NewClient(ctx, cfg.RedisURL, m)
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func loadLexicon() (*lexicon.Lexicon, error) {
	lex, err := lexicon.Load(cfg.LexiconBasePath, cfg.LexiconOverridePath)
	if err != nil {
		return nil, err
	}
	slog.Info("Lexicon loaded", "words", lex.Len())
	return lex, nil
}
