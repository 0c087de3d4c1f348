package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const (
	statsKey      = "sentilog:stats:distribution"
	generationKey = "sentilog:stats:generation"
)

// setIfGenerationScript writes the distribution only while the generation is unchanged.
// A missing generation key counts as 0.
// KEYS: [1]=generation, [2]=distribution. ARGV: [1]=expected generation, [2]=payload, [3]=ttl_ms
// Returns 1 when written, 0 when stale.
var setIfGenerationScript = goredis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// StatsCache keeps the aggregated distribution in a single Redis key with a TTL.
// Backend failures are logged and reported as misses; callers always have the store to fall back on.
type StatsCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
	m   *metrics.CacheMetrics
}

var _ domain.StatsCache = (*StatsCache)(nil)

func NewStatsCache(rdb goredis.Cmdable, ttl time.Duration, m *metrics.CacheMetrics) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl, m: m}
}

func (c *StatsCache) Get(ctx context.Context) (domain.Distribution, bool) {
	data, err := c.rdb.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.WarnContext(ctx, "Redis stats cache GET failed", "error", err)
			c.m.Errors.WithLabelValues("get").Inc()
		}
		c.m.Misses.Inc()
		return domain.Distribution{}, false
	}

	var dist domain.Distribution
	if err := json.Unmarshal(data, &dist); err != nil {
		slog.WarnContext(ctx, "Discarding undecodable stats cache entry", "error", err)
		c.m.Errors.WithLabelValues("decode").Inc()
		c.m.Misses.Inc()
		return domain.Distribution{}, false
	}

	c.m.Hits.Inc()
	return dist, true
}

func (c *StatsCache) Generation(ctx context.Context) (uint64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.m.Errors.WithLabelValues("generation").Inc()
		return 0, fmt.Errorf("failed to read stats cache generation: %w", err)
	}
	return gen, nil
}

func (c *StatsCache) Set(ctx context.Context, gen uint64, dist domain.Distribution) error {
	encoded, err := json.Marshal(dist)
	if err != nil {
		return fmt.Errorf("failed to encode distribution: %w", err)
	}
	written, err := setIfGenerationScript.Run(ctx, c.rdb, []string{generationKey, statsKey},
		strconv.FormatUint(gen, 10),
		encoded,
		strconv.FormatInt(c.ttl.Milliseconds(), 10),
	).Int()
	if err != nil {
		c.m.Errors.WithLabelValues("set").Inc()
		return fmt.Errorf("failed to populate stats cache: %w", err)
	}
	if written == 0 {
		c.m.StaleWrites.Inc()
	}
	return nil
}

// Invalidate bumps the generation and drops the entry in one transaction.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, statsKey)
		return nil
	})
	if err != nil {
		c.m.Errors.WithLabelValues("invalidate").Inc()
		return fmt.Errorf("failed to invalidate stats cache: %w", err)
	}
	c.m.Invalidations.Inc()
	return nil
}
