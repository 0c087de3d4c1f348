package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/domain"
)

// StatsCache keeps the distribution in process memory with a TTL. It serves single-replica
// deployments that run without Redis.
type StatsCache struct {
	mu        sync.RWMutex
	dist      domain.Distribution
	expiresAt time.Time
	valid     bool
	gen       uint64

	ttl   time.Duration
	clock clockwork.Clock
	m     *metrics.CacheMetrics
}

var _ domain.StatsCache = (*StatsCache)(nil)

func NewStatsCache(ttl time.Duration, clock clockwork.Clock, m *metrics.CacheMetrics) *StatsCache {
	return &StatsCache{ttl: ttl, clock: clock, m: m}
}

func (c *StatsCache) Get(context.Context) (domain.Distribution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || c.clock.Now().After(c.expiresAt) {
		c.m.Misses.Inc()
		return domain.Distribution{}, false
	}

	c.m.Hits.Inc()
	return cloneDistribution(c.dist), true
}

func (c *StatsCache) Generation(context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, nil
}

// Set is a no-op when an Invalidate happened after gen was read.
func (c *StatsCache) Set(_ context.Context, gen uint64, dist domain.Distribution) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.m.StaleWrites.Inc()
		return nil
	}

	c.dist = cloneDistribution(dist)
	c.expiresAt = c.clock.Now().Add(c.ttl)
	c.valid = true
	return nil
}

func (c *StatsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.valid = false
	c.dist = domain.Distribution{}
	c.m.Invalidations.Inc()
	return nil
}

func cloneDistribution(d domain.Distribution) domain.Distribution {
	d.Counts = maps.Clone(d.Counts)
	return d
}
