package app

import (
	"context"

	"github.com/pscheid92/sentilog/internal/domain"
)

// NopStatsCache never holds anything. It is used when no Redis is configured.
type NopStatsCache struct{}

var _ domain.StatsCache = NopStatsCache{}

func (NopStatsCache) Get(context.Context) (domain.Distribution, bool) {
	return domain.Distribution{}, false
}

func (NopStatsCache) Generation(context.Context) (uint64, error) { return 0, nil }

func (NopStatsCache) Set(context.Context, uint64, domain.Distribution) error { return nil }

func (NopStatsCache) Invalidate(context.Context) error { return nil }
