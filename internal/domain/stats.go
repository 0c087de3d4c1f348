package domain

import "context"

// Distribution is the derived, non-persisted summary of a set of records.
type Distribution struct {
	Counts     map[Sentiment]int `json:"counts"`
	Total      int               `json:"total"`
	MostCommon Sentiment         `json:"most_common"`
}

// History is the full record listing together with its distribution.
type History struct {
	Records      []AnalysisRecord `json:"records"`
	Distribution Distribution     `json:"distribution"`
}

// StatsCache caches the distribution of the whole history.
// Get reports ok=false on a miss; implementations treat backend failures as misses.
//
// Every Invalidate bumps the generation. Set only stores dist when gen still equals the current
// generation, so a distribution computed from a read that raced an append is dropped instead of
// outliving the invalidation. Callers read Generation before reading the store.
type StatsCache interface {
	Get(ctx context.Context) (Distribution, bool)
	Generation(ctx context.Context) (uint64, error)
	Set(ctx context.Context, gen uint64, dist Distribution) error
	Invalidate(ctx context.Context) error
}
