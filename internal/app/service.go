package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/pscheid92/sentilog/internal/sentiment"
	"golang.org/x/sync/singleflight"
)

// Analysis is the outcome of a successful Analyze call.
type Analysis struct {
	Record domain.AnalysisRecord
	Result sentiment.Result
}

type Service struct {
	scorer     *sentiment.Scorer
	store      domain.RecordStore
	cache      domain.StatsCache
	metrics    *metrics.AnalysisMetrics
	clock      clockwork.Clock
	statsGroup singleflight.Group
}

// NewService wires the use cases. cache may be nil, in which case Stats always reads the store.
func NewService(scorer *sentiment.Scorer, store domain.RecordStore, cache domain.StatsCache, m *metrics.AnalysisMetrics, clock clockwork.Clock) *Service {
	if cache == nil {
		cache = NopStatsCache{}
	}
	return &Service{
		scorer:  scorer,
		store:   store,
		cache:   cache,
		metrics: m,
		clock:   clock,
	}
}

// Analyze scores text and persists the result.
//
// Blank text fails with domain.ErrEmptyInput before anything is scored or stored. When the
// store fails, the error is a *domain.UnsavedAnalysisError carrying the computed sentiment and
// score; no record id exists in that case.
func (s *Service) Analyze(ctx context.Context, text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		s.metrics.AnalysesTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return Analysis{}, domain.ErrEmptyInput
	}

	start := s.clock.Now()
	res := s.scorer.Score(text)
	s.metrics.ObserveScored(string(res.Sentiment), res.Score, s.clock.Since(start))

	slog.DebugContext(ctx, "Text scored",
		"sentiment", res.Sentiment,
		"score", res.Score,
		"matched_positive", res.MatchedPositive,
		"matched_negative", res.MatchedNegative,
	)

	rec, err := s.store.Append(ctx, text, res.Sentiment, res.Score)
	if err != nil {
		slog.ErrorContext(ctx, "Analysis could not be persisted",
			"sentiment", res.Sentiment,
			"score", res.Score,
			"error", err,
		)
		s.metrics.AnalysesTotal.WithLabelValues(metrics.ResultUnsaved).Inc()
		return Analysis{Result: res}, &domain.UnsavedAnalysisError{Sentiment: res.Sentiment, Score: res.Score, Err: err}
	}
	s.metrics.AnalysesTotal.WithLabelValues(metrics.ResultStored).Inc()

	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate stats cache", "error", err)
	}

	return Analysis{Record: rec, Result: res}, nil
}

// History returns every stored record, newest first, with its distribution.
func (s *Service) History(ctx context.Context) (domain.History, error) {
	gen, genErr := s.cache.Generation(ctx)

	records, err := s.store.List(ctx)
	if err != nil {
		return domain.History{}, err
	}

	dist := sentiment.Aggregate(records)
	s.populateCache(ctx, gen, genErr, dist)

	return domain.History{Records: records, Distribution: dist}, nil
}

// Stats returns the distribution, served from the cache when possible. Concurrent misses share
// one store read.
func (s *Service) Stats(ctx context.Context) (domain.Distribution, error) {
	if dist, ok := s.cache.Get(ctx); ok {
		return dist, nil
	}

	v, err, _ := s.statsGroup.Do("stats", func() (any, error) {
		// Detached so one caller giving up does not fail the others waiting on this call.
		shared := context.WithoutCancel(ctx)
		gen, genErr := s.cache.Generation(shared)

		records, err := s.store.List(shared)
		if err != nil {
			return domain.Distribution{}, err
		}
		dist := sentiment.Aggregate(records)
		s.populateCache(shared, gen, genErr, dist)
		return dist, nil
	})
	if err != nil {
		return domain.Distribution{}, err
	}
	return v.(domain.Distribution), nil
}

// populateCache stores dist under the generation read before the store was listed. Without a
// known generation nothing is written.
func (s *Service) populateCache(ctx context.Context, gen uint64, genErr error, dist domain.Distribution) {
	if genErr != nil {
		slog.WarnContext(ctx, "Skipping stats cache fill, generation unknown", "error", genErr)
		return
	}
	if err := s.cache.Set(ctx, gen, dist); err != nil {
		slog.WarnContext(ctx, "Failed to populate stats cache", "error", err)
	}
}

// Ping checks the record store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
