package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/pscheid92/sentilog/internal/domain"
)

// InstrumentedStore decorates a RecordStore with operation metrics.
type InstrumentedStore struct {
	next    domain.RecordStore
	engine  string
	metrics *StoreMetrics
}

var _ domain.RecordStore = (*InstrumentedStore)(nil)

func InstrumentStore(next domain.RecordStore, engine string, m *StoreMetrics) *InstrumentedStore {
	return &InstrumentedStore{next: next, engine: engine, metrics: m}
}

func (s *InstrumentedStore) Append(ctx context.Context, text string, sentiment domain.Sentiment, score int) (domain.AnalysisRecord, error) {
	start := time.Now()
	rec, err := s.next.Append(ctx, text, sentiment, score)
	s.metrics.ObserveOperation(s.engine, "append", errorKind(err), time.Since(start))
	return rec, err
}

func (s *InstrumentedStore) List(ctx context.Context) ([]domain.AnalysisRecord, error) {
	start := time.Now()
	records, err := s.next.List(ctx)
	s.metrics.ObserveOperation(s.engine, "list", errorKind(err), time.Since(start))
	return records, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var se *domain.StorageError
	if errors.As(err, &se) {
		return string(se.Kind)
	}
	return string(domain.StorageOther)
}
