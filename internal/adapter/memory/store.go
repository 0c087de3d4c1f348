// Package memory is a process-local RecordStore. Records are lost on exit.
package memory

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/sentilog/internal/domain"
)

type Store struct {
	clock   clockwork.Clock
	mu      sync.RWMutex
	records []domain.AnalysisRecord
}

var _ domain.RecordStore = (*Store)(nil)

func NewStore(clock clockwork.Clock) *Store {
	return &Store{clock: clock}
}

func (s *Store) Append(ctx context.Context, text string, sentiment domain.Sentiment, score int) (domain.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalysisRecord{}, &domain.StorageError{Op: "append", Kind: domain.StorageUnavailable, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := domain.AnalysisRecord{
		ID:        1,
		Text:      text,
		Sentiment: sentiment,
		Score:     score,
		CreatedAt: s.clock.Now().UTC(),
	}
	if n := len(s.records); n > 0 {
		last := s.records[n-1]
		rec.ID = last.ID + 1
		if rec.CreatedAt.Before(last.CreatedAt) {
			rec.CreatedAt = last.CreatedAt
		}
	}

	s.records = append(s.records, rec)
	return rec, nil
}

// List returns the records newest first. Records are kept in id order, which is also
// createdAt order, so reversing the slice is enough.
func (s *Store) List(ctx context.Context) ([]domain.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list", Kind: domain.StorageUnavailable, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AnalysisRecord, len(s.records))
	for i, rec := range s.records {
		out[len(s.records)-1-i] = rec
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}
