package domain

import (
	"context"
	"time"
)

// AnalysisRecord is one persisted, immutable scoring result.
type AnalysisRecord struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordStore is the append-only durable collection of analysis records.
//
// Append assigns the next id (max+1, or 1 when empty) and the write timestamp atomically with
// respect to other appends. List returns every record ordered by CreatedAt descending, ties
// broken by ID descending, from a snapshot that never exposes a partially written record.
// A record is visible to any List that starts after its Append returned.
type RecordStore interface {
	Append(ctx context.Context, text string, sentiment Sentiment, score int) (AnalysisRecord, error)
	List(ctx context.Context) ([]AnalysisRecord, error)
	Ping(ctx context.Context) error
}
