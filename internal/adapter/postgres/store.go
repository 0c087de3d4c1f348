package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/sentilog/internal/domain"
)

// appendLockID serializes appends across every process sharing the database.
const appendLockID = 0x73656e74617070 // "sentapp"

const appendQuery = `
INSERT INTO analysis (id, text, sentiment, score, created_at)
SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, GREATEST(clock_timestamp(), MAX(created_at))
FROM analysis
RETURNING id, created_at`

const listQuery = `
SELECT id, text, sentiment, score, created_at
FROM analysis
ORDER BY created_at DESC, id DESC`

// Store implements domain.RecordStore. Timestamps come from the database clock.
type Store struct {
	pool *pgxpool.Pool
}

var _ domain.RecordStore = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Append(ctx context.Context, text string, sentiment domain.Sentiment, score int) (domain.AnalysisRecord, error) {
	rec := domain.AnalysisRecord{Text: text, Sentiment: sentiment, Score: score}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", appendLockID); err != nil {
			return fmt.Errorf("append lock: %w", err)
		}
		return tx.QueryRow(ctx, appendQuery, text, string(sentiment), score).Scan(&rec.ID, &rec.CreatedAt)
	})
	if err != nil {
		return domain.AnalysisRecord{}, storageError("append", err)
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

// List reads all records in a repeatable-read snapshot.
func (s *Store) List(ctx context.Context) ([]domain.AnalysisRecord, error) {
	var records []domain.AnalysisRecord

	txOpts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(ctx, s.pool, txOpts, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, listQuery)
		if err != nil {
			return err
		}
		records, err = pgx.CollectRows(rows, scanRecord)
		return err
	})
	if err != nil {
		return nil, storageError("list", err)
	}

	if records == nil {
		records = []domain.AnalysisRecord{}
	}
	return records, nil
}

func scanRecord(row pgx.CollectableRow) (domain.AnalysisRecord, error) {
	var (
		rec       domain.AnalysisRecord
		sentiment string
	)
	if err := row.Scan(&rec.ID, &rec.Text, &sentiment, &rec.Score, &rec.CreatedAt); err != nil {
		return rec, err
	}

	var err error
	if rec.Sentiment, err = domain.ParseSentiment(sentiment); err != nil {
		return rec, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

func storageError(op string, err error) *domain.StorageError {
	return &domain.StorageError{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) domain.StorageErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.StorageUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return domain.StorageDuplicateKey
		case strings.HasPrefix(pgErr.Code, "08"), // connection exception
			strings.HasPrefix(pgErr.Code, "53"), // insufficient resources
			strings.HasPrefix(pgErr.Code, "57"), // operator intervention
			pgErr.Code == "40001", pgErr.Code == "40P01":
			return domain.StorageUnavailable
		default:
			return domain.StorageOther
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return domain.StorageUnavailable
	}

	return domain.StorageOther
}
