// Package sqlite stores analysis records in a SQLite file using the pure-Go modernc driver.
//
// Appends are serialized by a process-wide mutex and run in a transaction that reads the
// current maximum id, so ids stay dense even though SQLite would happily reuse rowids.
// The schema is compatible with the data.db files written by earlier releases.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/sentilog/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timeLayout is fixed width so lexical order of created_at equals chronological order.
const timeLayout = "2006-01-02 15:04:05.000000000"

// legacyTimeLayout is what CURRENT_TIMESTAMP produced in older databases.
const legacyTimeLayout = "2006-01-02 15:04:05"

type Store struct {
	db    *sql.DB
	path  string
	clock clockwork.Clock

	// writeMu serializes appends within this process.
	writeMu sync.Mutex
}

var _ domain.RecordStore = (*Store)(nil)

// Open creates or opens the database at path and migrates it to the latest schema.
func Open(ctx context.Context, path string, clock clockwork.Clock) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	slog.Info("SQLite store opened", "path", path)
	return &Store{db: db, path: path, clock: clock}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + q.Encode()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, text string, sentiment domain.Sentiment, score int) (domain.AnalysisRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AnalysisRecord{}, storageError("append", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec := domain.AnalysisRecord{
		ID:        1,
		Text:      text,
		Sentiment: sentiment,
		Score:     score,
		CreatedAt: s.clock.Now().UTC(),
	}

	var lastID int64
	var lastCreated string
	err = tx.QueryRowContext(ctx, `SELECT id, created_at FROM analysis ORDER BY id DESC LIMIT 1`).Scan(&lastID, &lastCreated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return domain.AnalysisRecord{}, storageError("append", err)
	default:
		rec.ID = lastID + 1
		last, perr := parseTime(lastCreated)
		if perr != nil {
			return domain.AnalysisRecord{}, storageError("append", perr)
		}
		if rec.CreatedAt.Before(last) {
			rec.CreatedAt = last
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO analysis (id, text, sentiment, score, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Text, string(rec.Sentiment), rec.Score, rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return domain.AnalysisRecord{}, storageError("append", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.AnalysisRecord{}, storageError("append", err)
	}
	return rec, nil
}

// List returns all records newest first. A single SELECT reads one consistent snapshot.
func (s *Store) List(ctx context.Context) ([]domain.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, sentiment, score, created_at FROM analysis ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storageError("list", err)
	}
	defer func() { _ = rows.Close() }()

	records := []domain.AnalysisRecord{}
	for rows.Next() {
		var (
			rec       domain.AnalysisRecord
			sentiment string
			score     sql.NullInt64
			created   string
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &sentiment, &score, &created); err != nil {
			return nil, storageError("list", err)
		}
		if rec.Sentiment, err = domain.ParseSentiment(sentiment); err != nil {
			return nil, storageError("list", fmt.Errorf("record %d: %w", rec.ID, err))
		}
		rec.Score = int(score.Int64)
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, storageError("list", fmt.Errorf("record %d: %w", rec.ID, err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list", err)
	}
	return records, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(legacyTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q: %w", s, err)
	}
	return t, nil
}

func storageError(op string, err error) *domain.StorageError {
	return &domain.StorageError{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) domain.StorageErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return domain.StorageUnavailable
	}

	var se *sqlite.Error
	if !errors.As(err, &se) {
		return domain.StorageOther
	}

	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_ROWID:
		return domain.StorageDuplicateKey
	}

	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_CANTOPEN,
		sqlite3.SQLITE_FULL, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_INTERRUPT:
		return domain.StorageUnavailable
	default:
		return domain.StorageOther
	}
}
