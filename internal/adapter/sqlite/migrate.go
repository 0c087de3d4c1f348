package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations is applied in order; append new steps with the next version number.
var migrations = []migration{
	{
		Version:     1,
		Description: "analysis table",
		SQL: `
CREATE TABLE IF NOT EXISTS analysis (
    id INTEGER PRIMARY KEY,
    text TEXT NOT NULL,
    sentiment TEXT NOT NULL CHECK (sentiment IN ('positive', 'negative', 'neutral')),
    score INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`,
	},
	{
		Version:     2,
		Description: "history ordering index",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_analysis_created_at ON analysis (created_at DESC, id DESC);`,
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// hasLegacyTable detects databases created before versioning existed. Their analysis table
// already matches version 1.
func hasLegacyTable(ctx context.Context, db *sql.DB) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'analysis'",
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for legacy table: %w", err)
	}
	return count > 0, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	if current == 0 {
		legacy, err := hasLegacyTable(ctx, db)
		if err != nil {
			return err
		}
		if legacy {
			slog.Info("Detected unversioned analysis table, stamping as version 1")
			if _, err := db.ExecContext(ctx, "PRAGMA user_version = 1"); err != nil {
				return fmt.Errorf("stamping legacy version: %w", err)
			}
			current = 1
		}
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		slog.Info("Applying SQLite migration", "version", m.Version, "description", m.Description)

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		// user_version is set outside the transaction; the DDL is idempotent if we stop in between.
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("setting version %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion reports the applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return schemaVersion(ctx, s.db)
}
