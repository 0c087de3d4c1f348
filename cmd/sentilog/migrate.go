package main

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/adapter/sqlite"
	"github.com/pscheid92/sentilog/internal/platform/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the database schema up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		clock := clockwork.NewRealClock()
		out := cmd.OutOrStdout()

		switch cfg.StorageDriver {
		case config.DriverSQLite:
			store, err := sqlite.Open(ctx, cfg.SQLitePath, clock)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			v, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "sqlite %s at schema version %d\n", store.Path(), v)

		case config.DriverPostgres:
			pool, v, err := setupDB(ctx, clock, metrics.NewStoreMetrics(prometheus.NewRegistry()))
			if err != nil {
				return err
			}
			defer pool.Close()
			fmt.Fprintf(out, "postgres at schema version %d\n", v)

		default:
			slog.Info("Nothing to migrate", "storage", cfg.StorageDriver)
		}
		return nil
	},
}
