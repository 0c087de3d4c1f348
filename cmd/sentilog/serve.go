package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/sentilog/internal/adapter/httpserver"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/app"
	"github.com/pscheid92/sentilog/internal/sentiment"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	clock := clockwork.NewRealClock()

	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "storage", cfg.StorageDriver)

	lex, err := loadLexicon()
	if err != nil {
		slog.Error("Invalid lexicon configuration", "error", err)
		return err
	}

	reg := metrics.NewRegistry()
	be, err := openBackend(ctx, clock, reg, true)
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		return err
	}
	defer be.Close()

	svc := app.NewService(sentiment.NewScorer(lex), be.store, be.cache, metrics.NewAnalysisMetrics(reg), clock)
	srv := httpserver.NewServer(cfg, svc, reg, metrics.NewHTTPMetrics(reg), be.readiness)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		return err
	}

	<-done
	slog.Info("Server stopped")
	return nil
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, draining requests...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}
