package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/app"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/pscheid92/sentilog/internal/platform/config"
)

type appService interface {
	Analyze(ctx context.Context, text string) (app.Analysis, error)
	History(ctx context.Context) (domain.History, error)
	Stats(ctx context.Context) (domain.Distribution, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app         appService
	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics
	readiness   Readiness
	startTime   time.Time
}

// NewServer builds the HTTP API. registry and httpMetrics may be nil, which disables /metrics
// and request instrumentation.
func NewServer(cfg *config.Config, app appService, registry *prometheus.Registry, httpMetrics *metrics.HTTPMetrics, readiness Readiness) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:        e,
		config:      cfg,
		app:         app,
		registry:    registry,
		httpMetrics: httpMetrics,
		readiness:   readiness,
		startTime:   time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP runs a request through the full middleware chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
