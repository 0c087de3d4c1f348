package httpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/app"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/pscheid92/sentilog/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	analyzeFn func(ctx context.Context, text string) (app.Analysis, error)
	historyFn func(ctx context.Context) (domain.History, error)
	statsFn   func(ctx context.Context) (domain.Distribution, error)
}

func (m *mockAppService) Analyze(ctx context.Context, text string) (app.Analysis, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, text)
	}
	return app.Analysis{}, errors.New("not implemented")
}

func (m *mockAppService) History(ctx context.Context) (domain.History, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx)
	}
	return domain.History{}, errors.New("not implemented")
}

func (m *mockAppService) Stats(ctx context.Context) (domain.Distribution, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return domain.Distribution{}, errors.New("not implemented")
}

// --- Test helpers ---

const testRemoteAddr = "1.2.3.4:1234"

func testConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		AnalyzeRateLimit: 1000,
		AnalyzeRateBurst: 1000,
		MaxBodySize:      "1K",
		CORSAllowOrigins: "*",
	}
}

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo:      echo.New(),
		config:    testConfig(),
		app:       app,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withReadiness(store StoreInfo, checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.readiness = Readiness{Store: store, Checks: checks}
	}
}

func withMetrics(reg *prometheus.Registry) func(*Server) {
	return func(s *Server) {
		s.registry = reg
		s.httpMetrics = metrics.NewHTTPMetrics(reg)
	}
}

func withConfig(mutate func(*config.Config)) func(*Server) {
	return func(s *Server) {
		mutate(s.config)
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}
