package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/sentilog/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

const readinessTimeout = 3 * time.Second

// StoreInfo identifies the record store engine and the migration level it runs at.
// SchemaVersion is 0 for the in-memory store.
type StoreInfo struct {
	Engine        string `json:"engine"`
	SchemaVersion int    `json:"schema_version"`
}

// HealthCheck is one dependency consulted by /health/ready.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Readiness is what /health/ready reports on.
type Readiness struct {
	Store  StoreInfo
	Checks []HealthCheck
}

type pinger interface {
	Ping(ctx context.Context) error
}

// StoreCheck pings the record store.
func StoreCheck(store pinger) HealthCheck {
	return HealthCheck{Name: "store", Check: store.Ping}
}

// RedisCheck pings the Redis instance holding the stats cache.
func RedisCheck(rdb goredis.Cmdable) HealthCheck {
	return HealthCheck{
		Name:  "redis",
		Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}

type livenessResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readinessResponse struct {
	Status string            `json:"status"`
	Store  StoreInfo         `json:"store"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleLiveness(c echo.Context) error {
	resp := livenessResponse{Status: "ok", UptimeSeconds: time.Since(s.startTime).Seconds()}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

// handleReadiness runs every check, so one response names all failing dependencies.
func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{
		Status: "ready",
		Store:  s.readiness.Store,
		Checks: make(map[string]string, len(s.readiness.Checks)),
	}
	status := http.StatusOK

	for _, hc := range s.readiness.Checks {
		if err := hc.Check(ctx); err != nil {
			slog.WarnContext(ctx, "Readiness check failed", "check", hc.Name, "error", err)
			resp.Checks[hc.Name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[hc.Name] = "ok"
	}

	if err := c.JSON(status, resp); err != nil {
		return fmt.Errorf("failed to write readiness response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
