package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/sentilog/internal/app"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/pscheid92/sentilog/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeOK() *mockAppService {
	return &mockAppService{
		analyzeFn: func(_ context.Context, text string) (app.Analysis, error) {
			return app.Analysis{Record: domain.AnalysisRecord{ID: 1, Text: text, Sentiment: domain.Neutral}}, nil
		},
	}
}

func postAnalyze(srv *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/sentiment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = testRemoteAddr
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_AnalyzeThroughStack(t *testing.T) {
	srv := newTestServer(t, analyzeOK())

	rec := postAnalyze(srv, `{"text":"hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"sentiment":"neutral","score":0}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(correlationHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRoutes_BodyLimit(t *testing.T) {
	srv := newTestServer(t, analyzeOK())

	rec := postAnalyze(srv, `{"text":"`+strings.Repeat("a", 2048)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRoutes_CORS(t *testing.T) {
	srv := newTestServer(t, analyzeOK(), withConfig(func(c *config.Config) {
		c.CORSAllowOrigins = "https://example.com"
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/sentiment", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_UnknownRoute(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"route not found","type":"not_found","context":{"path":"/api/nope"}}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(correlationHeader))
}

func TestRoutes_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, analyzeOK(), withMetrics(reg))

	require.Equal(t, http.StatusOK, postAnalyze(srv, `{"text":"hello"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sentilog_http_requests_total{method="POST",route="/api/sentiment",status_code="200"} 1`)
}

func TestRoutes_NoMetricsWithoutRegistry(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"not_found"`)
}
