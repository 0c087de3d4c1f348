package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricSets_RegisterWithoutConflicts(t *testing.T) {
	reg := NewRegistry()

	assert.NotPanics(t, func() {
		NewHTTPMetrics(reg)
		NewAnalysisMetrics(reg)
		NewStoreMetrics(reg)
		NewCacheMetrics(reg)
	})
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	m := NewAnalysisMetrics(reg)
	m.AnalysesTotal.WithLabelValues(ResultStored).Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sentilog_analyses_total{result="stored"} 1`)
}

func TestAnalysisMetrics_ObserveScored(t *testing.T) {
	m := NewAnalysisMetrics(prometheus.NewRegistry())

	m.ObserveScored("positive", 5, time.Millisecond)
	m.ObserveScored("positive", 2, time.Millisecond)
	m.ObserveScored("negative", -1, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BySentiment.WithLabelValues("positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BySentiment.WithLabelValues("negative")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Score))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/history", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/api/history", "/api/history", "/health/live"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/history", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))

	expected := `
		# HELP sentilog_http_requests_total Total number of HTTP requests.
		# TYPE sentilog_http_requests_total counter
		sentilog_http_requests_total{method="GET",route="/api/history",status_code="200"} 2
	`
	require.NoError(t, testutil.CollectAndCompare(m.RequestsTotal, strings.NewReader(expected)))
}

type stubStore struct {
	appendErr error
}

func (s *stubStore) Append(_ context.Context, text string, sentiment domain.Sentiment, score int) (domain.AnalysisRecord, error) {
	if s.appendErr != nil {
		return domain.AnalysisRecord{}, s.appendErr
	}
	return domain.AnalysisRecord{ID: 1, Text: text, Sentiment: sentiment, Score: score}, nil
}

func (s *stubStore) List(context.Context) ([]domain.AnalysisRecord, error) { return nil, nil }
func (s *stubStore) Ping(context.Context) error                            { return nil }

func TestInstrumentedStore_RecordsErrorKind(t *testing.T) {
	m := NewStoreMetrics(prometheus.NewRegistry())
	inner := &stubStore{appendErr: &domain.StorageError{Op: "append", Kind: domain.StorageUnavailable, Err: errors.New("down")}}
	store := InstrumentStore(inner, "sqlite", m)

	_, err := store.Append(context.Background(), "text", domain.Neutral, 0)
	require.Error(t, err)

	_, err = store.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationErrors.WithLabelValues("sqlite", "append", "unavailable")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.OperationDuration))
}

func TestInstrumentedStore_PassesThroughRecord(t *testing.T) {
	m := NewStoreMetrics(prometheus.NewRegistry())
	store := InstrumentStore(&stubStore{}, "memory", m)

	rec, err := store.Append(context.Background(), "good", domain.Positive, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, 0, testutil.CollectAndCount(m.OperationErrors))
}
