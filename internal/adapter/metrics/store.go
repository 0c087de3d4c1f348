package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type StoreMetrics struct {
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec
	QueryDuration     *prometheus.HistogramVec
	QueryErrors       *prometheus.CounterVec
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of record store operations in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"engine", "operation"}),
		OperationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_errors_total",
			Help:      "Total number of failed record store operations, by storage error kind.",
		}, []string{"engine", "operation", "kind"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of individual SQL statements in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"query"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of failed SQL statements.",
		}, []string{"query"}),
	}

	reg.MustRegister(m.OperationDuration, m.OperationErrors, m.QueryDuration, m.QueryErrors)
	return m
}

// ObserveOperation records one store operation. kind is empty on success.
func (m *StoreMetrics) ObserveOperation(engine, operation, kind string, took time.Duration) {
	m.OperationDuration.WithLabelValues(engine, operation).Observe(took.Seconds())
	if kind != "" {
		m.OperationErrors.WithLabelValues(engine, operation, kind).Inc()
	}
}

// ObserveQuery records one SQL statement.
func (m *StoreMetrics) ObserveQuery(query string, took time.Duration, failed bool) {
	m.QueryDuration.WithLabelValues(query).Observe(took.Seconds())
	if failed {
		m.QueryErrors.WithLabelValues(query).Inc()
	}
}
