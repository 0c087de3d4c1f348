package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis outcomes.
const (
	ResultStored   = "stored"
	ResultRejected = "rejected"
	ResultUnsaved  = "unsaved"
)

type AnalysisMetrics struct {
	AnalysesTotal   *prometheus.CounterVec
	BySentiment     *prometheus.CounterVec
	Score           prometheus.Histogram
	ScoringDuration prometheus.Histogram
}

func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of analyze requests, by result.",
		}, []string{"result"}),
		BySentiment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_by_sentiment_total",
			Help:      "Total number of scored texts, by sentiment.",
		}, []string{"sentiment"}),
		Score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_score",
			Help:      "Distribution of computed scores.",
			Buckets:   []float64{-20, -10, -5, -3, -1, 0, 1, 3, 5, 10, 20},
		}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Duration of tokenizing and scoring one text in seconds.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}

	reg.MustRegister(m.AnalysesTotal, m.BySentiment, m.Score, m.ScoringDuration)
	return m
}

// ObserveScored records one scored text.
func (m *AnalysisMetrics) ObserveScored(sentiment string, score int, took time.Duration) {
	m.BySentiment.WithLabelValues(sentiment).Inc()
	m.Score.Observe(float64(score))
	m.ScoringDuration.Observe(took.Seconds())
}
