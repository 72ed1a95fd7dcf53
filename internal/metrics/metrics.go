package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RankRequestsTotal *prometheus.CounterVec
	RankDuration      prometheus.Histogram
	RankBatchSize     prometheus.Histogram
	RanksInFlight     prometheus.Gauge

	EvaluationsTotal   *prometheus.CounterVec
	VetoedOptionsTotal prometheus.Counter

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		RankRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decision_engine_rank_requests_total",
				Help: "Total number of ranking requests processed",
			},
			[]string{"status"},
		),
		RankDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "decision_engine_rank_duration_seconds",
				Help:    "Ranking request duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		RankBatchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "decision_engine_rank_batch_size",
				Help:    "Number of options per ranking request",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
			},
		),
		RanksInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "decision_engine_ranks_in_flight",
				Help: "Number of ranking requests currently being processed",
			},
		),

		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decision_engine_evaluations_total",
				Help: "Total number of option evaluations",
			},
			[]string{"status"},
		),
		VetoedOptionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "decision_engine_vetoed_options_total",
				Help: "Total number of options flagged by the veto threshold",
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "decision_engine_cache_hits_total",
				Help: "Total number of evaluation cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "decision_engine_cache_misses_total",
				Help: "Total number of evaluation cache misses",
			},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRank(status string, batchSize int, duration time.Duration) {
	m.RankRequestsTotal.WithLabelValues(status).Inc()
	m.RankDuration.Observe(duration.Seconds())
	m.RankBatchSize.Observe(float64(batchSize))
}

func (m *Metrics) RecordEvaluation(status string) {
	m.EvaluationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordVeto() {
	m.VetoedOptionsTotal.Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) IncRanksInFlight() {
	m.RanksInFlight.Inc()
}

func (m *Metrics) DecRanksInFlight() {
	m.RanksInFlight.Dec()
}
