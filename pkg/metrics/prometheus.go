package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	assessments *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	confidence  *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		assessments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_assessments_generated_total",
				Help: "Total number of narrative assessments generated",
			},
			[]string{"symbol", "bias", "strength"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"kind"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"kind"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketlens_last_confidence",
				Help: "Confidence score of the most recent assessment per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAssessment records a generated assessment.
func (r *Recorder) RecordAssessment(symbol, bias, strength string, confidence float64) {
	r.assessments.WithLabelValues(symbol, bias, strength).Inc()
	r.confidence.WithLabelValues(symbol).Set(confidence)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheHit records a cache hit for a key kind.
func (r *Recorder) RecordCacheHit(kind string) {
	r.cacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a cache miss for a key kind.
func (r *Recorder) RecordCacheMiss(kind string) {
	r.cacheMisses.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
