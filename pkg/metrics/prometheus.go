package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder publishes analysis metrics on its own registry
type Recorder struct {
	registry       *prometheus.Registry
	analyses       *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	composite      *prometheus.GaugeVec
}

// New creates a recorder with a fresh registry plus Go runtime collectors
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investo_analyses_total",
				Help: "Completed analyses by verdict label",
			},
			[]string{"label"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investo_upstream_errors_total",
				Help: "Failed upstream fetches by source",
			},
			[]string{"source"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "investo_analysis_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		composite: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "investo_composite_score",
				Help: "Last composite score computed for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordAnalysis counts a finished analysis and stores its composite score
func (r *Recorder) RecordAnalysis(symbol, label string, composite float64) {
	if r == nil {
		return
	}
	r.analyses.WithLabelValues(label).Inc()
	r.composite.WithLabelValues(symbol).Set(composite)
}

// RecordUpstreamError counts a failed fetch from one source
func (r *Recorder) RecordUpstreamError(source string) {
	if r == nil {
		return
	}
	r.upstreamErrors.WithLabelValues(source).Inc()
}

// ObserveStage records how long a pipeline stage took
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
