package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pass results used as label values on swatch_sync_passes_total.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Record outcomes used as label values on swatch_sync_records_total.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
)

// Recorder owns the sync collectors and the registry they are registered in.
type Recorder struct {
	registry *prometheus.Registry

	passes      *prometheus.CounterVec
	records     *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
	pages       prometheus.Counter
}

// New creates a Recorder backed by a fresh registry that also carries the
// standard Go and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newRecorder(reg)
}

func newRecorder(reg *prometheus.Registry) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		passes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swatch_sync_passes_total",
			Help: "Total number of sync passes by result",
		}, []string{"result"}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swatch_sync_records_total",
			Help: "Total number of catalog records handled by outcome",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "swatch_sync_duration_seconds",
			Help:    "Duration of sync passes in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "swatch_sync_last_success_timestamp",
			Help: "Unix time of the last committed sync pass",
		}),
		pages: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_pages_fetched_total",
			Help: "Total number of catalog pages fetched",
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObservePass records the outcome of a finished pass.
func (r *Recorder) ObservePass(success bool, created, updated, skipped int, took time.Duration, finished time.Time) {
	if r == nil {
		return
	}
	if success {
		r.passes.WithLabelValues(ResultSuccess).Inc()
		r.lastSuccess.Set(float64(finished.Unix()))
	} else {
		r.passes.WithLabelValues(ResultFailure).Inc()
	}
	r.records.WithLabelValues(OutcomeCreated).Add(float64(created))
	r.records.WithLabelValues(OutcomeUpdated).Add(float64(updated))
	r.records.WithLabelValues(OutcomeSkipped).Add(float64(skipped))
	r.duration.Observe(took.Seconds())
}

// PageFetched increments the fetched page counter.
func (r *Recorder) PageFetched() {
	if r == nil {
		return
	}
	r.pages.Inc()
}
