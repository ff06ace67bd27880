// Package metrics exposes Prometheus metrics for the download pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Download results.
const (
	ResultSuccess     = "success"
	ResultCached      = "cached"
	ResultFetchFailed = "fetch_failed"
	ResultSendFailed  = "send_failed"
	ResultUnsupported = "unsupported"
	ResultPanic       = "panic"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ActiveProcessors prometheus.Gauge
	Downloads        *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	Enqueued         *prometheus.CounterVec
	Searches         *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ActiveProcessors: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tunebot_queue_processors_active",
			Help: "Number of users whose queue is being drained",
		}),
		Downloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tunebot_downloads_total",
			Help: "Processed queue entries by result",
		}, []string{"result"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tunebot_fetch_duration_seconds",
			Help:    "Duration of audio extraction including retries",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}),
		Enqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tunebot_queue_enqueued_total",
			Help: "Queue entries added by source",
		}, []string{"source"}),
		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tunebot_searches_total",
			Help: "Searches by outcome",
		}, []string{"outcome"}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ProcessorStarted() {
	if m == nil {
		return
	}
	m.ActiveProcessors.Inc()
}

func (m *Metrics) ProcessorStopped() {
	if m == nil {
		return
	}
	m.ActiveProcessors.Dec()
}

func (m *Metrics) RecordDownload(result string) {
	if m == nil {
		return
	}
	m.Downloads.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordEnqueue(source string) {
	if m == nil {
		return
	}
	m.Enqueued.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordSearch(outcome string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
}
