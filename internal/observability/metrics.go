package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard"

// Metrics holds the Prometheus collectors for the dashboard API.
type Metrics struct {
	// HTTP metrics.
	Requests        *prometheus.CounterVec   // labels: route, status
	RequestDuration *prometheus.HistogramVec // labels: route

	// Dataset metrics.
	SnapshotRows   prometheus.Gauge
	LoadDuration   prometheus.Histogram
	LoadErrors     prometheus.Counter
	EmptyViews     *prometheus.CounterVec // labels: route
	FilteredEvents prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		SnapshotRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_rows",
			Help:      "Events in the most recently loaded snapshot.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_load_duration_seconds",
			Help:      "Duration of loading and merging the input files.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_load_errors_total",
			Help:      "Failed snapshot reloads.",
		}),
		EmptyViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_views_total",
			Help:      "Requests whose filters matched no events.",
		}, []string{"route"}),
		FilteredEvents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filtered_events",
			Help:      "Events per filtered view.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	prometheus.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.SnapshotRows,
		m.LoadDuration,
		m.LoadErrors,
		m.EmptyViews,
		m.FilteredEvents,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Requests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds"}, []string{"route"}),
		SnapshotRows:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "snapshot_rows"}),
		LoadDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "snapshot_load_duration_seconds"}),
		LoadErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "snapshot_load_errors_total"}),
		EmptyViews:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "empty_views_total"}, []string{"route"}),
		FilteredEvents:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "filtered_events"}),
	}
}
