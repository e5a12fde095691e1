// Package metrics provides Prometheus metrics for the item processing service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "items"

// Metrics holds every collector the service records into.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	processRuns        prometheus.Counter
	processItemsScored prometheus.Histogram
	processAverage     prometheus.Gauge
}

// New registers the service collectors, plus Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		processRuns: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "process",
			Name:      "runs_total",
			Help:      "Total number of completed scoring runs",
		}),
		processItemsScored: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "process",
			Name:      "items_scored",
			Help:      "Number of items considered per scoring run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		processAverage: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "process",
			Name:      "last_average_score",
			Help:      "Average score reported by the most recent scoring run",
		}),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveProcess records one scoring run over count items.
func (m *Metrics) ObserveProcess(count int, averageScore float64) {
	m.processRuns.Inc()
	m.processItemsScored.Observe(float64(count))
	m.processAverage.Set(averageScore)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
