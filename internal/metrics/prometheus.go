// Package metrics exposes service counters through Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "church_admin"

// Recorder is the set of observations the service reports.
type Recorder interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	BestEffortFailed(step string)
	RetryAttempted(op string, attempt int, err error)
	RateLimited(scope string)
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type PrometheusCollector struct {
	registry *prometheus.Registry

	operations     *prometheus.CounterVec
	operationTimes *prometheus.HistogramVec
	bestEffort     *prometheus.CounterVec
	retries        *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestTimes   *prometheus.HistogramVec
}

var _ Recorder = (*PrometheusCollector)(nil)

// NewPrometheus registers collectors on a dedicated registry together with the
// Go runtime and process collectors.
func NewPrometheus(namespace string) *PrometheusCollector {
	if namespace == "" {
		namespace = defaultNamespace
	}

	p := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "operations_total",
			Help:      "Pastor assignment operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		operationTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "operation_duration_seconds",
			Help:      "Latency of pastor assignment operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"op"}),
		bestEffort: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "best_effort_failures_total",
			Help:      "Registration follow-up steps that failed after the binding was saved.",
		}, []string{"step"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "retries_total",
			Help:      "Store read retries by operation.",
		}, []string{"op"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"scope"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		requestTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.operations,
		p.operationTimes,
		p.bestEffort,
		p.retries,
		p.rateLimited,
		p.requests,
		p.requestTimes,
	)
	return p
}

func (p *PrometheusCollector) ObserveOperation(op, outcome string, elapsed time.Duration) {
	p.operations.WithLabelValues(op, outcome).Inc()
	p.operationTimes.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (p *PrometheusCollector) BestEffortFailed(step string) {
	p.bestEffort.WithLabelValues(step).Inc()
}

func (p *PrometheusCollector) RetryAttempted(op string, _ int, _ error) {
	p.retries.WithLabelValues(op).Inc()
}

func (p *PrometheusCollector) RateLimited(scope string) {
	p.rateLimited.WithLabelValues(scope).Inc()
}

func (p *PrometheusCollector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestTimes.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *PrometheusCollector) Registry() *prometheus.Registry {
	return p.registry
}
