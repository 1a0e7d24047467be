// Package metrics exports pool activity to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dbclient/src/core/domain"
	"dbclient/src/core/pool"
)

// Default histogram buckets for acquire wait (in seconds)
var defaultBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// StatsSource lists pool snapshots at scrape time.
type StatsSource interface {
	Stats() []pool.Stats
}

// Prometheus records pool events and exposes pool gauges on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	acquireTotal   *prometheus.CounterVec
	acquireWait    *prometheus.HistogramVec
	createdTotal   *prometheus.CounterVec
	destroyedTotal *prometheus.CounterVec
}

var _ pool.Observer = (*Prometheus)(nil)

// New creates the collectors under namespace. When source is non-nil its
// pool gauges are read on every scrape.
func New(namespace string, source StatsSource) *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	pm := &Prometheus{
		registry: registry,

		acquireTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "acquire_total",
				Help:      "Connection acquisitions by outcome",
			},
			[]string{"pool", "result"},
		),

		acquireWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "acquire_wait_seconds",
				Help:      "Time spent waiting for a connection",
				Buckets:   defaultBuckets,
			},
			[]string{"pool"},
		),

		createdTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "connections_created_total",
				Help:      "Connection create attempts by outcome",
			},
			[]string{"pool", "result"},
		),

		destroyedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "connections_destroyed_total",
				Help:      "Connections closed by reason",
			},
			[]string{"pool", "reason"},
		),
	}

	registry.MustRegister(pm.acquireTotal, pm.acquireWait, pm.createdTotal, pm.destroyedTotal)
	if source != nil {
		registry.MustRegister(newStatsCollector(namespace, source))
	}
	return pm
}

// ObserveAcquire implements pool.Observer.
func (m *Prometheus) ObserveAcquire(poolName string, wait time.Duration, err error) {
	m.acquireTotal.WithLabelValues(poolName, acquireResult(err)).Inc()
	m.acquireWait.WithLabelValues(poolName).Observe(wait.Seconds())
}

// ObserveCreate implements pool.Observer.
func (m *Prometheus) ObserveCreate(poolName string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.createdTotal.WithLabelValues(poolName, result).Inc()
}

// ObserveDestroy implements pool.Observer.
func (m *Prometheus) ObserveDestroy(poolName, reason string) {
	m.destroyedTotal.WithLabelValues(poolName, reason).Inc()
}

// Handler returns an HTTP handler for Prometheus metrics scraping.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}

func acquireResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrPoolExhausted):
		return "timeout"
	case errors.Is(err, domain.ErrPoolClosed):
		return "closed"
	case errors.Is(err, domain.ErrConnectionCreate):
		return "create_error"
	default:
		return "error"
	}
}
