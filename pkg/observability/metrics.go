package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the engine's Prometheus collectors. A nil *Metrics is
// safe to call everywhere, so tests can pass one without a registry.
type Metrics struct {
	registry *prometheus.Registry

	queriesTotal   *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	energySpent    prometheus.Counter
	contextNodes   prometheus.Histogram
	busOperations  *prometheus.CounterVec
	busDuration    *prometheus.HistogramVec
	sourceFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the engine collectors on a private
// registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_queries_total",
			Help: "Retrieval queries by terminal status.",
		}, []string{"status"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atlas_query_duration_seconds",
			Help:    "End-to-end retrieval query latency.",
			Buckets: prometheus.DefBuckets,
		}),
		energySpent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlas_energy_spent_total",
			Help: "Energy debited across all query ledgers.",
		}),
		contextNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atlas_context_nodes",
			Help:    "Context nodes materialized per query.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		busOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_bus_operations_total",
			Help: "Command/query bus dispatches by type and outcome.",
		}, []string{"metric", "label"}),
		busDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlas_bus_duration_seconds",
			Help:    "Command/query bus handler latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"metric", "label"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_source_failures_total",
			Help: "External source invocation failures by source.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		m.queriesTotal,
		m.queryDuration,
		m.energySpent,
		m.contextNodes,
		m.busOperations,
		m.busDuration,
		m.sourceFailures,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CountQuery records a query's terminal status
func (m *Metrics) CountQuery(status string) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(status).Inc()
}

// ObserveQuery records a completed query's latency, energy spend, and
// context size
func (m *Metrics) ObserveQuery(d time.Duration, energyUsed float64, nodes int) {
	if m == nil {
		return
	}
	m.queryDuration.Observe(d.Seconds())
	m.energySpent.Add(energyUsed)
	m.contextNodes.Observe(float64(nodes))
}

// CountSourceFailure records a skipped external source
func (m *Metrics) CountSourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

// StartTimer implements the bus metrics interface
func (m *Metrics) StartTimer(metric, label string) Timer {
	start := time.Now()
	return timerFunc(func() {
		if m == nil {
			return
		}
		m.busDuration.WithLabelValues(metric, label).Observe(time.Since(start).Seconds())
	})
}

// Increment implements the bus metrics interface
func (m *Metrics) Increment(metric, label string) {
	if m == nil {
		return
	}
	m.busOperations.WithLabelValues(metric, label).Inc()
}

// Timer finishes a duration observation
type Timer interface {
	Stop()
}

type timerFunc func()

func (f timerFunc) Stop() { f() }
