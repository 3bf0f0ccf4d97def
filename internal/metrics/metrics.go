// Package metrics records oracle query timings and outcomes in a private
// Prometheus registry that can be exported as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cloud_oracle"

// Query names used as the "query" label.
const (
	QueryMinimize     = "minimize"
	QueryDirected     = "drift_directed"
	QueryConservative = "drift_conservative"
	QuerySimulate     = "simulate"
)

// DefaultDurationBuckets covers single-point queries (tens of µs) up to large batches.
var DefaultDurationBuckets = []float64{
	0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30,
}

// QueryMetrics holds the collectors for one oracle process or experiment run.
// Collectors register on a private registry so parallel tests never collide
// on prometheus.DefaultRegisterer.
type QueryMetrics struct {
	registry *prometheus.Registry

	queryDuration *prometheus.HistogramVec
	pointsTotal   *prometheus.CounterVec
	driftOutcomes *prometheus.CounterVec
	iterations    *prometheus.CounterVec
}

// NewQueryMetrics creates and registers all collectors.
func NewQueryMetrics() (*QueryMetrics, error) {
	m := &QueryMetrics{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Wall-clock duration of oracle queries.",
			Buckets:   DefaultDurationBuckets,
		}, []string{"query", "precision"}),
		pointsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Workload points evaluated.",
		}, []string{"query"}),
		driftOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drift_queries_total",
			Help:      "Drift queries by mode and whether a breakpoint was found.",
		}, []string{"mode", "outcome"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiment_iterations_total",
			Help:      "Timed experiment iterations completed.",
		}, []string{"experiment", "use_case"}),
	}
	for _, c := range []prometheus.Collector{m.queryDuration, m.pointsTotal, m.driftOutcomes, m.iterations} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return m, nil
}

// Registry exposes the private registry, e.g. for promhttp or tests.
func (m *QueryMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveQuery records one query over points workload points.
func (m *QueryMetrics) ObserveQuery(query, precision string, elapsed time.Duration, points int) {
	m.queryDuration.WithLabelValues(query, precision).Observe(elapsed.Seconds())
	m.pointsTotal.WithLabelValues(query).Add(float64(points))
}

// ObserveDrift records the outcome of one drift query.
func (m *QueryMetrics) ObserveDrift(mode string, found bool) {
	outcome := "breakpoint"
	if !found {
		outcome = "none"
	}
	m.driftOutcomes.WithLabelValues(mode, outcome).Inc()
}

// ObserveIteration counts one timed iteration of an experiment.
func (m *QueryMetrics) ObserveIteration(experiment, useCase string) {
	m.iterations.WithLabelValues(experiment, useCase).Inc()
}

// WriteTextfile writes all metrics in the Prometheus text format to path.
func (m *QueryMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
