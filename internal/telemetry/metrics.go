package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"unitbench/internal/benchmark"
)

const namespace = "unitbench"

var sampleBuckets = []float64{
	1e-7, 1e-6, 1e-5, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
}

// Metrics is a report sink exporting results as Prometheus metrics on its own
// registry.
type Metrics struct {
	mu    sync.Mutex
	suite string

	registry *prometheus.Registry
	results  *prometheus.CounterVec
	samples  *prometheus.CounterVec
	wall     *prometheus.GaugeVec
	user     *prometheus.GaugeVec
	sampleH  *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Number of (benchmark, input) results reported.",
		}, []string{"suite"}),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Number of timed executions.",
		}, []string{"suite", "benchmark"}),
		wall: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wall_seconds",
			Help:      "Mean wall-clock time per execution.",
		}, []string{"suite", "benchmark", "input"}),
		user: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "user_seconds",
			Help:      "Mean user CPU time per execution.",
		}, []string{"suite", "benchmark", "input"}),
		sampleH: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_wall_seconds",
			Help:      "Distribution of wall-clock time per execution.",
			Buckets:   sampleBuckets,
		}, []string{"suite", "benchmark"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of suite runs by outcome.",
		}, []string{"suite", "status"}),
	}

	for _, c := range []prometheus.Collector{m.results, m.samples, m.wall, m.user, m.sampleH, m.runs} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Registry exposes the registry for scraping or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Start(info benchmark.RunInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suite = info.Suite
	return nil
}

func (m *Metrics) Result(res benchmark.Result) error {
	m.mu.Lock()
	suite := m.suite
	m.mu.Unlock()

	m.results.WithLabelValues(suite).Inc()
	m.samples.WithLabelValues(suite, res.Name).Add(float64(len(res.Samples)))
	m.wall.WithLabelValues(suite, res.Name, res.Input).Set(res.Wall().Mean)
	m.user.WithLabelValues(suite, res.Name, res.Input).Set(res.User().Mean)
	h := m.sampleH.WithLabelValues(suite, res.Name)
	for _, s := range res.Samples {
		h.Observe(s.Wall)
	}
	return nil
}

func (m *Metrics) End() error { return nil }

// RecordRun counts a finished suite run with status "ok" or "failed".
func (m *Metrics) RecordRun(suite string, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.runs.WithLabelValues(suite, status).Inc()
}

// Push sends the current state of every metric to a Prometheus Pushgateway.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
