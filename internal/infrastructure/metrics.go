package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "latetrack"

// RunMetrics collects the counters of a single run on a private registry.
type RunMetrics struct {
	registry *prometheus.Registry
	rows     *prometheus.CounterVec
	students prometheus.Gauge
	projects prometheus.Gauge
}

// NewRunMetrics creates and registers the run collectors.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_total",
			Help:      "Data rows read per project, by classification outcome.",
		}, []string{"project", "outcome"}),
		students: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "students",
			Help:      "Students with at least one late submission.",
		}),
		projects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "projects",
			Help:      "Projects processed.",
		}),
	}
	m.registry.MustRegister(m.rows, m.students, m.projects)
	return m
}

// ObserveRow counts one row of project with the given outcome.
func (m *RunMetrics) ObserveRow(project, outcome string) {
	m.rows.WithLabelValues(project, outcome).Inc()
}

// SetTotals records the size of the aggregates.
func (m *RunMetrics) SetTotals(projects, students int) {
	m.projects.Set(float64(projects))
	m.students.Set(float64(students))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format for the
// node_exporter textfile collector. The write is atomic.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
