package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics are the gauges exported for one run.
type runMetrics struct {
	registry  *prometheus.Registry
	rows      prometheus.Gauge
	artifacts prometheus.Gauge
	duration  prometheus.Gauge
	lastRun   prometheus.Gauge
	steps     *prometheus.GaugeVec
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "goreport",
			Name:      "input_rows",
			Help:      "Number of rows in the report input.",
		}),
		artifacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "goreport",
			Name:      "artifacts_written",
			Help:      "Number of chart files written.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "goreport",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last report run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "goreport",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful run completed.",
		}),
		steps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "goreport",
			Name:      "step_duration_seconds",
			Help:      "Wall time of each report step.",
		}, []string{"step"}),
	}
	m.registry.MustRegister(m.rows, m.artifacts, m.duration, m.lastRun, m.steps)
	return m
}

func (m *runMetrics) observe(result *Result) {
	m.rows.Set(float64(result.Rows))
	m.artifacts.Set(float64(len(result.Artifacts)))
	m.duration.Set(result.Duration.Seconds())
	m.lastRun.Set(float64(result.CompletedAt.Unix()))
	for _, s := range result.Steps {
		m.steps.WithLabelValues(s.Name).Set(s.Duration.Seconds())
	}
}

// WriteMetrics writes the gauges of result in the text exposition format,
// for collection by the node_exporter textfile collector.
func WriteMetrics(path string, result *Result) error {
	m := newRunMetrics()
	m.observe(result)
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
