package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the outcome of generation passes. They are written as a
// node-exporter textfile at the end of a run.
type Metrics struct {
	reg *prometheus.Registry

	Files       *prometheus.CounterVec
	Diagnostics *prometheus.CounterVec
	Duration    prometheus.Histogram
	LastRun     prometheus.Gauge
}

// NewMetrics returns metrics registered on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemats",
				Name:      "files_total",
				Help:      "Schema files processed by result",
			},
			[]string{"result"},
		),
		Diagnostics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemats",
				Name:      "diagnostics_total",
				Help:      "Diagnostics reported by severity",
			},
			[]string{"severity"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "schemats",
				Name:      "file_duration_seconds",
				Help:      "Time spent generating one module",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		LastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "schemats",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run finished",
			},
		),
	}
}

// Registry exposes the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile atomically writes the metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
