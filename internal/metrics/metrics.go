// Package metrics exports the outcome of a provisioning run as Prometheus
// metrics, written to a textfile for the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/provisionr/internal/provisioning"
)

const namespace = "provisionr"

// Recorder holds the metrics of one run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	stepDuration *prometheus.GaugeVec
	stepRuns     *prometheus.CounterVec
	packages     *prometheus.GaugeVec
	runSuccess   prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of the last execution of each step in seconds",
			},
			[]string{"step"},
		),
		stepRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "step_runs_total",
				Help:      "Number of step executions by result",
			},
			[]string{"step", "result"},
		),
		packages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "packages",
				Help:      "Number of expected runtime packages by state",
			},
			[]string{"state"},
		),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "Whether the last run succeeded (1) or not (0)",
		}),
	}
	r.registry.MustRegister(r.stepDuration, r.stepRuns, r.packages, r.runSuccess)
	return r
}

// Record copies the step results and package check of state into the metrics.
func (r *Recorder) Record(state *provisioning.State, success bool) {
	for _, res := range state.Results {
		r.stepDuration.WithLabelValues(res.Name).Set(res.Duration.Seconds())
		r.stepRuns.WithLabelValues(res.Name, string(res.Status)).Inc()
	}

	if pkgs := state.Packages; pkgs != nil {
		r.packages.WithLabelValues("present").Set(float64(pkgs.Satisfied()))
		r.packages.WithLabelValues("missing").Set(float64(pkgs.Total() - pkgs.Satisfied()))
	}

	if success {
		r.runSuccess.Set(1)
	} else {
		r.runSuccess.Set(0)
	}
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteFile writes the metrics to path in the text exposition format. The
// file is replaced atomically.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
