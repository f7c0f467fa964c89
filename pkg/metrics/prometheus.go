package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"SpyReg/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
// It owns its registry so a run can be dumped to a textfile on exit.
type Recorder struct {
	reg         *prometheus.Registry
	stageTime   *prometheus.HistogramVec
	stageRows   *prometheus.GaugeVec
	errorsTotal *prometheus.CounterVec
	adjR2       *prometheus.GaugeVec
	rmse        *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		stageTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spyreg_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spyreg_stage_rows",
				Help: "Rows produced by the last run of a pipeline stage",
			},
			[]string{"stage"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spyreg_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		adjR2: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spyreg_adjusted_r2",
				Help: "Adjusted R squared of the fitted model per window",
			},
			[]string{"window"},
		),
		rmse: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spyreg_rmse",
				Help: "Root mean squared error of the fitted model per window",
			},
			[]string{"window"},
		),
	}
	r.reg.MustRegister(r.stageTime, r.stageRows, r.errorsTotal, r.adjR2, r.rmse)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// RecordStage records a stage's duration and output row count.
func (r *Recorder) RecordStage(stage string, seconds float64, rows int) {
	r.stageTime.WithLabelValues(stage).Observe(seconds)
	r.stageRows.WithLabelValues(stage).Set(float64(rows))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordAssessment records the fit quality of one window.
func (r *Recorder) RecordAssessment(window string, m models.Metric) {
	r.adjR2.WithLabelValues(window).Set(m.AdjR2)
	r.rmse.WithLabelValues(window).Set(m.RMSE)
}

// WriteTextfile dumps all metrics in the Prometheus text format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
