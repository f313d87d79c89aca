// pkg/metrics/collector.go

// Package metrics exposes cleaning runs as prometheus metrics and renders
// the before/after summary of a run.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/David-Botos/raw-to-ready/pkg/cleaner"
)

const namespace = "rawready"

// RunMetrics records cleaning runs. It implements cleaner.Observer.
type RunMetrics struct {
	logger *zap.Logger

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stepDuration  *prometheus.HistogramVec
	rowsProcessed prometheus.Counter
	rowsRemoved   prometheus.Counter
	nullsFixed    prometheus.Counter
	anomalies     prometheus.Counter
}

var _ cleaner.Observer = (*RunMetrics)(nil)

// NewRunMetrics creates the collectors and registers them with reg
func NewRunMetrics(reg prometheus.Registerer, logger *zap.Logger) (*RunMetrics, error) {
	if reg == nil {
		return nil, errors.New("registerer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	m := &RunMetrics{
		logger: logger,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Cleaning runs by outcome.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of successful cleaning runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of each cleaning step.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"step"}),
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_processed_total",
			Help:      "Input rows of successful cleaning runs.",
		}),
		rowsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_removed_total",
			Help:      "Rows dropped by cleaning runs.",
		}),
		nullsFixed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nulls_fixed_total",
			Help:      "Null cells removed by cleaning runs.",
		}),
		anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_detected_total",
			Help:      "Rows flagged as anomalous.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.runs, m.runDuration, m.stepDuration,
		m.rowsProcessed, m.rowsRemoved, m.nullsFixed, m.anomalies,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// ObserveStep records the duration of one step
func (m *RunMetrics) ObserveStep(step string, elapsed time.Duration) {
	m.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

// ObserveRun records the outcome of one run
func (m *RunMetrics) ObserveRun(result *cleaner.Result, err error) {
	status := Categorize(err)
	m.runs.WithLabelValues(string(status)).Inc()

	if err != nil || result == nil {
		m.logger.Warn("Cleaning run failed",
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}

	metrics := result.Metrics
	m.runDuration.Observe(result.Duration.Seconds())
	m.rowsProcessed.Add(float64(metrics.RowsBefore))
	if removed := -metrics.RowsDelta(); removed > 0 {
		m.rowsRemoved.Add(float64(removed))
	}
	if fixed := metrics.NullsFixed(); fixed > 0 {
		m.nullsFixed.Add(float64(fixed))
	}
	m.anomalies.Add(float64(metrics.AnomaliesDetected))

	m.logger.Debug("Recorded cleaning run metrics",
		zap.String("runID", result.RunID.String()),
		zap.Duration("duration", result.Duration))
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format, for node exporter's textfile collector
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
