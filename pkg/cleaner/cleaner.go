// pkg/cleaner/cleaner.go
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// DataCleaner runs the cleaning pipeline over datasets
type DataCleaner struct {
	logger   *zap.Logger
	observer Observer
}

// Option configures a DataCleaner
type Option func(*DataCleaner)

// WithObserver reports step timings and run outcomes to o
func WithObserver(o Observer) Option {
	return func(c *DataCleaner) {
		if o != nil {
			c.observer = o
		}
	}
}

// Result is the outcome of one cleaning run
type Result struct {
	RunID     uuid.UUID
	Dataset   *model.Dataset
	Anomalies model.AnomalyReport
	Metrics   model.CleaningMetrics
	Steps     []model.StepReport
	Warnings  []string
	StartedAt time.Time
	Duration  time.Duration
}

// NewDataCleaner creates a new DataCleaner instance
func NewDataCleaner(logger *zap.Logger, opts ...Option) (*DataCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	cleaner := &DataCleaner{
		logger:   logger,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(cleaner)
	}

	return cleaner, nil
}

// Clean runs the enabled steps over a copy of ds in a fixed order:
// impute, duplicates, column names, text, dates, emails, fuzzy values,
// anomalies. ds itself is never modified. ctx is checked between steps.
func (c *DataCleaner) Clean(ctx context.Context, ds *model.Dataset, cfg model.CleaningConfig) (*Result, error) {
	result, err := c.clean(ctx, ds, cfg)
	c.observer.ObserveRun(result, err)
	return result, err
}

func (c *DataCleaner) clean(ctx context.Context, ds *model.Dataset, cfg model.CleaningConfig) (*Result, error) {
	if ds == nil {
		return nil, errors.New("dataset cannot be nil")
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	result := &Result{
		RunID:     uuid.New(),
		Dataset:   ds.Clone(),
		StartedAt: time.Now(),
	}
	work := result.Dataset
	logger := c.logger.With(zap.String("runID", result.RunID.String()))

	result.Metrics.RowsBefore = work.RowCount()
	result.Metrics.NullsBefore = work.NullCount()
	result.Metrics.DuplicatesBefore = CountDuplicates(work)

	logger.Info("Starting cleaning run",
		zap.Int("rows", result.Metrics.RowsBefore),
		zap.Int("columns", work.ColumnCount()),
		zap.Strings("steps", cfg.EnabledSteps()))

	steps := []struct {
		name    string
		enabled bool
		run     func() ([]model.StepReport, error)
	}{
		{model.StepImpute, true, func() ([]model.StepReport, error) {
			return ImputeMissing(work, cfg.MissingStrategy)
		}},
		{model.StepRemoveDuplicates, cfg.RemoveDuplicates, func() ([]model.StepReport, error) {
			return []model.StepReport{RemoveDuplicates(work)}, nil
		}},
		{model.StepStandardizeColumns, cfg.StandardizeColumns, func() ([]model.StepReport, error) {
			report, warnings := StandardizeColumns(work)
			for _, w := range warnings {
				logger.Warn("Column name collision after standardization", zap.String("detail", w))
			}
			result.Warnings = append(result.Warnings, warnings...)
			return []model.StepReport{report}, nil
		}},
		{model.StepNormalizeText, cfg.NormalizeText, func() ([]model.StepReport, error) {
			return NormalizeText(work), nil
		}},
		{model.StepFixDates, cfg.FixDates, func() ([]model.StepReport, error) {
			return FixDates(work), nil
		}},
		{model.StepValidateEmails, cfg.ValidateEmails, func() ([]model.StepReport, error) {
			return ValidateEmails(work), nil
		}},
		{model.StepFuzzyStandardize, cfg.FuzzyStandardize, func() ([]model.StepReport, error) {
			return FuzzyStandardize(work, cfg.FuzzyCutoff), nil
		}},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cleaning run canceled before %s: %w", step.name, err)
		}

		start := time.Now()
		reports, err := step.run()
		elapsed := time.Since(start)
		result.Steps = append(result.Steps, reports...)
		if err != nil {
			logger.Error("Cleaning step failed", zap.String("step", step.name), zap.Error(err))
			return nil, err
		}

		c.observer.ObserveStep(step.name, elapsed)
		logger.Debug("Completed cleaning step",
			zap.String("step", step.name),
			zap.Int("rows", work.RowCount()),
			zap.Duration("duration", elapsed))
	}

	result.Metrics.RowsAfter = work.RowCount()
	result.Metrics.NullsAfter = work.NullCount()
	result.Metrics.DuplicatesAfter = CountDuplicates(work)

	if cfg.DetectAnomalies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cleaning run canceled before %s: %w", model.StepDetectAnomalies, err)
		}
		start := time.Now()
		anomalies, reports := DetectAnomalies(work, cfg.AnomalyMethod, cfg.AnomalyThreshold)
		elapsed := time.Since(start)

		result.Anomalies = anomalies
		result.Steps = append(result.Steps, reports...)
		result.Metrics.AnomaliesDetected = anomalies.RowsWithAnomalies()
		c.observer.ObserveStep(model.StepDetectAnomalies, elapsed)
	}

	result.Duration = time.Since(result.StartedAt)

	logger.Info("Completed cleaning run",
		zap.Int("rowsBefore", result.Metrics.RowsBefore),
		zap.Int("rowsAfter", result.Metrics.RowsAfter),
		zap.Int("nullsBefore", result.Metrics.NullsBefore),
		zap.Int("nullsAfter", result.Metrics.NullsAfter),
		zap.Int("anomalies", result.Metrics.AnomaliesDetected),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration))

	return result, nil
}
