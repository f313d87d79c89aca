// pkg/model/config.go
package model

import (
	"errors"
	"fmt"
	"strings"
)

// MissingStrategy selects how the imputer treats null cells
type MissingStrategy string

const (
	FillNA     MissingStrategy = "fill_na"
	FillMean   MissingStrategy = "fill_mean"
	FillMedian MissingStrategy = "fill_median"
	FillMode   MissingStrategy = "fill_mode"
	DropRows   MissingStrategy = "drop_rows"
)

// AnomalyMethod selects how z-scores are computed
type AnomalyMethod string

const (
	// AnomalyZScore uses (x - mean) / sample standard deviation
	AnomalyZScore AnomalyMethod = "zscore"
	// AnomalyRobust uses the median-based modified z-score
	AnomalyRobust AnomalyMethod = "robust"
)

const (
	DefaultFuzzyCutoff      = 0.85
	DefaultAnomalyThreshold = 3.0
)

// strategyLabels maps the option labels offered to end users onto strategies
var strategyLabels = map[string]MissingStrategy{
	"fill with n/a":       FillNA,
	"fill with mean":      FillMean,
	"fill with median":    FillMedian,
	"fill by most common": FillMode,
	"drop rows":           DropRows,
}

// ParseMissingStrategy accepts a strategy name ("fill_mean") or its label
// ("Fill with Mean")
func ParseMissingStrategy(s string) (MissingStrategy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch MissingStrategy(key) {
	case FillNA, FillMean, FillMedian, FillMode, DropRows:
		return MissingStrategy(key), nil
	}
	if strategy, ok := strategyLabels[key]; ok {
		return strategy, nil
	}
	return "", fmt.Errorf("unknown missing value strategy %q", s)
}

// CleaningConfig selects which pipeline steps run and how.
// It is a value type; the orchestrator never modifies it.
type CleaningConfig struct {
	MissingStrategy    MissingStrategy `yaml:"missing_strategy" json:"missing_strategy"`
	RemoveDuplicates   bool            `yaml:"remove_duplicates" json:"remove_duplicates"`
	StandardizeColumns bool            `yaml:"standardize_columns" json:"standardize_columns"`
	NormalizeText      bool            `yaml:"normalize_text" json:"normalize_text"`
	FixDates           bool            `yaml:"fix_dates" json:"fix_dates"`
	ValidateEmails     bool            `yaml:"validate_emails" json:"validate_emails"`
	FuzzyStandardize   bool            `yaml:"fuzzy_standardize" json:"fuzzy_standardize"`
	DetectAnomalies    bool            `yaml:"detect_anomalies" json:"detect_anomalies"`

	FuzzyCutoff      float64       `yaml:"fuzzy_cutoff" json:"fuzzy_cutoff"`
	AnomalyThreshold float64       `yaml:"anomaly_threshold" json:"anomaly_threshold"`
	AnomalyMethod    AnomalyMethod `yaml:"anomaly_method" json:"anomaly_method"`
}

// DefaultCleaningConfig returns a config with every step disabled and
// nulls filled with "N/A"
func DefaultCleaningConfig() CleaningConfig {
	return CleaningConfig{
		MissingStrategy:  FillNA,
		FuzzyCutoff:      DefaultFuzzyCutoff,
		AnomalyThreshold: DefaultAnomalyThreshold,
		AnomalyMethod:    AnomalyZScore,
	}
}

// WithDefaults fills unset tunables with their defaults
func (c CleaningConfig) WithDefaults() CleaningConfig {
	if c.MissingStrategy == "" {
		c.MissingStrategy = FillNA
	}
	if c.FuzzyCutoff == 0 {
		c.FuzzyCutoff = DefaultFuzzyCutoff
	}
	if c.AnomalyThreshold == 0 {
		c.AnomalyThreshold = DefaultAnomalyThreshold
	}
	if c.AnomalyMethod == "" {
		c.AnomalyMethod = AnomalyZScore
	}
	return c
}

// Validate ensures the config can drive a cleaning run
func (c CleaningConfig) Validate() error {
	if _, err := ParseMissingStrategy(string(c.MissingStrategy)); err != nil {
		return err
	}
	if c.FuzzyCutoff <= 0 || c.FuzzyCutoff > 1 {
		return errors.New("fuzzy cutoff must be in (0, 1]")
	}
	if c.AnomalyThreshold <= 0 {
		return errors.New("anomaly threshold must be positive")
	}
	switch c.AnomalyMethod {
	case AnomalyZScore, AnomalyRobust:
	default:
		return fmt.Errorf("unknown anomaly method %q", c.AnomalyMethod)
	}
	return nil
}

// EnabledSteps lists the steps this config runs, in pipeline order
func (c CleaningConfig) EnabledSteps() []string {
	steps := []string{StepImpute}
	flags := []struct {
		on   bool
		step string
	}{
		{c.RemoveDuplicates, StepRemoveDuplicates},
		{c.StandardizeColumns, StepStandardizeColumns},
		{c.NormalizeText, StepNormalizeText},
		{c.FixDates, StepFixDates},
		{c.ValidateEmails, StepValidateEmails},
		{c.FuzzyStandardize, StepFuzzyStandardize},
		{c.DetectAnomalies, StepDetectAnomalies},
	}
	for _, f := range flags {
		if f.on {
			steps = append(steps, f.step)
		}
	}
	return steps
}
