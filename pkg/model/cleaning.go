// pkg/model/cleaning.go
package model

import "fmt"

// Step names, in pipeline order
const (
	StepImpute             = "impute_missing"
	StepRemoveDuplicates   = "remove_duplicates"
	StepStandardizeColumns = "standardize_columns"
	StepNormalizeText      = "normalize_text"
	StepFixDates           = "fix_dates"
	StepValidateEmails     = "validate_emails"
	StepFuzzyStandardize   = "fuzzy_standardize"
	StepDetectAnomalies    = "detect_anomalies"
)

// StepReport describes what one cleaning step did to one column.
// Column is empty for row-level steps.
type StepReport struct {
	Step         string `json:"step"`
	Column       string `json:"column,omitempty"`
	CellsChanged int    `json:"cells_changed"`
	RowsRemoved  int    `json:"rows_removed"`
	Flagged      int    `json:"flagged,omitempty"`
	Skipped      bool   `json:"skipped"`
	Reason       string `json:"reason,omitempty"`
}

// Skip marks the report as a documented no-op
func (r StepReport) Skip(reason string) StepReport {
	r.Skipped = true
	r.Reason = reason
	return r
}

// String returns a formatted step description
func (r StepReport) String() string {
	target := r.Step
	if r.Column != "" {
		target = fmt.Sprintf("%s[%s]", r.Step, r.Column)
	}
	if r.Skipped {
		return fmt.Sprintf("%s skipped: %s", target, r.Reason)
	}
	return fmt.Sprintf("%s: %d cells changed, %d rows removed", target, r.CellsChanged, r.RowsRemoved)
}
