// pkg/model/metrics.go
package model

// CleaningMetrics are the before/after counts of one cleaning run
type CleaningMetrics struct {
	RowsBefore        int `json:"rows_before" db:"rows_before"`
	RowsAfter         int `json:"rows_after" db:"rows_after"`
	NullsBefore       int `json:"nulls_before" db:"nulls_before"`
	NullsAfter        int `json:"nulls_after" db:"nulls_after"`
	DuplicatesBefore  int `json:"duplicates_before" db:"duplicates_before"`
	DuplicatesAfter   int `json:"duplicates_after" db:"duplicates_after"`
	AnomaliesDetected int `json:"anomalies_detected" db:"anomalies_detected"`
}

// RowsDelta is rows after minus rows before
func (m CleaningMetrics) RowsDelta() int {
	return m.RowsAfter - m.RowsBefore
}

// NullsFixed is nulls before minus nulls after
func (m CleaningMetrics) NullsFixed() int {
	return m.NullsBefore - m.NullsAfter
}

// DuplicatesFixed is duplicates before minus duplicates after
func (m CleaningMetrics) DuplicatesFixed() int {
	return m.DuplicatesBefore - m.DuplicatesAfter
}
