// pkg/model/metadata.go
package model

import "strings"

// DatasetMetadata contains the structure information for a dataset
type DatasetMetadata struct {
	Name    string           // Source name (file or query)
	Rows    int              // Row count
	Columns []ColumnMetadata // Column summaries in dataset order
}

// ColumnMetadata summarizes one column
type ColumnMetadata struct {
	Name     string   // Column name
	Kind     Kind     // Semantic kind
	Nulls    int      // Null cell count
	Distinct int      // Distinct non-null values
	Samples  []string // First few distinct non-null values
}

// GetColumnByName returns a column summary by name (case-insensitive)
// Returns nil if column not found
func (dm *DatasetMetadata) GetColumnByName(name string) *ColumnMetadata {
	normalizedName := strings.ToLower(name)
	for i, col := range dm.Columns {
		if strings.ToLower(col.Name) == normalizedName {
			return &dm.Columns[i]
		}
	}
	return nil
}

// Completeness is the share of non-null cells in the column
func (cm ColumnMetadata) Completeness(rows int) float64 {
	if rows == 0 {
		return 1
	}
	return float64(rows-cm.Nulls) / float64(rows)
}
