// pkg/converter/describe.go
package converter

import (
	"fmt"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

const maxSamples = 3

// Describe summarizes every column of the dataset
func Describe(name string, ds *model.Dataset) *model.DatasetMetadata {
	meta := &model.DatasetMetadata{
		Name:    name,
		Rows:    ds.RowCount(),
		Columns: make([]model.ColumnMetadata, len(ds.Columns)),
	}

	for i, col := range ds.Columns {
		seen := make(map[string]struct{})
		var samples []string
		for _, cell := range col.Cells {
			if !cell.Valid {
				continue
			}
			if _, ok := seen[cell.String]; ok {
				continue
			}
			seen[cell.String] = struct{}{}
			if len(samples) < maxSamples {
				samples = append(samples, cell.String)
			}
		}

		meta.Columns[i] = model.ColumnMetadata{
			Name:     col.Name,
			Kind:     col.SemanticKind(),
			Nulls:    col.NullCount(),
			Distinct: len(seen),
			Samples:  samples,
		}
	}

	return meta
}

// Suggest examines a dataset summary and suggests cleaning steps
func Suggest(meta *model.DatasetMetadata) []string {
	var suggestions []string

	// Check for columns with missing values
	missing := 0
	for _, col := range meta.Columns {
		if col.Nulls > 0 {
			missing++
		}
	}
	if missing > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Found %d columns with missing values; choose a missing value strategy", missing))
	}

	// Check for date and email columns stored as text
	dates, emails := 0, 0
	for _, col := range meta.Columns {
		switch col.Kind {
		case model.KindDate:
			dates++
		case model.KindEmail:
			emails++
		}
	}
	if dates > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Found %d date columns that could be normalized with fix_dates", dates))
	}
	if emails > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Found %d email columns that could be checked with validate_emails", emails))
	}

	// Check for low-cardinality text columns
	categorical := 0
	for _, col := range meta.Columns {
		if col.Kind == model.KindText && col.Distinct > 1 && col.Distinct*2 <= meta.Rows-col.Nulls {
			categorical++
		}
	}
	if categorical > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Found %d categorical text columns where fuzzy_standardize may merge spelling variants", categorical))
	}

	return suggestions
}
