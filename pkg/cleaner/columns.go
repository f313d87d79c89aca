// pkg/cleaner/columns.go
package cleaner

import (
	"fmt"
	"strings"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// StandardizeColumnName trims, lowercases and replaces spaces with underscores
func StandardizeColumnName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// StandardizeColumns renames every column in place. Names that collapse onto
// the same standardized name are returned as warnings; the later column
// shadows the earlier one in name lookups.
func StandardizeColumns(ds *model.Dataset) (model.StepReport, []string) {
	report := model.StepReport{Step: model.StepStandardizeColumns}
	var warnings []string

	owners := make(map[string]string, ds.ColumnCount())
	for i, col := range ds.Columns {
		original := col.Name
		name := StandardizeColumnName(original)
		if name != original {
			ds.Rename(i, name)
			report.CellsChanged++
		}
		if prev, ok := owners[name]; ok {
			warnings = append(warnings,
				fmt.Sprintf("columns %q and %q both standardize to %q", prev, original, name))
		}
		owners[name] = original
	}

	return report, warnings
}
