// pkg/cleaner/duplicates.go
package cleaner

import "github.com/David-Botos/raw-to-ready/pkg/model"

// RemoveDuplicates drops rows identical to an earlier row across all
// columns, keeping the first occurrence. Null equals null.
func RemoveDuplicates(ds *model.Dataset) model.StepReport {
	seen := make(map[string]struct{}, ds.RowCount())
	removed := ds.KeepRows(func(i int) bool {
		key := rowKey(ds, i)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
	return model.StepReport{Step: model.StepRemoveDuplicates, RowsRemoved: removed}
}

// CountDuplicates counts rows identical to an earlier row
func CountDuplicates(ds *model.Dataset) int {
	seen := make(map[string]struct{}, ds.RowCount())
	dups := 0
	for i := 0; i < ds.RowCount(); i++ {
		key := rowKey(ds, i)
		if _, dup := seen[key]; dup {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
