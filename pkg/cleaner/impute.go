// pkg/cleaner/impute.go
package cleaner

import (
	"fmt"
	"sort"

	"github.com/David-Botos/raw-to-ready/pkg/converter"
	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// MissingSentinel replaces nulls under the fill_na strategy
const MissingSentinel = "N/A"

// ImputeMissing fills or drops null cells of every column that has any,
// in column order. drop_rows is applied column by column, so rows removed
// for an earlier column are gone before later columns are examined.
func ImputeMissing(ds *model.Dataset, strategy model.MissingStrategy) ([]model.StepReport, error) {
	var reports []model.StepReport

	for _, col := range ds.Columns {
		nulls := col.NullCount()
		if nulls == 0 {
			continue
		}
		report := model.StepReport{Step: model.StepImpute, Column: col.Name}

		if nulls == col.Len() && strategy != model.FillNA && strategy != model.DropRows {
			return reports, &ImputationError{Column: col.Name, Strategy: strategy}
		}

		switch strategy {
		case model.FillNA:
			report.CellsChanged = fillNulls(col, MissingSentinel)
			col.Kind = model.KindText

		case model.FillMean, model.FillMedian:
			if !col.IsNumeric() {
				reports = append(reports, report.Skip("column is not numeric"))
				continue
			}
			values, _ := numericValues(col)
			fill := mean(values)
			if strategy == model.FillMedian {
				fill = median(values)
			}
			report.CellsChanged = fillNulls(col, converter.FormatNumber(fill))

		case model.FillMode:
			report.CellsChanged = fillNulls(col, mode(col))

		case model.DropRows:
			report.RowsRemoved = ds.KeepRows(func(i int) bool {
				return col.Cells[i].Valid
			})

		default:
			return reports, fmt.Errorf("unknown missing value strategy %q", strategy)
		}

		reports = append(reports, report)
	}

	return reports, nil
}

func fillNulls(col *model.Column, value string) int {
	filled := 0
	for i, cell := range col.Cells {
		if !cell.Valid {
			col.Cells[i] = model.Value(value)
			filled++
		}
	}
	return filled
}

// mode returns the most frequent non-null value. Ties go to the smallest
// value: numeric order for numeric columns, byte order otherwise.
func mode(col *model.Column) string {
	type candidate struct {
		value string
		num   float64
		count int
	}

	counts := make(map[string]*candidate)
	for _, cell := range col.Cells {
		if !cell.Valid {
			continue
		}
		key := cellKey(col, cell)
		c, ok := counts[key]
		if !ok {
			c = &candidate{value: cell.String}
			if col.IsNumeric() {
				c.num, _ = converter.ToFloat(cell.String)
			}
			counts[key] = c
		}
		c.count++
	}

	candidates := make([]*candidate, 0, len(counts))
	for _, c := range counts {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if col.IsNumeric() && a.num != b.num {
			return a.num < b.num
		}
		return a.value < b.value
	})

	best := candidates[0]
	if col.IsNumeric() {
		return converter.FormatNumber(best.num)
	}
	return best.value
}
