// pkg/cleaner/operations.go
package cleaner

import (
	"strconv"
	"strings"

	"github.com/David-Botos/raw-to-ready/pkg/converter"
	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// transformColumn applies fn to every non-null cell and reports how many
// cells changed. Nulls are left untouched.
func transformColumn(col *model.Column, fn func(string) string) int {
	changed := 0
	for i, cell := range col.Cells {
		if !cell.Valid {
			continue
		}
		next := fn(cell.String)
		if next != cell.String {
			col.Cells[i] = model.Value(next)
			changed++
		}
	}
	return changed
}

// cellKey renders a cell for equality checks. Numeric cells compare by value
// so that "1" and "1.0" are equal.
func cellKey(col *model.Column, cell model.Cell) string {
	if !cell.Valid {
		return "\x00"
	}
	if col.IsNumeric() {
		if v, ok := converter.ToFloat(cell.String); ok {
			return "\x01" + converter.FormatNumber(v)
		}
	}
	return "\x01" + cell.String
}

// rowKey renders a full row for equality checks
func rowKey(ds *model.Dataset, row int) string {
	var b strings.Builder
	for _, col := range ds.Columns {
		key := cellKey(col, col.Cells[row])
		b.WriteString(strconv.Itoa(len(key)))
		b.WriteByte(':')
		b.WriteString(key)
	}
	return b.String()
}

// numericValues returns the parsed non-null values of a column and the
// positions they came from
func numericValues(col *model.Column) ([]float64, []int) {
	values := make([]float64, 0, len(col.Cells))
	positions := make([]int, 0, len(col.Cells))
	for i, cell := range col.Cells {
		if !cell.Valid {
			continue
		}
		if v, ok := converter.ToFloat(cell.String); ok {
			values = append(values, v)
			positions = append(positions, i)
		}
	}
	return values, positions
}
