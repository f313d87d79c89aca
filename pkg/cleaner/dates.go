// pkg/cleaner/dates.go
package cleaner

import (
	"time"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// DateLayout is the canonical output layout
const DateLayout = "2006-01-02"

// dateLayouts are tried in order; the first that parses wins.
// YYYY-MM-DD, DD/MM/YY, DD/MM/YYYY, Mon D, YYYY, YYYY.MM.DD
var dateLayouts = []string{
	"2006-1-2",
	"2/1/06",
	"2/1/2006",
	"Jan 2, 2006",
	"2006.1.2",
}

// NormalizeDate renders s as YYYY-MM-DD. ok is false when no layout parses.
func NormalizeDate(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return s, false
}

// FixDates normalizes every column whose name contains "date". Values that
// match no layout are left as they are.
func FixDates(ds *model.Dataset) []model.StepReport {
	var reports []model.StepReport
	for _, col := range ds.Columns {
		if !col.IsDateLike() {
			continue
		}
		report := model.StepReport{Step: model.StepFixDates, Column: col.Name}
		if col.IsNumeric() {
			reports = append(reports, report.Skip("column is numeric"))
			continue
		}
		report.CellsChanged = transformColumn(col, func(s string) string {
			out, _ := NormalizeDate(s)
			return out
		})
		reports = append(reports, report)
	}
	return reports
}
