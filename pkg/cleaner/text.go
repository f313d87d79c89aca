// pkg/cleaner/text.go
package cleaner

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// NormalizeText title-cases every text column except email-like ones
func NormalizeText(ds *model.Dataset) []model.StepReport {
	caser := cases.Title(language.Und)

	var reports []model.StepReport
	for _, col := range ds.Columns {
		report := model.StepReport{Step: model.StepNormalizeText, Column: col.Name}
		switch {
		case col.IsNumeric():
			continue
		case col.IsEmailLike():
			reports = append(reports, report.Skip("email column"))
			continue
		}
		report.CellsChanged = transformColumn(col, func(s string) string {
			return titleCase(caser, s)
		})
		reports = append(reports, report)
	}
	return reports
}

// TitleCase trims, lowercases and capitalizes the first letter of each word
func TitleCase(s string) string {
	return titleCase(cases.Title(language.Und), s)
}

func titleCase(caser cases.Caser, s string) string {
	return caser.String(strings.ToLower(strings.TrimSpace(s)))
}
