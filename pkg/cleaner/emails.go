// pkg/cleaner/emails.go
package cleaner

import (
	"regexp"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// InvalidEmail replaces malformed email values
const InvalidEmail = "invalid@example.com"

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// IsValidEmail reports whether s looks like local@domain.tld
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateEmails replaces malformed values in every column whose name
// contains "email". The original value is discarded.
func ValidateEmails(ds *model.Dataset) []model.StepReport {
	var reports []model.StepReport
	for _, col := range ds.Columns {
		if !col.IsEmailLike() {
			continue
		}
		report := model.StepReport{Step: model.StepValidateEmails, Column: col.Name}
		report.CellsChanged = transformColumn(col, func(s string) string {
			if IsValidEmail(s) {
				return s
			}
			return InvalidEmail
		})
		if report.CellsChanged > 0 {
			col.Kind = model.KindText
		}
		reports = append(reports, report)
	}
	return reports
}
