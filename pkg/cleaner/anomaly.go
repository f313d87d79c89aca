// pkg/cleaner/anomaly.go
package cleaner

import (
	"math"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

const (
	// madScale makes the median absolute deviation consistent with the
	// standard deviation of a normal distribution
	madScale = 0.6745
	// meanADScale is used in place of madScale when the MAD is zero
	meanADScale = 1.253314
)

// DetectAnomalies flags numeric cells whose |z| exceeds threshold.
// Columns without spread are skipped. Records carry the row ids assigned at
// decode time, so they stay meaningful after rows were removed.
func DetectAnomalies(ds *model.Dataset, method model.AnomalyMethod, threshold float64) (model.AnomalyReport, []model.StepReport) {
	var report model.AnomalyReport
	var steps []model.StepReport

	for _, col := range ds.Columns {
		if !col.IsNumeric() {
			continue
		}
		step := model.StepReport{Step: model.StepDetectAnomalies, Column: col.Name}

		values, positions := numericValues(col)
		if len(values) < 2 || constant(values) {
			steps = append(steps, step.Skip("column has zero variance"))
			continue
		}

		score, ok := scorer(method, values)
		if !ok {
			steps = append(steps, step.Skip("column has zero spread"))
			continue
		}

		for i, v := range values {
			z := score(v)
			if math.Abs(z) <= threshold {
				continue
			}
			pos := positions[i]
			report.Add(model.AnomalyRecord{
				RowIndex:   ds.RowIDs[pos],
				ColumnName: col.Name,
				Value:      col.Cells[pos].String,
				ZScore:     z,
				FlagReason: model.AnomalyReason,
			})
			step.Flagged++
		}
		steps = append(steps, step)
	}

	return report, steps
}

// scorer returns the z-score function for a column, or false when the
// column's spread is zero under the chosen method
func scorer(method model.AnomalyMethod, values []float64) (func(float64) float64, bool) {
	switch method {
	case model.AnomalyRobust:
		med := median(values)
		deviations := make([]float64, len(values))
		for i, v := range values {
			deviations[i] = math.Abs(v - med)
		}
		if mad := median(deviations); mad > 0 {
			return func(v float64) float64 { return madScale * (v - med) / mad }, true
		}
		if meanAD := mean(deviations); meanAD > 0 {
			return func(v float64) float64 { return (v - med) / (meanADScale * meanAD) }, true
		}
		return nil, false

	default:
		m := mean(values)
		std := sampleStdDev(values, m)
		if std == 0 || math.IsNaN(std) {
			return nil, false
		}
		return func(v float64) float64 { return (v - m) / std }, true
	}
}
