// pkg/metrics/report.go
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// Tone decides how a positive delta is described
type Tone int

const (
	// ToneNeutral reports growth as "added"
	ToneNeutral Tone = iota
	// ToneGood reports a reduction of problems as "fixed"
	ToneGood
	// ToneBad reports problems as "detected"
	ToneBad
)

// StatusText describes a delta: positive values are "N fixed", "N detected"
// or "N added" depending on tone, negative values "N changed".
func StatusText(delta int, tone Tone) string {
	switch {
	case delta > 0:
		switch tone {
		case ToneGood:
			return fmt.Sprintf("%d fixed", delta)
		case ToneBad:
			return fmt.Sprintf("%d detected", delta)
		default:
			return fmt.Sprintf("%d added", delta)
		}
	case delta < 0:
		return fmt.Sprintf("%d changed", -delta)
	default:
		return "unchanged"
	}
}

// SummaryLine is one metric of a run summary
type SummaryLine struct {
	Label  string
	Value  int
	Status string
	// Ratio is in [0, 1]
	Ratio float64
}

// Summary is the before/after overview of one cleaning run
type Summary struct {
	Lines    []SummaryLine
	Duration time.Duration
}

// NewSummary builds the four summary lines of a run
func NewSummary(m model.CleaningMetrics, duration time.Duration) Summary {
	return Summary{
		Duration: duration,
		Lines: []SummaryLine{
			{
				Label:  "Total Rows",
				Value:  m.RowsAfter,
				Status: StatusText(m.RowsDelta(), ToneNeutral),
				Ratio:  getRatio(float64(m.RowsAfter), float64(max(m.RowsBefore, 1))),
			},
			{
				Label:  "Null Values",
				Value:  m.NullsAfter,
				Status: StatusText(m.NullsFixed(), ToneGood),
				Ratio:  getRatio(float64(m.NullsFixed()), float64(m.NullsBefore)),
			},
			{
				Label:  "Duplicates",
				Value:  m.DuplicatesAfter,
				Status: StatusText(m.DuplicatesFixed(), ToneGood),
				Ratio:  getRatio(float64(m.DuplicatesFixed()), float64(m.DuplicatesBefore)),
			},
			{
				Label:  "Anomalies Detected",
				Value:  m.AnomaliesDetected,
				Status: StatusText(m.AnomaliesDetected, ToneBad),
				Ratio:  getRatio(float64(m.AnomaliesDetected), float64(max(m.RowsAfter, 1))),
			},
		},
	}
}

// Render formats the summary as a plain text report
func (s Summary) Render() string {
	var b strings.Builder
	b.WriteString("Cleaning Summary\n================\n")
	for _, line := range s.Lines {
		fmt.Fprintf(&b, "%-20s %8d  %-14s %5.1f%%\n",
			line.Label+":", line.Value, line.Status, line.Ratio*100)
	}
	fmt.Fprintf(&b, "%-20s %8s\n", "Duration:", formatDuration(s.Duration))
	return b.String()
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// getRatio safely divides, avoiding division by zero, and clamps to [0, 1]
func getRatio(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	r := value / total
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
