// pkg/cleaner/fuzzy.go
package cleaner

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// Cluster maps every distinct value to its canonical form in a single
// greedy pass. Values are visited in first-seen order and compared against
// every value seen before them; the most similar one at or above cutoff
// lends its canonical form, ties going to the earliest. Otherwise the value
// is its own canonical form. Transitive near-matches collapse onto whichever
// value appeared first. A cutoff of 1 merges only values with equal
// comparison keys; the acronym rule needs a lower cutoff.
func Cluster(values []string, cutoff float64) map[string]string {
	mapping := make(map[string]string, len(values))
	var keys []string
	var compare []string
	acronyms := cutoff < 1

	for _, v := range values {
		if _, ok := mapping[v]; ok {
			continue
		}
		key := comparisonKey(v)

		best, bestScore := -1, 0.0
		for i, seen := range keys {
			score := similarity(v, key, seen, compare[i], acronyms)
			if score >= cutoff && score > bestScore {
				best, bestScore = i, score
			}
		}

		if best >= 0 {
			mapping[v] = mapping[keys[best]]
		} else {
			mapping[v] = v
		}
		keys = append(keys, v)
		compare = append(compare, key)
	}

	return mapping
}

// Similarity scores two values in [0, 1]
func Similarity(a, b string) float64 {
	return similarity(a, comparisonKey(a), b, comparisonKey(b), true)
}

func similarity(a, keyA, b, keyB string, acronyms bool) float64 {
	if a == b {
		return 1
	}
	if keyA == "" || keyB == "" {
		keyA, keyB = strings.ToLower(a), strings.ToLower(b)
	}
	if keyA == keyB {
		return 1
	}
	if acronyms && (isAcronymOf(a, keyB) || isAcronymOf(b, keyA)) {
		return 1
	}
	return difflib.NewMatcher(splitRunes(keyA), splitRunes(keyB)).Ratio()
}

// comparisonKey case-folds, drops punctuation and collapses whitespace
func comparisonKey(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// minAcronymLen keeps initials and short names such as "Al" or "Ed" out of
// the acronym rule
const minAcronymLen = 3

// isAcronymOf reports whether short, an all-uppercase token, spells the
// initials of the words of longKey
func isAcronymOf(short, longKey string) bool {
	if len([]rune(short)) < minAcronymLen {
		return false
	}
	for _, r := range short {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	words := strings.Fields(longKey)
	if len(words) < 2 {
		return false
	}
	var initials strings.Builder
	for _, w := range words {
		initials.WriteRune([]rune(w)[0])
	}
	return initials.String() == strings.ToLower(short)
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// FuzzyStandardize replaces every value of every text column with its
// canonical form. Values are trimmed first; nulls are left as they are.
func FuzzyStandardize(ds *model.Dataset, cutoff float64) []model.StepReport {
	var reports []model.StepReport
	for _, col := range ds.Columns {
		if col.IsNumeric() {
			continue
		}
		report := model.StepReport{Step: model.StepFuzzyStandardize, Column: col.Name}

		var values []string
		for _, cell := range col.Cells {
			if cell.Valid {
				values = append(values, strings.TrimSpace(cell.String))
			}
		}
		mapping := Cluster(values, cutoff)

		report.CellsChanged = transformColumn(col, func(s string) string {
			return mapping[strings.TrimSpace(s)]
		})
		reports = append(reports, report)
	}
	return reports
}
