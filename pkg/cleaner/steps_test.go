package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/raw-to-ready/pkg/converter"
	"github.com/David-Botos/raw-to-ready/pkg/model"
)

func readCSV(t *testing.T, input string) *model.Dataset {
	t.Helper()
	ds, err := converter.ReadCSV(strings.NewReader(input), converter.DefaultOptions())
	require.NoError(t, err)
	return ds
}

func strs(col *model.Column) []string {
	out := make([]string, len(col.Cells))
	for i, cell := range col.Cells {
		if cell.Valid {
			out[i] = cell.String
		} else {
			out[i] = "<null>"
		}
	}
	return out
}

func TestImputeFillNA(t *testing.T) {
	ds := readCSV(t, "age,name\n30,a\n,\n40,c\n")

	reports, err := ImputeMissing(ds, model.FillNA)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, 0, ds.Column("age").NullCount())
	assert.Equal(t, 0, ds.Column("name").NullCount())
	assert.Equal(t, []string{"30", "N/A", "40"}, strs(ds.Column("age")))
	assert.Equal(t, model.KindText, ds.Column("age").Kind)
	assert.Equal(t, 1, reports[0].CellsChanged)
}

func TestImputeFillMeanAndMedian(t *testing.T) {
	tests := []struct {
		name     string
		strategy model.MissingStrategy
		want     string
	}{
		{"mean", model.FillMean, "4"},
		{"median", model.FillMedian, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := readCSV(t, "v,label\n1,x\n,y\n2,\n3,z\n10,w\n")

			reports, err := ImputeMissing(ds, tt.strategy)
			require.NoError(t, err)

			assert.Equal(t, tt.want, ds.Column("v").Cells[1].String)
			assert.Equal(t, model.KindNumeric, ds.Column("v").Kind)

			// text column is skipped, not an error
			assert.False(t, ds.Column("label").Cells[2].Valid)
			require.Len(t, reports, 2)
			assert.True(t, reports[1].Skipped)
		})
	}
}

func TestImputeFillMode(t *testing.T) {
	ds := readCSV(t, "n,city\n5,Paris\n3,Rome\n5,Rome\n3,Paris\n,\n")

	_, err := ImputeMissing(ds, model.FillMode)
	require.NoError(t, err)

	// ties break to the smallest value
	assert.Equal(t, "3", ds.Column("n").Cells[4].String)
	assert.Equal(t, "Paris", ds.Column("city").Cells[4].String)
}

func TestImputeFillModeNumericComparesByValue(t *testing.T) {
	ds := readCSV(t, "n,k\n1.0,a\n1,b\n2,c\n,d\n")

	_, err := ImputeMissing(ds, model.FillMode)
	require.NoError(t, err)
	assert.Equal(t, "1", ds.Column("n").Cells[3].String)
}

func TestImputeAllNullColumn(t *testing.T) {
	for _, strategy := range []model.MissingStrategy{model.FillMean, model.FillMedian, model.FillMode} {
		t.Run(string(strategy), func(t *testing.T) {
			ds := readCSV(t, "a,b\n1,\n2,\n")

			_, err := ImputeMissing(ds, strategy)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrImputation)

			var impErr *ImputationError
			require.ErrorAs(t, err, &impErr)
			assert.Equal(t, "b", impErr.Column)
			assert.Equal(t, strategy, impErr.Strategy)
		})
	}
}

func TestImputeAllNullColumnFillNA(t *testing.T) {
	ds := readCSV(t, "a,b\n1,\n2,\n")

	_, err := ImputeMissing(ds, model.FillNA)
	require.NoError(t, err)
	assert.Equal(t, []string{"N/A", "N/A"}, strs(ds.Column("b")))
}

func TestImputeDropRowsIsCumulative(t *testing.T) {
	ds := readCSV(t, "a,b,c\n1,x,\n,y,p\n3,,q\n4,z,r\n")

	reports, err := ImputeMissing(ds, model.DropRows)
	require.NoError(t, err)

	assert.Equal(t, 1, ds.RowCount())
	assert.Equal(t, []int{3}, ds.RowIDs)
	require.Len(t, reports, 3)
	assert.Equal(t, 1, reports[0].RowsRemoved)
	assert.Equal(t, 1, reports[1].RowsRemoved)
	assert.Equal(t, 1, reports[2].RowsRemoved)

	again, err := ImputeMissing(ds, model.DropRows)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 1, ds.RowCount())
}

func TestRemoveDuplicates(t *testing.T) {
	ds := readCSV(t, "id,name\n1,A\n1,A\n2,B\n1.0,A\n,\n,\n")
	assert.Equal(t, 3, CountDuplicates(ds))

	report := RemoveDuplicates(ds)
	assert.Equal(t, 3, report.RowsRemoved)
	assert.Equal(t, []int{0, 2, 4}, ds.RowIDs)
	assert.Equal(t, 0, CountDuplicates(ds))

	once := ds.Clone()
	RemoveDuplicates(ds)
	assert.True(t, once.Equal(ds))
}

func TestStandardizeColumnName(t *testing.T) {
	tests := map[string]string{
		"  First Name ": "first_name",
		"EMAIL":         "email",
		"already_done":  "already_done",
		"Sign Up Date":  "sign_up_date",
		"Tab\tName":     "tab\tname",
	}
	for in, want := range tests {
		got := StandardizeColumnName(in)
		assert.Equal(t, want, got)
		assert.Equal(t, got, StandardizeColumnName(got))
	}
}

func TestStandardizeColumnsCollision(t *testing.T) {
	ds := readCSV(t, "First Name,first name,Age\nA,B,1\n")

	report, warnings := StandardizeColumns(ds)
	assert.Equal(t, []string{"first_name", "first_name", "age"}, ds.ColumnNames())
	assert.Equal(t, 3, report.CellsChanged)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "first_name")

	// later column shadows the earlier one
	assert.Equal(t, "B", ds.Column("first_name").Cells[0].String)
}

func TestNormalizeText(t *testing.T) {
	ds := readCSV(t, "name,Email,score\n  jOHN smith ,John@X.com,1\n,A@B.com,2\n")

	reports := NormalizeText(ds)

	assert.Equal(t, []string{"John Smith", "<null>"}, strs(ds.Column("name")))
	assert.Equal(t, []string{"John@X.com", "A@B.com"}, strs(ds.Column("Email")))
	require.Len(t, reports, 2)
	assert.Equal(t, 1, reports[0].CellsChanged)
	assert.True(t, reports[1].Skipped)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "New York City", TitleCase("  NEW york city"))
	assert.Equal(t, "", TitleCase("   "))
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2023-01-05", "2023-01-05", true},
		{"2023-1-5", "2023-01-05", true},
		{"01/02/23", "2023-02-01", true},
		{"01/02/1999", "1999-02-01", true},
		{"Feb 1, 2023", "2023-02-01", true},
		{"feb 1, 2023", "2023-02-01", true},
		{"2023.03.04", "2023-03-04", true},
		{"31/02/23", "31/02/23", false},
		{"yesterday", "yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixDatesOnlyTouchesDateColumns(t *testing.T) {
	ds := readCSV(t, "Signup Date,note\n01/02/23,01/02/23\nnever,x\n,y\n")

	reports := FixDates(ds)

	assert.Equal(t, []string{"2023-02-01", "never", "<null>"}, strs(ds.Column("Signup Date")))
	assert.Equal(t, "01/02/23", ds.Column("note").Cells[0].String)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].CellsChanged)
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@sub.example.org"}
	invalid := []string{"not-an-email", "@b.com", "a@b", "a@@b.com", "a@b.", "a@b.c@d"}

	for _, s := range valid {
		assert.True(t, IsValidEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsValidEmail(s), s)
	}
}

func TestValidateEmails(t *testing.T) {
	ds := readCSV(t, "email,contact\nnot-an-email,nope\nok@example.com,x\n,y\n")

	reports := ValidateEmails(ds)

	assert.Equal(t, []string{"invalid@example.com", "ok@example.com", "<null>"}, strs(ds.Column("email")))
	assert.Equal(t, "nope", ds.Column("contact").Cells[0].String)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].CellsChanged)
}
