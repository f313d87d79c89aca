package cleaner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/raw-to-ready/pkg/converter"
	"github.com/David-Botos/raw-to-ready/pkg/model"
)

type recordingObserver struct {
	steps []string
	runs  int
	err   error
}

func (o *recordingObserver) ObserveStep(step string, _ time.Duration) {
	o.steps = append(o.steps, step)
}

func (o *recordingObserver) ObserveRun(_ *Result, err error) {
	o.runs++
	o.err = err
}

func newCleaner(t *testing.T, opts ...Option) *DataCleaner {
	t.Helper()
	c, err := NewDataCleaner(zaptest.NewLogger(t), opts...)
	require.NoError(t, err)
	return c
}

func TestNewDataCleanerRequiresLogger(t *testing.T) {
	_, err := NewDataCleaner(nil)
	assert.Error(t, err)
}

func TestCleanScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cfg   func(*model.CleaningConfig)
		check func(t *testing.T, res *Result)
	}{
		{
			name:  "duplicate rows",
			input: "id,name\n1,A\n1,A\n2,B\n",
			cfg:   func(c *model.CleaningConfig) { c.RemoveDuplicates = true },
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 2, res.Dataset.RowCount())
				assert.Equal(t, 1, res.Metrics.DuplicatesBefore)
				assert.Equal(t, 0, res.Metrics.DuplicatesAfter)
			},
		},
		{
			name:  "malformed email",
			input: "email\nnot-an-email\n",
			cfg:   func(c *model.CleaningConfig) { c.ValidateEmails = true },
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, InvalidEmail, res.Dataset.Column("email").Cells[0].String)
			},
		},
		{
			name:  "numeric outlier",
			input: "amount\n10\n10\n10\n10\n1000\n",
			cfg: func(c *model.CleaningConfig) {
				c.DetectAnomalies = true
				c.AnomalyMethod = model.AnomalyRobust
				c.AnomalyThreshold = 3
			},
			check: func(t *testing.T, res *Result) {
				require.Len(t, res.Anomalies.Records, 1)
				assert.Equal(t, "1000", res.Anomalies.Records[0].Value)
				assert.Equal(t, 4, res.Anomalies.Records[0].RowIndex)
				assert.Equal(t, 1, res.Metrics.AnomaliesDetected)
			},
		},
		{
			name:  "mixed date formats",
			input: "order_date\n2023-01-05\n01/02/23\n\"Feb 1, 2023\"\n",
			cfg:   func(c *model.CleaningConfig) { c.FixDates = true },
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, []string{"2023-01-05", "2023-02-01", "2023-02-01"}, strs(res.Dataset.Column("order_date")))
			},
		},
		{
			name:  "near-duplicate text",
			input: "city\nNYC\nNew York City\nnyc\n",
			cfg:   func(c *model.CleaningConfig) { c.FuzzyStandardize = true },
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, []string{"NYC", "NYC", "NYC"}, strs(res.Dataset.Column("city")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := readCSV(t, tt.input)
			cfg := model.DefaultCleaningConfig()
			tt.cfg(&cfg)

			res, err := newCleaner(t).Clean(context.Background(), ds, cfg)
			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestCleanFullPipeline(t *testing.T) {
	input := strings.Join([]string{
		" Full Name ,Email Address,Signup Date,Score",
		"  alice SMITH ,alice@example.com,01/02/23,10",
		"bob jones,bob-at-example,\"Feb 1, 2023\",12",
		"  alice SMITH ,alice@example.com,01/02/23,10",
		"Alice Smith,,2023.03.04,",
	}, "\n") + "\n"
	ds := readCSV(t, input)

	cfg := model.CleaningConfig{
		MissingStrategy:    model.FillMode,
		RemoveDuplicates:   true,
		StandardizeColumns: true,
		NormalizeText:      true,
		FixDates:           true,
		ValidateEmails:     true,
		FuzzyStandardize:   true,
		DetectAnomalies:    true,
	}

	res, err := newCleaner(t).Clean(context.Background(), ds, cfg)
	require.NoError(t, err)

	out := res.Dataset
	assert.Equal(t, []string{"full_name", "email_address", "signup_date", "score"}, out.ColumnNames())
	assert.Equal(t, 3, out.RowCount())
	assert.Equal(t, []int{0, 1, 3}, out.RowIDs)

	assert.Equal(t, []string{"Alice Smith", "Bob Jones", "Alice Smith"}, strs(out.Column("full_name")))
	assert.Equal(t, []string{"alice@example.com", InvalidEmail, "alice@example.com"}, strs(out.Column("email_address")))
	assert.Equal(t, []string{"2023-02-01", "2023-02-01", "2023-03-04"}, strs(out.Column("signup_date")))
	assert.Equal(t, []string{"10", "12", "10"}, strs(out.Column("score")))

	assert.Equal(t, model.CleaningMetrics{
		RowsBefore:       4,
		RowsAfter:        3,
		NullsBefore:      2,
		NullsAfter:       0,
		DuplicatesBefore: 1,
		DuplicatesAfter:  0,
	}, res.Metrics)
	assert.NotEmpty(t, res.Steps)
	assert.Empty(t, res.Warnings)

	// the input dataset is untouched
	assert.Equal(t, 4, ds.RowCount())
	assert.Equal(t, " Full Name ", ds.Columns[0].Name)
	assert.Equal(t, "  alice SMITH ", ds.Columns[0].Cells[0].String)
}

func TestCleanDoesNotMutateInputOnDropRows(t *testing.T) {
	ds := readCSV(t, "a,b\n1,\n2,x\n")
	cfg := model.DefaultCleaningConfig()
	cfg.MissingStrategy = model.DropRows

	res, err := newCleaner(t).Clean(context.Background(), ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dataset.RowCount())
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, 1, res.Metrics.NullsBefore)
	assert.Equal(t, 0, res.Metrics.NullsAfter)
}

func TestCleanImputationErrorPropagates(t *testing.T) {
	ds := readCSV(t, "a,b\n1,\n2,\n")
	cfg := model.DefaultCleaningConfig()
	cfg.MissingStrategy = model.FillMedian

	observer := &recordingObserver{}
	res, err := newCleaner(t, WithObserver(observer)).Clean(context.Background(), ds, cfg)
	require.Error(t, err)
	assert.Nil(t, res)

	var impErr *ImputationError
	require.True(t, errors.As(err, &impErr))
	assert.Equal(t, "b", impErr.Column)
	assert.Equal(t, 1, observer.runs)
	assert.Equal(t, err, observer.err)
}

func TestCleanRejectsInvalidConfig(t *testing.T) {
	ds := readCSV(t, "a\n1\n")
	cfg := model.DefaultCleaningConfig()
	cfg.MissingStrategy = "guess"

	_, err := newCleaner(t).Clean(context.Background(), ds, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCleanCanceled(t *testing.T) {
	ds := readCSV(t, "a\n1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCleaner(t).Clean(ctx, ds, model.DefaultCleaningConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanObserverSeesEnabledSteps(t *testing.T) {
	ds := readCSV(t, "a,b\n1,x\n1,x\n")
	cfg := model.DefaultCleaningConfig()
	cfg.RemoveDuplicates = true
	cfg.DetectAnomalies = true

	observer := &recordingObserver{}
	_, err := newCleaner(t, WithObserver(observer)).Clean(context.Background(), ds, cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.EnabledSteps(), observer.steps)
	assert.Equal(t, 1, observer.runs)
	assert.NoError(t, observer.err)
}

func TestCleanSurfacesColumnCollisions(t *testing.T) {
	ds := readCSV(t, "Name,name \nA,B\n")
	cfg := model.DefaultCleaningConfig()
	cfg.StandardizeColumns = true

	res, err := newCleaner(t).Clean(context.Background(), ds, cfg)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `"name"`)
}

func TestCleanIsDeterministic(t *testing.T) {
	input := "city,value\nNYC,1\nnyc,2\nNew York City,3\nBoston,\nboston,5\n"
	cfg := model.DefaultCleaningConfig()
	cfg.MissingStrategy = model.FillMean
	cfg.FuzzyStandardize = true
	cfg.NormalizeText = true

	first, err := newCleaner(t).Clean(context.Background(), readCSV(t, input), cfg)
	require.NoError(t, err)
	second, err := newCleaner(t).Clean(context.Background(), readCSV(t, input), cfg)
	require.NoError(t, err)

	assert.True(t, first.Dataset.Equal(second.Dataset))
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestCleanedDatasetRoundTrips(t *testing.T) {
	input := "Name,Email,Joined Date,Score\nann lee,ann@x.io,01/02/23,1.5\nBOB,bad,,\n"
	cfg := model.CleaningConfig{
		MissingStrategy:    model.FillNA,
		StandardizeColumns: true,
		NormalizeText:      true,
		FixDates:           true,
		ValidateEmails:     true,
	}

	res, err := newCleaner(t).Clean(context.Background(), readCSV(t, input), cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, converter.WriteCSV(&buf, res.Dataset))
	decoded, err := converter.ReadCSV(&buf, converter.DefaultOptions())
	require.NoError(t, err)

	assert.True(t, res.Dataset.Equal(decoded))
}

func TestCleanLogsRun(t *testing.T) {
	logger := zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
	c, err := NewDataCleaner(logger)
	require.NoError(t, err)

	_, err = c.Clean(context.Background(), readCSV(t, "a\n1\n"), model.DefaultCleaningConfig())
	assert.NoError(t, err)
}
