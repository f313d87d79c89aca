// cmd/clean.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/David-Botos/raw-to-ready/pkg/cleaner"
	"github.com/David-Botos/raw-to-ready/pkg/connector"
	"github.com/David-Botos/raw-to-ready/pkg/converter"
	"github.com/David-Botos/raw-to-ready/pkg/history"
	"github.com/David-Botos/raw-to-ready/pkg/metrics"
	"github.com/David-Botos/raw-to-ready/pkg/model"
	"github.com/David-Botos/raw-to-ready/pkg/profile"
)

type cleanOptions struct {
	missing            string
	removeDuplicates   bool
	standardizeColumns bool
	normalizeText      bool
	fixDates           bool
	validateEmails     bool
	fuzzy              bool
	fuzzyCutoff        float64
	detectAnomalies    bool
	anomalyMethod      string
	anomalyThreshold   float64

	profile      string
	out          string
	anomaliesOut string
	metricsFile  string
	source       string
	query        string
	record       bool
	owner        string
	describe     bool
}

func newCleanCmd(a *app) *cobra.Command {
	o := &cleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean [file.csv]",
		Short: "Clean a CSV file or the result of a SQL query",
		Example: `  rawready clean customers.csv --missing fill_mode --remove-duplicates --out clean.csv
  rawready clean --source snowflake --query "SELECT * FROM RAW.CUSTOMERS" --fix-dates --record --owner ann@example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && o.source == "" {
				return errors.New("specify a CSV file or --source")
			}
			if len(args) == 1 && o.source != "" {
				return errors.New("a CSV file and --source cannot be combined")
			}
			if o.source != "" && o.query == "" {
				return errors.New("--query is required with --source")
			}
			if o.record && o.owner == "" {
				return errors.New("--owner is required with --record")
			}
			return a.runClean(cmd, o, args)
		},
	}

	f := cmd.Flags()
	bindCleaningFlags(f, o)
	f.StringVar(&o.profile, "profile", "", "load cleaning options from a YAML profile; flags override it")
	f.StringVarP(&o.out, "out", "o", "-", "where to write the cleaned CSV, - for stdout")
	f.StringVar(&o.anomaliesOut, "anomalies-out", "", "write the anomaly report as CSV")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write run metrics in the prometheus text format")
	f.StringVar(&o.source, "source", "", "read from a SQL source: snowflake, postgres or sqlite3:<path>")
	f.StringVar(&o.query, "query", "", "query to run against --source")
	f.BoolVar(&o.record, "record", false, "record the run in the cleaning history")
	f.StringVar(&o.owner, "owner", "", "owner of the history entry")
	f.BoolVar(&o.describe, "describe", false, "print column details and suggestions before cleaning")

	return cmd
}

// bindCleaningFlags registers one flag per CleaningConfig field
func bindCleaningFlags(f *pflag.FlagSet, o *cleanOptions) {
	f.StringVar(&o.missing, "missing", string(model.FillNA), "missing value strategy: fill_na, fill_mean, fill_median, fill_mode, drop_rows")
	f.BoolVar(&o.removeDuplicates, "remove-duplicates", false, "remove exact duplicate rows")
	f.BoolVar(&o.standardizeColumns, "standardize-columns", false, "rewrite column names as snake_case")
	f.BoolVar(&o.normalizeText, "normalize-text", false, "trim and title-case text columns")
	f.BoolVar(&o.fixDates, "fix-dates", false, "normalize date columns to YYYY-MM-DD")
	f.BoolVar(&o.validateEmails, "validate-emails", false, "replace malformed emails in email columns")
	f.BoolVar(&o.fuzzy, "fuzzy", false, "merge near-duplicate values in text columns")
	f.Float64Var(&o.fuzzyCutoff, "fuzzy-cutoff", 0, "similarity cutoff in (0, 1] (default from config)")
	f.BoolVar(&o.detectAnomalies, "detect-anomalies", false, "flag numeric outliers")
	f.StringVar(&o.anomalyMethod, "anomaly-method", string(model.AnomalyZScore), "outlier score: zscore or robust")
	f.Float64Var(&o.anomalyThreshold, "anomaly-threshold", 0, "flag cells whose |z| exceeds this (default from config)")
}

// cleaningConfig layers defaults, app config, the profile and explicitly set
// flags, each over the previous
func (a *app) cleaningConfig(cmd *cobra.Command, o *cleanOptions) (model.CleaningConfig, error) {
	cfg := model.DefaultCleaningConfig()
	cfg.FuzzyCutoff = a.cfg.FuzzyCutoff
	cfg.AnomalyThreshold = a.cfg.AnomalyThreshold

	if o.profile != "" {
		p, err := profile.LoadWithFallback(o.profile, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = p
	}

	f := cmd.Flags()
	if f.Changed("missing") || o.profile == "" {
		strategy, err := model.ParseMissingStrategy(o.missing)
		if err != nil {
			return cfg, err
		}
		cfg.MissingStrategy = strategy
	}
	bools := []struct {
		flag  string
		value bool
		dst   *bool
	}{
		{"remove-duplicates", o.removeDuplicates, &cfg.RemoveDuplicates},
		{"standardize-columns", o.standardizeColumns, &cfg.StandardizeColumns},
		{"normalize-text", o.normalizeText, &cfg.NormalizeText},
		{"fix-dates", o.fixDates, &cfg.FixDates},
		{"validate-emails", o.validateEmails, &cfg.ValidateEmails},
		{"fuzzy", o.fuzzy, &cfg.FuzzyStandardize},
		{"detect-anomalies", o.detectAnomalies, &cfg.DetectAnomalies},
	}
	for _, b := range bools {
		if f.Changed(b.flag) {
			*b.dst = b.value
		}
	}
	if f.Changed("fuzzy-cutoff") {
		cfg.FuzzyCutoff = o.fuzzyCutoff
	}
	if f.Changed("anomaly-threshold") {
		cfg.AnomalyThreshold = o.anomalyThreshold
	}
	if f.Changed("anomaly-method") || o.profile == "" {
		cfg.AnomalyMethod = model.AnomalyMethod(o.anomalyMethod)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (a *app) runClean(cmd *cobra.Command, o *cleanOptions, args []string) error {
	ctx := cmd.Context()
	logger := a.logger.Named("clean")

	cfg, err := a.cleaningConfig(cmd, o)
	if err != nil {
		return err
	}

	ds, name, err := a.loadDataset(ctx, o, args)
	if err != nil {
		return err
	}

	if o.describe {
		meta := converter.Describe(name, ds)
		printDescription(cmd.ErrOrStderr(), meta, converter.Suggest(meta))
	}

	reg := prometheus.NewRegistry()
	runMetrics, err := metrics.NewRunMetrics(reg, logger)
	if err != nil {
		return err
	}
	dc, err := cleaner.NewDataCleaner(logger, cleaner.WithObserver(runMetrics))
	if err != nil {
		return err
	}

	result, cleanErr := dc.Clean(ctx, ds, cfg)
	if o.metricsFile != "" {
		if err := metrics.WriteTextfile(o.metricsFile, reg); err != nil {
			logger.Warn("Failed to write metrics file", zap.Error(err))
		}
	}
	if cleanErr != nil {
		return cleanErr
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", w)
	}

	if err := writeDataset(cmd.OutOrStdout(), o.out, result.Dataset); err != nil {
		return err
	}
	if o.anomaliesOut != "" {
		if err := writeDataset(cmd.OutOrStdout(), o.anomaliesOut, result.Anomalies.Dataset()); err != nil {
			return err
		}
	}

	fmt.Fprint(cmd.ErrOrStderr(), metrics.NewSummary(result.Metrics, result.Duration).Render())

	if o.record {
		if err := a.recordRun(ctx, o.owner, name, result, cfg); err != nil {
			return err
		}
	}
	return nil
}

// loadDataset reads the CSV argument or queries the configured source. The
// returned name identifies the input in reports and history.
func (a *app) loadDataset(ctx context.Context, o *cleanOptions, args []string) (*model.Dataset, string, error) {
	if o.source != "" {
		factory := connector.NewConnectorFactory(a.cfg, a.logger.Named("connector"))
		src, err := factory.CreateSource(ctx, o.source)
		if err != nil {
			return nil, "", err
		}
		defer src.Close()

		ds, err := connector.QueryDataset(ctx, src, o.query, a.cfg.QueryTimeout)
		if err != nil {
			return nil, "", err
		}
		return ds, src.Name(), nil
	}

	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	opts := converter.DefaultOptions()
	opts.Name = filepath.Base(path)
	ds, err := converter.NewTypeConverterWithOptions(a.logger.Named("converter"), opts).Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ds, opts.Name, nil
}

func (a *app) recordRun(ctx context.Context, owner, name string, result *cleaner.Result, cfg model.CleaningConfig) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := history.NewEntry(owner, name, result.RunID.String(), result.Metrics, cfg)
	if err != nil {
		return err
	}
	return store.Record(ctx, entry)
}

// writeDataset writes ds as CSV to path, or to stdout when path is "-"
func writeDataset(stdout io.Writer, path string, ds *model.Dataset) error {
	if path == "-" {
		return converter.WriteCSV(stdout, ds)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := converter.WriteCSV(file, ds); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func printDescription(w io.Writer, meta *model.DatasetMetadata, suggestions []string) {
	fmt.Fprintf(w, "Dataset %s: %d rows, %d columns\n", meta.Name, meta.Rows, len(meta.Columns))
	for _, col := range meta.Columns {
		fmt.Fprintf(w, "- %s (%s): %d nulls, %d distinct, %.0f%% complete\n",
			col.Name, col.Kind, col.Nulls, col.Distinct, col.Completeness(meta.Rows)*100)
	}
	for _, s := range suggestions {
		fmt.Fprintln(w, "Suggestion:", s)
	}
}
