// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/David-Botos/raw-to-ready/pkg/config"
	"github.com/David-Botos/raw-to-ready/pkg/history"
	"github.com/David-Botos/raw-to-ready/pkg/logging"
)

// app holds state shared by every command of one invocation
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *zap.Logger
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "rawready",
		Short:         "Clean raw CSV data into an analysis-ready dataset",
		Long:          `rawready imputes missing values, removes duplicates, normalizes names, text, dates and emails, merges near-duplicate values and flags numeric outliers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is ./rawready.yaml)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	f.StringVar(&a.logFormat, "log-format", "", "log format: json or console (overrides config)")

	root.AddCommand(
		newCleanCmd(a),
		newHistoryCmd(a),
		newProfileCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}

	// Apply CLI overrides if provided
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) openHistory() (*history.Store, error) {
	store, err := history.Open(a.cfg.History.Driver, a.cfg.History.DSN, a.logger.Named("history"))
	if err != nil {
		return nil, fmt.Errorf("failed to open cleaning history: %w", err)
	}
	return store, nil
}
