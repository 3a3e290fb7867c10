// Package main provides the CLI entry point for fcreport.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/ukaji3/fcreport-go/pkg/fcreport"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/filter"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

var (
	configPath  string
	password    string
	printAreas  bool
	logLevel    string
	mapFlags    pairsFlag
	filterFlags pairsFlag

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "fcreport"})
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fcreport",
		Short: "KPI dashboard for Fresh Connection simulation exports",
		Long: `fcreport reads simulation workbook exports, matches their columns to
the known supply chain and financial KPIs, and reports per functional domain.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVar(&password, "password", "", "Password for protected workbooks")
	flags.BoolVar(&printAreas, "print-areas", false, "Read only the print area of sheets that define one")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.Var(&mapFlags, "map", "Override a field mapping, e.g. roi=\"Return %\" or roi=none (repeatable)")
	flags.Var(&filterFlags, "filter", "Filter a dimension, e.g. customer=Acme (repeatable)")

	rootCmd.AddCommand(reportCmd(), sourcesCmd(), fieldsCmd(), exportCmd(), tuiCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var cfg = &fcreport.Config{}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("cannot load .env", "err", err)
	}

	if configPath != "" {
		loaded, err := fcreport.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level := log.WarnLevel
	if cfg.LogLevel != "" {
		parsed, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)
	return nil
}

// newSession builds a session over the given paths (or the configured ones) and
// applies config and flag overrides and filters.
func newSession(args []string) (*fcreport.Session, error) {
	paths := args
	if len(paths) == 0 {
		paths = cfg.Paths()
	}

	opts := cfg.LoadOptions()
	if password != "" {
		opts.Password = password
	}
	if printAreas {
		opts.UsePrintAreas = true
	}
	opts.Logger = logger

	overrides, err := cfg.Overrides()
	if err != nil {
		return nil, err
	}
	for _, kv := range mapFlags.pairs {
		f, err := schema.ParseField(kv.key)
		if err != nil {
			return nil, err
		}
		overrides[f] = schema.ParseChoice(kv.value)
	}

	selection, err := cfg.Selection()
	if err != nil {
		return nil, err
	}
	for _, kv := range filterFlags.pairs {
		dim, err := filter.ParseDimension(kv.key)
		if err != nil {
			return nil, err
		}
		selection.Add(dim, kv.value)
	}

	sess := fcreport.NewSession(fcreport.NewCache(opts), paths)
	if err := sess.Configure(overrides, selection); err != nil {
		return nil, loadFailure(err)
	}
	return sess, nil
}

// loadFailure prints the load report of a fatal no-data error before returning it.
func loadFailure(err error) error {
	var noData *fcreport.NoDataError
	if errors.As(err, &noData) {
		fmt.Fprintln(os.Stderr, "No data found. Place the Excel exports under ./data/ or pass workbook paths.")
		for _, e := range noData.Report {
			fmt.Fprintf(os.Stderr, "  %s %s: %s\n", e.File, e.Sheet, e.Error)
		}
	}
	return err
}
