package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SusheelSathyaraj/CsvToDB/config"
	"github.com/SusheelSathyaraj/CsvToDB/database"
	"github.com/SusheelSathyaraj/CsvToDB/loader"
)

// exit codes
const (
	exitSuccess      = 0
	exitGeneralError = 1
	exitUsageError   = 2
	exitConfigError  = 10
	exitInputError   = 11
	exitSchemaError  = 12
	exitWriteError   = 13
)

var errUsage = errors.New("usage error")

// command line options; zero values are replaced by the flag defaults
type options struct {
	input     string
	config    string
	table     string
	delimiter string
	header    bool
	column    string
	left      string
	right     string
	sources   []string // set from a job file naming other than two sources
	separator string
	batchSize int
	verify    bool
	job       string
	logLevel  string
	logFormat string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(&options{})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeForError(err)
	}
	return exitSuccess
}

func newRootCmd(opts *options) *cobra.Command {
	defaults := loader.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "csv2db",
		Short: "Load a CSV file into a database table",
		Long: `csv2db reads a CSV file, appends a column built by joining two existing
columns (by default name = lname + ", " + fname) and overwrites the target
table with the result.

Connection settings come from a properties file (url, user, password, driver),
overridable through CSV2DB_URL, CSV2DB_USER, CSV2DB_PASSWORD and CSV2DB_DRIVER
or a .env file.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  10 - Invalid or missing configuration
  11 - Input file missing or malformed
  12 - Source column missing or derived column already present
  13 - Database write failed`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unexpected arguments %v", errUsage, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	f := cmd.Flags()
	f.StringVar(&opts.input, "input", defaults.Input, "CSV file to load")
	f.StringVar(&opts.config, "config", defaults.PropertiesPath, "connection properties file")
	f.StringVar(&opts.table, "table", defaults.Table, "target table, optionally schema qualified")
	f.StringVar(&opts.delimiter, "delimiter", string(defaults.ReadOptions.Delimiter), `field delimiter (single character, or "tab")`)
	f.BoolVar(&opts.header, "header", defaults.ReadOptions.Header, "first line holds the column names")
	f.StringVar(&opts.column, "column", defaults.DerivedColumn, "name of the derived column")
	f.StringVar(&opts.left, "left", defaults.Sources[0], "first source column")
	f.StringVar(&opts.right, "right", defaults.Sources[1], "second source column")
	f.StringVar(&opts.separator, "separator", defaults.Separator, "text placed between the source values")
	f.IntVar(&opts.batchSize, "batch-size", defaults.BatchSize, "rows per insert statement")
	f.BoolVar(&opts.verify, "verify", false, "count the target rows after writing")
	f.StringVar(&opts.job, "job", "", "optional YAML job file; explicit flags take precedence")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	return cmd
}

func runLoad(cmd *cobra.Command, opts *options) error {
	logger, err := newLogger(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	l := loader.New(cfg, logger)
	l.Logger().WithFields(log.Fields{
		"input":  cfg.Input,
		"config": cfg.PropertiesPath,
		"table":  cfg.Table,
	}).Info("starting load")

	if _, err := l.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Process complete")
	return nil
}

// resolveConfig merges built-in defaults, the job file and explicitly set
// flags, in increasing order of precedence.
func resolveConfig(cmd *cobra.Command, opts *options) (loader.Config, error) {
	o := *opts
	changed := cmd.Flags().Changed

	if o.job != "" {
		job, err := config.LoadJob(o.job)
		if err != nil {
			return loader.Config{}, fmt.Errorf("%w: %w", loader.ErrConfig, err)
		}
		applyJob(job, &o, changed)
	}

	delim, err := config.ParseDelimiter(o.delimiter)
	if err != nil {
		// job file values were checked by LoadJob, so this came from --delimiter
		return loader.Config{}, fmt.Errorf("%w: --delimiter: %w", errUsage, err)
	}
	if o.batchSize < 0 {
		return loader.Config{}, fmt.Errorf("%w: --batch-size must not be negative", errUsage)
	}
	if strings.TrimSpace(o.table) == "" {
		return loader.Config{}, fmt.Errorf("%w: --table must not be empty", errUsage)
	}

	cfg := loader.DefaultConfig()
	cfg.PropertiesPath = o.config
	cfg.Input = o.input
	cfg.ReadOptions.Delimiter = delim
	cfg.ReadOptions.Header = o.header
	cfg.Table = o.table
	cfg.DerivedColumn = o.column
	cfg.Sources = []string{o.left, o.right}
	if o.sources != nil {
		cfg.Sources = o.sources
	}
	cfg.Separator = o.separator
	cfg.BatchSize = o.batchSize
	if cfg.BatchSize == 0 {
		cfg.BatchSize = database.DefaultBatchSize
	}
	cfg.Verify = o.verify
	return cfg, nil
}

func applyJob(job *config.Job, o *options, changed func(string) bool) {
	setString := func(flag, value string, dst *string) {
		if value != "" && !changed(flag) {
			*dst = value
		}
	}
	setString("input", job.Input, &o.input)
	setString("config", job.Properties, &o.config)
	setString("table", job.Table, &o.table)
	setString("delimiter", job.Delimiter, &o.delimiter)
	setString("column", job.Derive.Column, &o.column)

	if job.Header != nil && !changed("header") {
		o.header = *job.Header
	}
	if job.Verify != nil && !changed("verify") {
		o.verify = *job.Verify
	}
	if job.BatchSize > 0 && !changed("batch-size") {
		o.batchSize = job.BatchSize
	}
	if job.Derive.Separator != nil && !changed("separator") {
		o.separator = *job.Derive.Separator
	}
	switch n := len(job.Derive.Sources); {
	case n == 2:
		setString("left", job.Derive.Sources[0], &o.left)
		setString("right", job.Derive.Sources[1], &o.right)
	case n > 0 && !changed("left") && !changed("right"):
		o.sources = job.Derive.Sources
	}
}

func newLogger(level, format string, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: unknown log format %q", errUsage, format)
	}
	return logger, nil
}

// exitCodeForError maps a run failure to its exit code.
func exitCodeForError(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage):
		return exitUsageError
	case errors.Is(err, loader.ErrConfig):
		return exitConfigError
	case errors.Is(err, loader.ErrInput):
		return exitInputError
	case errors.Is(err, loader.ErrSchema):
		return exitSchemaError
	case errors.Is(err, loader.ErrWrite):
		return exitWriteError
	}
	return exitGeneralError
}
