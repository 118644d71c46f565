package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/SusheelSathyaraj/CsvToDB/config"
	"github.com/SusheelSathyaraj/CsvToDB/database"
	"github.com/SusheelSathyaraj/CsvToDB/dataset"
	"github.com/SusheelSathyaraj/CsvToDB/monitoring"
	"github.com/SusheelSathyaraj/CsvToDB/validation"
)

// config for one load run
type Config struct {
	PropertiesPath string
	EnvFiles       []string // .env files to load first; ".env" when empty
	Input          string
	ReadOptions    dataset.ReadOptions
	Table          string
	DerivedColumn  string
	Sources        []string
	Separator      string
	BatchSize      int
	Verify         bool
}

// DefaultConfig loads data/authors.csv into spark.ch02 with
// name = lname + ", " + fname.
func DefaultConfig() Config {
	return Config{
		PropertiesPath: "db.properties",
		Input:          "data/authors.csv",
		ReadOptions:    dataset.DefaultReadOptions(),
		Table:          "spark.ch02",
		DerivedColumn:  "name",
		Sources:        []string{"lname", "fname"},
		Separator:      ", ",
		BatchSize:      database.DefaultBatchSize,
	}
}

// OpenFunc connects to the target database.
type OpenFunc func(ctx context.Context, conn *config.Connection, opts database.Options) (database.Writer, error)

// Loader runs config -> read -> derive -> write, stopping at the first failure.
type Loader struct {
	Config Config
	Open   OpenFunc
	RunID  string
	logger *log.Entry
}

// Results of a load run
type Result struct {
	RunID       string
	Table       string
	RowsRead    int
	RowsWritten int64
	Columns     []string
	Verified    bool
	Duration    time.Duration
}

// creating a new loader; a nil logger uses the logrus standard logger
func New(cfg Config, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.StandardLogger()
	}
	runID := uuid.NewString()
	return &Loader{
		Config: cfg,
		Open:   database.Open,
		RunID:  runID,
		logger: logger.WithField("run_id", runID),
	}
}

// Logger returns the run scoped logger.
func (l *Loader) Logger() *log.Entry {
	return l.logger
}

// Run executes the load. The returned Result is never nil; on failure it
// holds whatever was completed before the failing stage.
func (l *Loader) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	result := &Result{RunID: l.RunID, Table: l.Config.Table}
	defer func() { result.Duration = time.Since(startTime) }()

	//Step1: connection settings
	conn, err := l.loadConnection()
	if err != nil {
		l.stageLogger(StageConfig).WithError(err).Error("failed to load configuration")
		return result, err
	}

	//Step2: read the input file
	ds, err := l.readInput()
	if err != nil {
		l.stageLogger(StageRead).WithError(err).Error("failed to read input")
		return result, err
	}
	result.RowsRead = ds.Len()

	//Step3: derive the computed column
	out, err := l.derive(ds)
	if err != nil {
		l.stageLogger(StageDerive).WithError(err).Error("failed to derive column")
		return result, err
	}
	result.Columns = out.Columns()

	//Step4: overwrite the target table
	if err := l.write(ctx, conn, out, result); err != nil {
		l.stageLogger(StageWrite).WithError(err).Error("failed to write dataset")
		return result, err
	}

	l.logger.WithFields(log.Fields{
		"table":    result.Table,
		"rows":     result.RowsWritten,
		"duration": time.Since(startTime).String(),
	}).Info("load completed")
	return result, nil
}

func (l *Loader) stageLogger(stage Stage) *log.Entry {
	return l.logger.WithField("stage", stage)
}

func (l *Loader) loadConnection() (*config.Connection, error) {
	logger := l.stageLogger(StageConfig)

	if err := config.LoadDotEnv(l.Config.EnvFiles...); err != nil {
		return nil, fmt.Errorf("%w: load .env: %w", ErrConfig, err)
	}

	conn, err := config.LoadProperties(l.Config.PropertiesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if applied := config.ApplyEnvOverrides(conn); len(applied) > 0 {
		logger.WithField("variables", applied).Info("applied environment overrides")
	}
	if err := conn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, l.Config.PropertiesPath, err)
	}

	kind, err := database.ResolveDriver(conn.Driver)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if kind.RequiresUser() && conn.User == "" {
		return nil, fmt.Errorf("%w: %s: %w: %s (required by %s)",
			ErrConfig, l.Config.PropertiesPath, config.ErrMissingKey, config.KeyUser, kind)
	}

	logger.WithField("connection", conn.Redacted()).Debug("configuration loaded")
	return conn, nil
}

func (l *Loader) readInput() (*dataset.Dataset, error) {
	ds, err := dataset.ReadCSV(l.Config.Input, l.Config.ReadOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	l.stageLogger(StageRead).WithFields(log.Fields{
		"input":   l.Config.Input,
		"rows":    ds.Len(),
		"columns": ds.Columns(),
	}).Info("input read")
	return ds, nil
}

func (l *Loader) derive(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := ds.WithConcatColumn(l.Config.DerivedColumn, l.Config.Separator, l.Config.Sources...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	l.stageLogger(StageDerive).WithFields(log.Fields{
		"column":  l.Config.DerivedColumn,
		"sources": l.Config.Sources,
	}).Debug("column derived")
	return out, nil
}

// write owns the connection: it is opened here and closed before returning.
func (l *Loader) write(ctx context.Context, conn *config.Connection, ds *dataset.Dataset, result *Result) error {
	logger := l.stageLogger(StageWrite).WithField("table", l.Config.Table)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	tracker := monitoring.NewProgressTracker(l.Config.Table, int64(ds.Len()), logger)
	w, err := l.Open(ctx, conn, database.Options{
		BatchSize: l.Config.BatchSize,
		Progress:  tracker.Callback(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			logger.WithError(cerr).Warn("failed to close connection")
		}
	}()

	written, err := w.Overwrite(ctx, l.Config.Table, ds)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	result.RowsWritten = written
	tracker.LogSummary()

	if written != int64(ds.Len()) {
		return fmt.Errorf("%w: wrote %d of %d rows to %s", ErrWrite, written, ds.Len(), l.Config.Table)
	}

	if !l.Config.Verify {
		return nil
	}
	startTime := time.Now()
	validator := validation.NewLoadValidator(w, l.stageLogger(StageVerify))
	check, err := validator.PostLoadValidation(ctx, l.Config.Table, int64(ds.Len()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	validation.GenerateValidationSummary([]validation.ValidationResult{check}, startTime).
		Log(l.stageLogger(StageVerify), "post-load")
	if !check.IsValid {
		return fmt.Errorf("%w: verify %s: %s", ErrWrite, l.Config.Table, check.ErrorMessage)
	}
	result.Verified = true
	return nil
}
