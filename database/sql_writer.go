package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SusheelSathyaraj/CsvToDB/dataset"
)

// SQLWriter overwrites tables through database/sql. It backs the lib/pq,
// MySQL and SQLite drivers.
type SQLWriter struct {
	DB      *sql.DB
	dialect Dialect
	opts    Options
}

// NewSQLWriter wraps an open database handle.
func NewSQLWriter(db *sql.DB, dialect Dialect, opts Options) *SQLWriter {
	return &SQLWriter{DB: db, dialect: dialect, opts: opts}
}

// openSQL opens and pings a database/sql handle. The loader holds one
// connection for the duration of the write, so the pool is kept small.
func openSQL(ctx context.Context, driverName, dsn string, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}
	return db, nil
}

// Overwrite replaces table with ds inside a single transaction:
// drop, create, batched inserts, commit.
func (w *SQLWriter) Overwrite(ctx context.Context, table string, ds *dataset.Dataset) (written int64, err error) {
	if w.DB == nil {
		return 0, fmt.Errorf("database connection not established")
	}
	quoted, err := w.dialect.QuoteTable(table)
	if err != nil {
		return 0, err
	}
	columns := ds.Columns()

	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if _, err = tx.ExecContext(ctx, w.dialect.dropTableSQL(quoted)); err != nil {
		return 0, fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if _, err = tx.ExecContext(ctx, w.dialect.createTableSQL(quoted, columns)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	processor := NewBatchProcessor(w.dialect.batchRows(w.opts.BatchSize, len(columns)))
	err = processor.ProcessInBatches(ds.Rows(), func(batch [][]string) error {
		args := make([]any, 0, len(batch)*len(columns))
		for _, row := range batch {
			for _, v := range row {
				args = append(args, v)
			}
		}
		if _, err := tx.ExecContext(ctx, w.dialect.insertSQL(quoted, columns, len(batch)), args...); err != nil {
			return fmt.Errorf("failed to insert rows: %w", err)
		}
		written += int64(len(batch))
		w.opts.reportProgress(len(batch))
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return written, nil
}

// CountRows runs SELECT COUNT(*) against table.
func (w *SQLWriter) CountRows(ctx context.Context, table string) (int64, error) {
	if w.DB == nil {
		return 0, fmt.Errorf("database connection not established")
	}
	quoted, err := w.dialect.QuoteTable(table)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := w.DB.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

// Close the database connection
func (w *SQLWriter) Close() error {
	if w.DB != nil {
		return w.DB.Close()
	}
	return nil
}
