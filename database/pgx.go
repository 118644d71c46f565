package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SusheelSathyaraj/CsvToDB/config"
	"github.com/SusheelSathyaraj/CsvToDB/dataset"
)

// PgxWriter overwrites PostgreSQL tables over a native pgx connection and
// loads rows with COPY FROM.
type PgxWriter struct {
	conn *pgx.Conn
	opts Options
}

// NewPgxWriter wraps an established connection.
func NewPgxWriter(conn *pgx.Conn, opts Options) *PgxWriter {
	return &PgxWriter{conn: conn, opts: opts}
}

func openPgx(ctx context.Context, c *config.Connection, opts Options) (Writer, error) {
	connStr, err := postgresURL(c)
	if err != nil {
		return nil, err
	}
	connConfig, err := pgx.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s:%d/%s: %w",
			connConfig.Host, connConfig.Port, connConfig.Database, err)
	}
	return NewPgxWriter(conn, opts), nil
}

func pgxIdentifier(table string) (pgx.Identifier, error) {
	parts := splitTable(table)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return pgx.Identifier(parts), nil
}

// Overwrite drops and recreates table and copies ds into it, all in one
// transaction.
func (w *PgxWriter) Overwrite(ctx context.Context, table string, ds *dataset.Dataset) (written int64, err error) {
	if w.conn == nil {
		return 0, fmt.Errorf("database connection not established")
	}
	ident, err := pgxIdentifier(table)
	if err != nil {
		return 0, err
	}
	columns := ds.Columns()

	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if _, err = tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", ident.Sanitize())); err != nil {
		return 0, fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if _, err = tx.Exec(ctx, postgresDialect.createTableSQL(ident.Sanitize(), columns)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	batchSize := w.opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	rows := ds.Rows()
	next, pending := 0, 0
	source := pgx.CopyFromFunc(func() ([]any, error) {
		if next >= len(rows) {
			if pending > 0 {
				w.opts.reportProgress(pending)
				pending = 0
			}
			return nil, nil
		}
		row := rows[next]
		next++

		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if pending++; pending == batchSize {
			w.opts.reportProgress(pending)
			pending = 0
		}
		return values, nil
	})

	written, err = tx.CopyFrom(ctx, ident, columns, source)
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", table, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return written, nil
}

func (w *PgxWriter) CountRows(ctx context.Context, table string) (int64, error) {
	ident, err := pgxIdentifier(table)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := w.conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", ident.Sanitize())).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

func (w *PgxWriter) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close(context.Background())
}
