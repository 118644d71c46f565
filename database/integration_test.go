//go:build integration

package database

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SusheelSathyaraj/CsvToDB/config"
	"github.com/SusheelSathyaraj/CsvToDB/testinfra"
)

var pgContainer *testinfra.PostgresContainer

func TestMain(m *testing.M) {
	ctx := context.Background()

	ctr, err := testinfra.StartSimplePostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}
	pgContainer = ctr

	if err := createSchema(ctx, ctr.ConnString, "spark"); err != nil {
		fmt.Fprintf(os.Stderr, "create schema: %v\n", err)
		ctr.Terminate(ctx) //nolint:errcheck
		os.Exit(1)
	}

	code := m.Run()

	pgContainer.Terminate(ctx) //nolint:errcheck
	os.Exit(code)
}

func createSchema(ctx context.Context, connString, schema string) error {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize())
	return err
}

func TestPostgresOverwrite_Integration(t *testing.T) {
	for _, driver := range []string{"postgresql", "org.postgresql.Driver"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			w, err := Open(ctx, &config.Connection{
				URL:      "jdbc:" + pgContainer.ConnString,
				User:     testinfra.PostgresUser,
				Password: testinfra.PostgresPassword,
				Driver:   driver,
			}, Options{BatchSize: 1})
			require.NoError(t, err)
			defer w.Close()

			table := "spark.ch02"
			for i := 0; i < 2; i++ {
				n, err := w.Overwrite(ctx, table, authors(t))
				require.NoError(t, err)
				assert.Equal(t, int64(2), n)
			}

			count, err := w.CountRows(ctx, table)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)

			conn, err := pgx.Connect(ctx, pgContainer.ConnString)
			require.NoError(t, err)
			defer conn.Close(ctx)

			rows, err := conn.Query(ctx, `SELECT lname, fname, name FROM spark.ch02 ORDER BY lname`)
			require.NoError(t, err)
			got, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]string, error) {
				var l, f, n string
				err := row.Scan(&l, &f, &n)
				return []string{l, f, n}, err
			})
			require.NoError(t, err)
			assert.Equal(t, [][]string{
				{"Doe", "John", "Doe, John"},
				{"Smith", "Jane", "Smith, Jane"},
			}, got)
		})
	}
}

func TestPostgresOverwrite_MissingSchemaLeavesNothing(t *testing.T) {
	ctx := context.Background()
	w, err := Open(ctx, &config.Connection{URL: pgContainer.ConnString, Driver: "pgx"}, Options{})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Overwrite(ctx, "nope.ch02", authors(t))
	assert.Error(t, err)
}
