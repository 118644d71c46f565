package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SusheelSathyaraj/CsvToDB/config"
)

// Kind identifies a writer backend.
type Kind string

const (
	KindPostgres Kind = "postgres" // database/sql over lib/pq
	KindPgx      Kind = "pgx"      // native pgx with COPY
	KindMySQL    Kind = "mysql"
	KindSQLite   Kind = "sqlite"
	KindMongoDB  Kind = "mongodb"
)

// ErrUnsupportedDriver is returned for driver identifiers with no backend.
var ErrUnsupportedDriver = errors.New("unsupported driver")

// driver identifiers accepted in the properties file, lower-cased. JDBC class
// names are mapped so existing db.properties files keep working.
var driverAliases = map[string]Kind{
	"postgres":                 KindPostgres,
	"postgresql":               KindPostgres,
	"lib/pq":                   KindPostgres,
	"pgx":                      KindPgx,
	"org.postgresql.driver":    KindPgx,
	"mysql":                    KindMySQL,
	"mariadb":                  KindMySQL,
	"com.mysql.cj.jdbc.driver": KindMySQL,
	"com.mysql.jdbc.driver":    KindMySQL,
	"org.mariadb.jdbc.driver":  KindMySQL,
	"sqlite":                   KindSQLite,
	"sqlite3":                  KindSQLite,
	"org.sqlite.jdbc":          KindSQLite,
	"mongodb":                  KindMongoDB,
	"mongo":                    KindMongoDB,
}

// ResolveDriver maps a driver identifier to its backend, case-insensitively.
func ResolveDriver(driver string) (Kind, error) {
	kind, ok := driverAliases[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return kind, nil
}

// RequiresUser reports whether the backend authenticates with a user name
// that must come from configuration.
func (k Kind) RequiresUser() bool {
	switch k {
	case KindPostgres, KindPgx, KindMySQL:
		return true
	}
	return false
}

// Open connects to the database described by conn and returns a Writer
// bound to that connection. The caller owns the Writer and must Close it.
func Open(ctx context.Context, conn *config.Connection, opts Options) (Writer, error) {
	kind, err := ResolveDriver(conn.Driver)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPostgres:
		return openPostgres(ctx, conn, opts)
	case KindPgx:
		return openPgx(ctx, conn, opts)
	case KindMySQL:
		return openMySQL(ctx, conn, opts)
	case KindSQLite:
		return openSQLite(ctx, conn, opts)
	case KindMongoDB:
		return openMongoDB(ctx, conn, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, conn.Driver)
	}
}

// stripJDBC removes a leading "jdbc:" so JDBC style URLs can be reused.
func stripJDBC(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 5 && strings.EqualFold(raw[:5], "jdbc:") {
		return raw[5:]
	}
	return raw
}

// splitTable splits a possibly qualified table name ("schema.table").
func splitTable(table string) []string {
	parts := strings.Split(table, ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
