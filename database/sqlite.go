package database

import (
	"context"
	"strings"

	"github.com/SusheelSathyaraj/CsvToDB/config"

	_ "modernc.org/sqlite"
)

// sqlitePath accepts sqlite:path, sqlite://path, jdbc:sqlite:path, file: URIs
// and bare paths.
func sqlitePath(raw string) string {
	raw = stripJDBC(raw)
	lower := strings.ToLower(raw)
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
		if strings.HasPrefix(lower, prefix) {
			return raw[len(prefix):]
		}
	}
	return raw
}

func openSQLite(ctx context.Context, c *config.Connection, opts Options) (Writer, error) {
	// single writer; also keeps :memory: databases on one connection
	db, err := openSQL(ctx, "sqlite", sqlitePath(c.URL), 1)
	if err != nil {
		return nil, err
	}
	return NewSQLWriter(db, sqliteDialect, opts), nil
}
