package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/SusheelSathyaraj/CsvToDB/config"

	_ "github.com/lib/pq"
)

// postgresURL turns the configured url into a libpq connection URL.
// Accepted forms: postgres://, postgresql://, jdbc:postgresql://host/db and
// jdbc:postgresql:db. Credentials from the properties file replace any found
// in the URL, and sslmode defaults to disable as with JDBC.
func postgresURL(c *config.Connection) (string, error) {
	raw := stripJDBC(c.URL)

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
	case strings.HasPrefix(lower, "postgresql:"):
		// jdbc:postgresql:database
		raw = "postgresql://localhost/" + raw[len("postgresql:"):]
	default:
		return "", fmt.Errorf("unrecognised postgres url %q", c.URL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid postgres url: %w", err)
	}
	u.Scheme = "postgresql"

	q := u.Query()
	if c.User != "" {
		q.Del("user")
		q.Del("password")
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	if q.Get("sslmode") == "" {
		sslMode := c.Extra["sslmode"]
		if sslMode == "" {
			sslMode = "disable"
		}
		q.Set("sslmode", sslMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// connect to a Postgresql database through lib/pq
func openPostgres(ctx context.Context, c *config.Connection, opts Options) (Writer, error) {
	dsn, err := postgresURL(c)
	if err != nil {
		return nil, err
	}
	db, err := openSQL(ctx, "postgres", dsn, 2)
	if err != nil {
		return nil, err
	}
	return NewSQLWriter(db, postgresDialect, opts), nil
}
