package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/SusheelSathyaraj/CsvToDB/config"

	"github.com/go-sql-driver/mysql"
)

// mysqlDSN builds a go-sql-driver DSN from either a URL
// (mysql://host:port/db, jdbc:mysql://..., mariadb://...) or a native DSN
// (user:password@tcp(host:port)/db). Credentials from the properties file win
// over those in the URL.
func mysqlDSN(c *config.Connection) (string, error) {
	raw := stripJDBC(c.URL)
	lower := strings.ToLower(raw)

	var cfg *mysql.Config
	if strings.HasPrefix(lower, "mysql://") || strings.HasPrefix(lower, "mariadb://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("invalid mysql url: %w", err)
		}
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"

		host := u.Hostname()
		if host == "" {
			host = "localhost"
		}
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		cfg.Addr = net.JoinHostPort(host, port)
		cfg.DBName = strings.TrimPrefix(u.Path, "/")

		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		// JDBC style ?user=&password=
		q := u.Query()
		if v := q.Get("user"); v != "" {
			cfg.User = v
		}
		if v := q.Get("password"); v != "" {
			cfg.Passwd = v
		}
	} else {
		parsed, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg = parsed
	}

	if c.User != "" {
		cfg.User = c.User
		cfg.Passwd = c.Password
	}
	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}

// to connect with the MySQL DB
func openMySQL(ctx context.Context, c *config.Connection, opts Options) (Writer, error) {
	dsn, err := mysqlDSN(c)
	if err != nil {
		return nil, err
	}
	db, err := openSQL(ctx, "mysql", dsn, 2)
	if err != nil {
		return nil, err
	}
	return NewSQLWriter(db, mysqlDialect, opts), nil
}
