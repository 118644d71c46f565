package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Dialect captures the SQL differences between the database/sql backends.
type Dialect struct {
	Name      string
	TextType  string
	MaxParams int // bind parameters allowed in one statement

	// no schemas: "spark.ch02" is stored as the single table "spark_ch02"
	flattenQualified bool

	quote       func(ident string) string
	placeholder func(n int) string
}

var (
	postgresDialect = Dialect{
		Name:        "postgres",
		TextType:    "TEXT",
		MaxParams:   65535,
		quote:       pq.QuoteIdentifier,
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}

	mysqlDialect = Dialect{
		Name:        "mysql",
		TextType:    "TEXT",
		MaxParams:   65535,
		quote:       func(s string) string { return "`" + strings.ReplaceAll(s, "`", "``") + "`" },
		placeholder: func(int) string { return "?" },
	}

	sqliteDialect = Dialect{
		Name:        "sqlite",
		TextType:    "TEXT",
		MaxParams:   32766,
		quote:       func(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` },
		placeholder: func(int) string { return "?" },

		flattenQualified: true,
	}
)

// QuoteTable quotes every part of a possibly qualified table name.
func (d Dialect) QuoteTable(table string) (string, error) {
	parts := splitTable(table)
	if len(parts) == 0 {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	if d.flattenQualified {
		return d.quote(strings.Join(parts, "_")), nil
	}
	for i, p := range parts {
		parts[i] = d.quote(p)
	}
	return strings.Join(parts, "."), nil
}

func (d Dialect) dropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
}

func (d Dialect) createTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", d.quote(col), d.TextType)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
}

// insertSQL builds a multi-row INSERT for rows rows of len(columns) values.
func (d Dialect) insertSQL(table string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = d.quote(col)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(quoted, ", "))
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.placeholder(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// batchRows caps the requested batch size so one INSERT stays within the
// dialect's bind parameter limit.
func (d Dialect) batchRows(requested, columns int) int {
	if requested <= 0 {
		requested = DefaultBatchSize
	}
	if columns > 0 && d.MaxParams > 0 {
		if limit := d.MaxParams / columns; limit < requested {
			requested = limit
		}
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}
