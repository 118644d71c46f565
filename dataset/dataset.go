// Package dataset holds the in-memory tabular data that flows from the CSV
// reader, through the column transforms, to a database writer.
package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when the input has no header row.
	ErrEmpty = errors.New("dataset is empty")

	// ErrMalformed is returned for ragged rows, blank or duplicate column names
	// and delimited-text parse failures.
	ErrMalformed = errors.New("malformed dataset")

	// ErrColumnNotFound is returned when a transform references a column the
	// schema does not have.
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnExists is returned when a transform would add a column whose
	// name is already taken.
	ErrColumnExists = errors.New("column already exists")
)

// Dataset is an ordered set of columns and rows of string values.
// Every row has exactly one value per column. A Dataset is never modified
// after construction; transforms return a new value.
type Dataset struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

// New builds a Dataset, checking that column names are non-empty and unique
// and that every row is as wide as the header.
func New(columns []string, rows [][]string) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, ErrEmpty
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrMalformed, i+1)
		}
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformed, col)
		}
		index[col] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d fields, expected %d", ErrMalformed, i+1, len(row), len(columns))
		}
	}

	return &Dataset{
		columns: append([]string(nil), columns...),
		rows:    rows,
		index:   index,
	}, nil
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Rows exposes the row values for writers. Callers must not modify them.
func (d *Dataset) Rows() [][]string {
	return d.rows
}

// ColumnIndex returns the position of a column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// HasColumn reports whether the schema contains name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.ColumnIndex(name)
	return ok
}

// Record returns row i as a column name to value mapping.
func (d *Dataset) Record(i int) map[string]string {
	row := d.rows[i]
	rec := make(map[string]string, len(d.columns))
	for j, col := range d.columns {
		rec[col] = row[j]
	}
	return rec
}
