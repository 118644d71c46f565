package dataset

import (
	"fmt"
	"strings"
)

// WithConcatColumn returns a new Dataset with one extra trailing column whose
// value in each row is the sources' values joined by separator. The receiver
// is left untouched.
func (d *Dataset) WithConcatColumn(name, separator string, sources ...string) (*Dataset, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("derive %q: no source columns", name)
	}
	if d.HasColumn(name) {
		return nil, fmt.Errorf("derive %q: %w", name, ErrColumnExists)
	}

	positions := make([]int, len(sources))
	for i, src := range sources {
		pos, ok := d.ColumnIndex(src)
		if !ok {
			return nil, fmt.Errorf("derive %q: %w: %q (have %s)", name, ErrColumnNotFound, src, strings.Join(d.columns, ", "))
		}
		positions[i] = pos
	}

	rows := make([][]string, len(d.rows))
	parts := make([]string, len(positions))
	for i, row := range d.rows {
		for j, pos := range positions {
			parts[j] = row[pos]
		}
		out := make([]string, len(row), len(row)+1)
		copy(out, row)
		rows[i] = append(out, strings.Join(parts, separator))
	}

	return New(append(d.Columns(), name), rows)
}
