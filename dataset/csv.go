package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadOptions controls how delimited text is parsed.
type ReadOptions struct {
	Delimiter rune
	Header    bool // first row holds the column names
}

// DefaultReadOptions reads comma separated files with a header row.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Delimiter: ',', Header: true}
}

// ReadCSV loads a delimited text file into a Dataset.
func ReadCSV(path string, opts ReadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ParseCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

// ParseCSV parses delimited text from r. Without a header the columns are
// named _c0, _c1, ... in field order.
func ParseCSV(r io.Reader, opts ReadOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	// every record must have as many fields as the first one
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, parseErr)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	// the BOM belongs to the file, not to the first field
	records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)

	var columns []string
	rows := records
	if opts.Header {
		columns = records[0]
		rows = records[1:]
	} else {
		columns = make([]string, len(records[0]))
		for i := range columns {
			columns[i] = fmt.Sprintf("_c%d", i)
		}
	}

	return New(columns, rows)
}
