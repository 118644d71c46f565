package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SusheelSathyaraj/CsvToDB/dataset"
)

// authors returns the derived dataset for the two-row authors sample.
func authors(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ParseCSV(strings.NewReader("lname,fname\nDoe,John\nSmith,Jane\n"), dataset.DefaultReadOptions())
	require.NoError(t, err)
	out, err := ds.WithConcatColumn("name", ", ", "lname", "fname")
	require.NoError(t, err)
	return out
}
