package database

import (
	"context"

	"github.com/SusheelSathyaraj/CsvToDB/dataset"
)

// Writer replaces the contents of a target table with a dataset.
type Writer interface {
	// Overwrite drops the table if present, recreates it with the dataset's
	// columns and loads every row. It returns the number of rows written.
	Overwrite(ctx context.Context, table string, ds *dataset.Dataset) (int64, error)

	// CountRows returns the current number of rows in table.
	CountRows(ctx context.Context, table string) (int64, error)

	Close() error
}

// Options tune how a Writer loads rows.
type Options struct {
	// BatchSize is the number of rows sent per statement; DefaultBatchSize if <= 0.
	BatchSize int

	// Progress, when set, is called after every batch with the rows it held.
	Progress func(rows int)
}

func (o Options) reportProgress(rows int) {
	if o.Progress != nil {
		o.Progress(rows)
	}
}
