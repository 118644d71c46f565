package database

import (
	"fmt"
)

// DefaultBatchSize is the number of rows loaded per statement when no size is given.
const DefaultBatchSize = 1000

// for batch processing of rows
type BatchProcessor struct {
	batchSize int
}

// creating a new batch processor
func NewBatchProcessor(batchsize int) *BatchProcessor {
	if batchsize <= 0 {
		batchsize = DefaultBatchSize
	}
	return &BatchProcessor{batchSize: batchsize}
}

// BatchSize returns the effective batch size.
func (bp *BatchProcessor) BatchSize() int {
	return bp.batchSize
}

// processing rows in batches, stopping at the first failed batch
func (bp *BatchProcessor) ProcessInBatches(rows [][]string, processFunc func(batch [][]string) error) error {
	if len(rows) == 0 {
		return nil
	}

	for i := 0; i < len(rows); i += bp.batchSize {
		end := i + bp.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[i:end]
		if err := processFunc(batch); err != nil {
			return fmt.Errorf("failed to process the batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}
