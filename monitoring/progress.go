package monitoring

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// tracks rows written into one table, safe for concurrent updates
type ProgressTracker struct {
	mu            sync.RWMutex
	table         string
	totalRows     int64
	processedRows int64
	batches       int
	startTime     time.Time
	lastUpdate    time.Time
	logger        *log.Entry
}

// snapshot of a load's progress
type LoadMetrics struct {
	Table             string        `json:"table"`
	TotalRows         int64         `json:"total_rows"`
	ProcessedRows     int64         `json:"processed_rows"`
	Batches           int           `json:"batches"`
	RowsPerSecond     float64       `json:"rows_per_second"`
	EstimatedTimeLeft time.Duration `json:"estimated_time_left"`
	ElapsedTime       time.Duration `json:"elapsed_time"`
	ProgressPercent   float64       `json:"progress_percent"`
}

// creating a new progress tracker; a nil logger falls back to the standard logger
func NewProgressTracker(table string, totalRows int64, logger *log.Entry) *ProgressTracker {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	now := time.Now()
	return &ProgressTracker{
		table:      table,
		totalRows:  totalRows,
		startTime:  now,
		lastUpdate: now,
		logger:     logger,
	}
}

// records one written batch
func (pt *ProgressTracker) UpdateProgress(rowsProcessed int64) {
	done := atomic.AddInt64(&pt.processedRows, rowsProcessed)
	pt.mu.Lock()
	pt.batches++
	pt.lastUpdate = time.Now()
	batches := pt.batches
	pt.mu.Unlock()

	pt.logger.WithFields(log.Fields{
		"table":   pt.table,
		"batch":   batches,
		"rows":    rowsProcessed,
		"written": done,
		"total":   pt.totalRows,
	}).Debug("batch written")
}

// Callback adapts the tracker to a per-batch row callback.
func (pt *ProgressTracker) Callback() func(rows int) {
	return func(rows int) { pt.UpdateProgress(int64(rows)) }
}

// returning current load metrics
func (pt *ProgressTracker) GetMetrics() LoadMetrics {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	processedRows := atomic.LoadInt64(&pt.processedRows)
	elapsedTime := time.Since(pt.startTime)

	var progressPercent float64
	if pt.totalRows > 0 {
		progressPercent = float64(processedRows) / float64(pt.totalRows) * 100
	}

	var rowsPerSecond float64
	if elapsedTime.Seconds() > 0 {
		rowsPerSecond = float64(processedRows) / elapsedTime.Seconds()
	}

	var estimatedTimeLeft time.Duration
	if rowsPerSecond > 0 && pt.totalRows > processedRows {
		remainingRows := pt.totalRows - processedRows
		estimatedTimeLeft = time.Duration(float64(remainingRows)/rowsPerSecond) * time.Second
	}

	return LoadMetrics{
		Table:             pt.table,
		TotalRows:         pt.totalRows,
		ProcessedRows:     processedRows,
		Batches:           pt.batches,
		RowsPerSecond:     rowsPerSecond,
		EstimatedTimeLeft: estimatedTimeLeft,
		ElapsedTime:       elapsedTime,
		ProgressPercent:   progressPercent,
	}
}

// logging the final load summary
func (pt *ProgressTracker) LogSummary() {
	metrics := pt.GetMetrics()

	pt.logger.WithFields(log.Fields{
		"table":    metrics.Table,
		"rows":     fmt.Sprintf("%d/%d", metrics.ProcessedRows, metrics.TotalRows),
		"batches":  metrics.Batches,
		"duration": formatDuration(metrics.ElapsedTime),
		"speed":    fmt.Sprintf("%.0f rows/sec", metrics.RowsPerSecond),
	}).Info("load summary")
}

// formats the duration in a human readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		if d <= 0 {
			return "0s"
		}
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	} else {
		return fmt.Sprintf("%ds", seconds)
	}
}
