package validation

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// RowCounter reports the number of rows currently stored in a table.
type RowCounter interface {
	CountRows(ctx context.Context, table string) (int64, error)
}

// Represents the result of the validation check
type ValidationResult struct {
	TableName    string
	IsValid      bool
	ErrorMessage string
	ExpectedRows int64
	RowCount     int64
	TimeStamp    time.Time
}

// Handles post load validation against the target database
type LoadValidator struct {
	Target RowCounter
	logger *log.Entry
}

// Creating a new validator instance; a nil logger falls back to the standard logger
func NewLoadValidator(target RowCounter, logger *log.Entry) *LoadValidator {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &LoadValidator{Target: target, logger: logger}
}

// PostLoadValidation counts the rows of table and compares them with expected.
// A mismatch is reported in the result; err is set only when the count itself fails.
func (v *LoadValidator) PostLoadValidation(ctx context.Context, table string, expected int64) (ValidationResult, error) {
	result := ValidationResult{
		TableName:    table,
		ExpectedRows: expected,
		TimeStamp:    time.Now(),
	}

	count, err := v.Target.CountRows(ctx, table)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("failed to count rows in target table %s: %v", table, err)
		return result, fmt.Errorf("post-load validation of %s: %w", table, err)
	}
	result.RowCount = count

	if count != expected {
		result.ErrorMessage = fmt.Sprintf("row count mismatch, expected: %d, got target: %d", expected, count)
		v.logger.WithFields(log.Fields{"table": table, "expected": expected, "actual": count}).
			Warn("post-load validation failed")
		return result, nil
	}

	result.IsValid = true
	v.logger.WithFields(log.Fields{"table": table, "rows": count}).Info("post-load validation passed")
	return result, nil
}

// struct for validation result summary
type ValidationSummary struct {
	TotalTables    int
	ValidTables    int
	InvalidTables  int
	TotalRows      int64
	ValidationTime time.Duration
	Errors         []string
}

// creating a summary of the validation result
func GenerateValidationSummary(results []ValidationResult, startTime time.Time) ValidationSummary {
	summary := ValidationSummary{
		TotalTables:    len(results),
		ValidationTime: time.Since(startTime),
		Errors:         make([]string, 0),
	}

	for _, result := range results {
		summary.TotalRows += result.RowCount

		if result.IsValid {
			summary.ValidTables++
		} else {
			summary.InvalidTables++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Table %s: %s", result.TableName, result.ErrorMessage))
		}
	}
	return summary
}

// Log writes the summary as one structured entry, plus one entry per error.
func (s ValidationSummary) Log(logger *log.Entry, phase string) {
	logger.WithFields(log.Fields{
		"phase":          phase,
		"total_tables":   s.TotalTables,
		"valid_tables":   s.ValidTables,
		"invalid_tables": s.InvalidTables,
		"total_rows":     s.TotalRows,
		"duration":       s.ValidationTime.String(),
	}).Info("validation summary")

	for _, e := range s.Errors {
		logger.WithField("phase", phase).Error(e)
	}
}
