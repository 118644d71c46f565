package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mock row counter for testing
type MockRowCounter struct {
	counts map[string]int64
	failOn string //table name to fail on
	calls  int
}

func NewMockRowCounter() *MockRowCounter {
	return &MockRowCounter{counts: make(map[string]int64)}
}

func (m *MockRowCounter) CountRows(ctx context.Context, table string) (int64, error) {
	m.calls++
	if table == m.failOn {
		return 0, errors.New("mock error for table " + table)
	}
	return m.counts[table], nil
}

func newValidator(target RowCounter) (*LoadValidator, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewLoadValidator(target, log.NewEntry(logger)), hook
}

func TestPostLoadValidation_Match(t *testing.T) {
	target := NewMockRowCounter()
	target.counts["spark.ch02"] = 2

	v, hook := newValidator(target)
	result, err := v.PostLoadValidation(context.Background(), "spark.ch02", 2)

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, int64(2), result.RowCount)
	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, 1, target.calls)
	assert.Equal(t, "post-load validation passed", hook.LastEntry().Message)
}

func TestPostLoadValidation_Mismatch(t *testing.T) {
	target := NewMockRowCounter()
	target.counts["spark.ch02"] = 4

	v, hook := newValidator(target)
	result, err := v.PostLoadValidation(context.Background(), "spark.ch02", 2)

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "expected: 2")
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func TestPostLoadValidation_CountFails(t *testing.T) {
	target := NewMockRowCounter()
	target.failOn = "spark.ch02"

	v, _ := newValidator(target)
	result, err := v.PostLoadValidation(context.Background(), "spark.ch02", 2)

	assert.Error(t, err)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "mock error")
}

func TestGenerateValidationSummary(t *testing.T) {
	startTime := time.Now().Add(-time.Second)
	results := []ValidationResult{
		{TableName: "a", IsValid: true, RowCount: 10},
		{TableName: "b", IsValid: false, RowCount: 3, ErrorMessage: "row count mismatch"},
	}

	summary := GenerateValidationSummary(results, startTime)

	assert.Equal(t, 2, summary.TotalTables)
	assert.Equal(t, 1, summary.ValidTables)
	assert.Equal(t, 1, summary.InvalidTables)
	assert.Equal(t, int64(13), summary.TotalRows)
	assert.GreaterOrEqual(t, summary.ValidationTime, time.Second)
	assert.Equal(t, []string{"Table b: row count mismatch"}, summary.Errors)

	logger, hook := test.NewNullLogger()
	summary.Log(log.NewEntry(logger), "post-load")
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, "validation summary", hook.AllEntries()[0].Message)
	assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
}

func TestNewLoadValidator_NilLogger(t *testing.T) {
	v := NewLoadValidator(NewMockRowCounter(), nil)
	_, err := v.PostLoadValidation(context.Background(), "t", 0)
	assert.NoError(t, err)
}
