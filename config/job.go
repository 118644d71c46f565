package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Job maps an optional job.yaml. Unset fields leave the built-in defaults
// (or explicit command line flags) in place.
type Job struct {
	Input      string `yaml:"input"`
	Delimiter  string `yaml:"delimiter"`
	Header     *bool  `yaml:"header"`
	Properties string `yaml:"properties"`
	Table      string `yaml:"table"`
	BatchSize  int    `yaml:"batch_size"`
	Verify     *bool  `yaml:"verify"`
	Derive     struct {
		Column    string   `yaml:"column"`
		Sources   []string `yaml:"sources"`
		Separator *string  `yaml:"separator"`
	} `yaml:"derive"`
}

// ErrInvalidDelimiter is returned for a delimiter the CSV reader cannot use.
var ErrInvalidDelimiter = errors.New("invalid delimiter")

// ParseDelimiter accepts a single character, or "tab" / `\t` for a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '\n' || r[0] == '\r' || r[0] == '"' || r[0] == utf8.RuneError {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r[0], nil
}

func LoadJob(filepath string) (*Job, error) {

	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file, %w", err)
	}

	var job Job
	err = yaml.Unmarshal(content, &job)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}
	if job.Delimiter != "" {
		if _, err := ParseDelimiter(job.Delimiter); err != nil {
			return nil, fmt.Errorf("job file: %w", err)
		}
	}
	if job.BatchSize < 0 {
		return nil, fmt.Errorf("job file: batch_size must not be negative")
	}
	return &job, nil
}
