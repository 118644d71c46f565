package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJob(t *testing.T) {
	path := writeFile(t, "job.yaml", `
input: data/people.csv
delimiter: ";"
header: true
properties: conf/db.properties
table: public.people
batch_size: 250
verify: true
derive:
  column: full_name
  sources: [last, first]
  separator: " / "
`)

	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, "data/people.csv", job.Input)
	assert.Equal(t, ";", job.Delimiter)
	require.NotNil(t, job.Header)
	assert.True(t, *job.Header)
	assert.Equal(t, "conf/db.properties", job.Properties)
	assert.Equal(t, "public.people", job.Table)
	assert.Equal(t, 250, job.BatchSize)
	require.NotNil(t, job.Verify)
	assert.True(t, *job.Verify)
	assert.Equal(t, "full_name", job.Derive.Column)
	assert.Equal(t, []string{"last", "first"}, job.Derive.Sources)
	require.NotNil(t, job.Derive.Separator)
	assert.Equal(t, " / ", *job.Derive.Separator)
}

func TestLoadJob_Partial(t *testing.T) {
	job, err := LoadJob(writeFile(t, "job.yaml", "table: ch03\n"))
	require.NoError(t, err)
	assert.Equal(t, "ch03", job.Table)
	assert.Nil(t, job.Header)
	assert.Nil(t, job.Derive.Separator)
}

func TestLoadJob_TabDelimiter(t *testing.T) {
	job, err := LoadJob(writeFile(t, "job.yaml", "delimiter: tab\n"))
	require.NoError(t, err)
	assert.Equal(t, "tab", job.Delimiter)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{",", ','},
		{";", ';'},
		{"|", '|'},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"\t", '\t'},
	}
	for _, tc := range tests {
		got, err := ParseDelimiter(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", ";;", `"`, "\n", "\r"} {
		_, err := ParseDelimiter(bad)
		assert.ErrorIs(t, err, ErrInvalidDelimiter, "%q", bad)
	}
}

func TestLoadJob_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "table: [unclosed\n"},
		{"long delimiter", "delimiter: ';;'\n"},
		{"quote delimiter", "delimiter: '\"'\n"},
		{"negative batch", "batch_size: -1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadJob(writeFile(t, "job.yaml", tc.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadJob(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
