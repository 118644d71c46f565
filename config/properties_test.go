package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProperties(t *testing.T) {
	path := writeFile(t, "db.properties", `# connection to the lab database
url=jdbc:postgresql://localhost:5432/spark_labs
user = postgres
password=p@ss=word
driver=org.postgresql.Driver
sslmode=require
`)

	conn, err := LoadProperties(path)
	require.NoError(t, err)

	assert.Equal(t, "jdbc:postgresql://localhost:5432/spark_labs", conn.URL)
	assert.Equal(t, "postgres", conn.User)
	assert.Equal(t, "p@ss=word", conn.Password)
	assert.Equal(t, "org.postgresql.Driver", conn.Driver)
	assert.Equal(t, map[string]string{"sslmode": "require"}, conn.Extra)
	assert.NoError(t, conn.Validate())
}

func TestLoadProperties_NoExpansion(t *testing.T) {
	conn, err := ParseProperties("url=sqlite:x.db\ndriver=sqlite\npassword=${HOME}\n")
	require.NoError(t, err)
	assert.Equal(t, "${HOME}", conn.Password)
}

func TestLoadProperties_FileMatchesParsed(t *testing.T) {
	content := "url=sqlite:x.db\ndriver=sqlite\npassword=${HOME}\nsslmode=disable\n"
	fromFile, err := LoadProperties(writeFile(t, "db.properties", content))
	require.NoError(t, err)
	parsed, err := ParseProperties(content)
	require.NoError(t, err)
	assert.Equal(t, parsed, fromFile)
	assert.Equal(t, "${HOME}", fromFile.Password)
}

func TestLoadProperties_Missing(t *testing.T) {
	_, err := LoadProperties(filepath.Join(t.TempDir(), "absent.properties"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadProperties_Unreadable(t *testing.T) {
	// a directory cannot be read as a file
	_, err := LoadProperties(t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestConnectionValidate(t *testing.T) {
	tests := []struct {
		name    string
		conn    Connection
		wantErr bool
	}{
		{"complete", Connection{URL: "postgres://h/db", Driver: "postgres", User: "u"}, false},
		{"no user is fine here", Connection{URL: "file.db", Driver: "sqlite"}, false},
		{"no url", Connection{Driver: "postgres"}, true},
		{"no driver", Connection{URL: "postgres://h/db"}, true},
		{"empty", Connection{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.conn.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMissingKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnectionRedacted(t *testing.T) {
	c := Connection{URL: "postgres://h/db", Driver: "postgres", User: "u", Password: "secret"}
	assert.NotContains(t, c.Redacted(), "secret")
	assert.Contains(t, c.Redacted(), "password=****")
}
