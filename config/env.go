package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// environment variables that take precedence over the properties file
const (
	EnvURL      = "CSV2DB_URL"
	EnvUser     = "CSV2DB_USER"
	EnvPassword = "CSV2DB_PASSWORD"
	EnvDriver   = "CSV2DB_DRIVER"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Missing files are ignored; variables that are
// already set are never replaced.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnvOverrides replaces connection settings with the CSV2DB_* variables
// that are set and returns the names of the variables applied.
func ApplyEnvOverrides(c *Connection) []string {
	var applied []string
	override := func(env string, dst *string) {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
			applied = append(applied, env)
		}
	}
	override(EnvURL, &c.URL)
	override(EnvUser, &c.User)
	override(EnvPassword, &c.Password)
	override(EnvDriver, &c.Driver)
	return applied
}
