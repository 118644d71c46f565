package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/magiconair/properties"
)

// keys every connection properties file is expected to carry
const (
	KeyURL      = "url"
	KeyUser     = "user"
	KeyPassword = "password"
	KeyDriver   = "driver"
)

var (
	// ErrNotFound is returned when the properties file does not exist.
	ErrNotFound = errors.New("properties file not found")

	// ErrMissingKey is returned when a required connection key is absent or blank.
	ErrMissingKey = errors.New("missing required property")
)

// Connection holds the database connectivity settings read from a
// properties file such as
//
//	url=jdbc:postgresql://localhost:5432/spark_labs
//	user=postgres
//	password=postgres
//	driver=org.postgresql.Driver
type Connection struct {
	URL      string
	User     string
	Password string
	Driver   string

	// Extra carries any other keys found in the file, verbatim.
	Extra map[string]string
}

// values are taken literally, as java.util.Properties does; no ${} expansion
var loader = &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

// LoadProperties reads a connection properties file. The file is read in
// full and closed before returning, whether or not parsing succeeds.
func LoadProperties(path string) (*Connection, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to load properties file %s: %w", path, err)
	}
	conn, err := ParseProperties(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conn, nil
}

// ParseProperties parses properties content already held in memory.
func ParseProperties(content string) (*Connection, error) {
	p, err := loader.LoadBytes([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties: %w", err)
	}
	return connectionFromMap(p.Map()), nil
}

func connectionFromMap(m map[string]string) *Connection {
	c := &Connection{Extra: make(map[string]string)}
	for k, v := range m {
		switch k {
		case KeyURL:
			c.URL = strings.TrimSpace(v)
		case KeyUser:
			c.User = v
		case KeyPassword:
			c.Password = v
		case KeyDriver:
			c.Driver = strings.TrimSpace(v)
		default:
			c.Extra[k] = v
		}
	}
	return c
}

// Validate checks the keys needed to reach any database. Whether a user is
// required depends on the backend and is checked by the caller.
func (c *Connection) Validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, KeyURL)
	}
	if c.Driver == "" {
		missing = append(missing, KeyDriver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}
	return nil
}

// Redacted renders the connection for logs without the password.
func (c *Connection) Redacted() string {
	pw := ""
	if c.Password != "" {
		pw = "****"
	}
	return fmt.Sprintf("driver=%s url=%s user=%s password=%s", c.Driver, c.URL, c.User, pw)
}
