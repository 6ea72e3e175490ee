package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSQLitePath is the database file used when nothing is configured.
const DefaultSQLitePath = "database.db"

// Config selects and parameterises a backend.
type Config struct {
	// Driver forces a backend. Empty means detect from URL.
	Driver Driver

	// URL is a postgres:// DSN or a sqlite:// / file: path.
	URL string

	// SQLitePath overrides the path derived from URL.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool. Zero keeps the pgx default.
	MaxConns int
}

type connector func(ctx context.Context, cfg Config) (Connection, error)

var connectors = map[Driver]connector{}

// RegisterDriver installs the connection factory for d. Driver packages call
// it from init, so importing them for side effects enables the backend.
func RegisterDriver(d Driver, fn func(ctx context.Context, cfg Config) (Connection, error)) {
	connectors[d] = fn
}

// NewConnection opens a connection for the configured backend.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported database url %q", cfg.URL)
	}

	if driver == DriverSQLite && cfg.SQLitePath == "" {
		cfg.SQLitePath = SQLitePathFromURL(cfg.URL)
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = DefaultSQLitePath
		}
	}

	fn, ok := connectors[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %s is not registered", driver)
	}
	return fn(ctx, cfg)
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
