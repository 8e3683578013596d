package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and configures a backend.
type Config struct {
	// Driver is detected from URL when empty or "auto".
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath is the database file used in local mode.
	SQLitePath string
	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

type connector func(ctx context.Context, cfg Config) (Connection, error)

var connectors = map[Driver]connector{}

// RegisterPostgresDriver is called from the postgres package's init.
func RegisterPostgresDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	connectors[DriverPostgres] = fn
}

// RegisterSQLiteDriver is called from the sqlite package's init.
func RegisterSQLiteDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	connectors[DriverSQLite] = fn
}

// NewConnection opens a connection for cfg. The driver package must be
// imported (usually blank) by the binary for its connector to be registered.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	connect, ok := connectors[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %s is not linked into this binary", driver)
	}
	return connect(ctx, cfg)
}

// DefaultSQLitePath is ~/.garage/garage.db.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".garage", "garage.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
