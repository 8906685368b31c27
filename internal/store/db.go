package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrKeyNotFound is returned when a key has never been written
var ErrKeyNotFound = errors.New("key not found")

// DB is the local key-value store backed by SQLite
type DB struct {
	*sql.DB
}

// Open opens the SQLite database in dataDir, creating it if necessary.
// The database is stored at <dataDir>/data.db
func Open(dataDir string) (*DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return OpenPath(filepath.Join(dataDir, "data.db"))
}

// OpenPath opens the SQLite database at an explicit path
func OpenPath(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Writes are synchronous and single-threaded; one connection keeps
	// in-memory databases coherent too.
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{sqlDB}, nil
}
