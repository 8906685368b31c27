package store

import (
	"database/sql"
)

// NewTestStore creates a DB for testing with an in-memory database.
// This is only intended for use in tests.
func NewTestStore() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &DB{sqlDB}, nil
}
