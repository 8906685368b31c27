package store

import (
	"database/sql"
	"errors"
	"time"
)

// GetValue retrieves a value by key.
// Returns ErrKeyNotFound if the key doesn't exist.
func (db *DB) GetValue(key string) (string, error) {
	var value string
	err := db.QueryRow(`
		SELECT value FROM kv WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	return value, err
}

// SetValue writes a value, replacing any previous one.
// The write is committed before SetValue returns.
func (db *DB) SetValue(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// DeleteValue removes a key. Deleting a missing key is not an error.
func (db *DB) DeleteValue(key string) error {
	_, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// UpdatedAt returns when a key was last written
func (db *DB) UpdatedAt(key string) (time.Time, error) {
	var updatedAt string
	err := db.QueryRow(`
		SELECT updated_at FROM kv WHERE key = ?
	`, key).Scan(&updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrKeyNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006-01-02 15:04:05", updatedAt, time.UTC)
}
