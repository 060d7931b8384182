package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// KV is a small sqlite-backed key-value table, the local analogue of the
// browser's storage area the record collection lives in.
type KV struct {
	db *sql.DB
}

// OpenKV opens (and initializes) the key-value database at path.
func OpenKV(path string) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("error enabling WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS local_store (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	return &KV{db: db}, nil
}

// Get returns the value under key, or "" when the key is absent.
func (k *KV) Get(key string) (string, error) {
	var value string
	err := k.db.QueryRow("SELECT value FROM local_store WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (k *KV) Set(key, value string) error {
	_, err := k.db.Exec(`INSERT INTO local_store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Close closes the underlying database.
func (k *KV) Close() error {
	return k.db.Close()
}
