package kv

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// SQLiteStore backs the key-value contract with a single-table SQLite
// database. Preferred over FileStore for large histories since Set
// rewrites one row instead of the whole file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database at path and initializes the schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	// WAL keeps reads cheap while a write is in progress.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Size reports the on-disk size of the database file.
func (s *SQLiteStore) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
