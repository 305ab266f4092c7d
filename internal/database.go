package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const createItemTableSQL = `
CREATE TABLE IF NOT EXISTS ItemTable (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// OpenStateDB opens (creating if needed) the SQLite state database
func OpenStateDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StorageError{Path: path, Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}
	// one connection keeps :memory: databases coherent and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	if _, err := db.Exec(createItemTableSQL); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("failed to create table: %w", err)}
	}

	return db, nil
}

// KVStore is a durable string key-value store
type KVStore interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// SQLiteKV stores key-value pairs in the ItemTable of a state database
type SQLiteKV struct {
	db   *sql.DB
	path string
}

// NewSQLiteKV wraps an open state database
func NewSQLiteKV(db *sql.DB, path string) *SQLiteKV {
	return &SQLiteKV{db: db, path: path}
}

// Get returns the value stored under key
func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM ItemTable WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Path: s.path, Op: "get", Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Set stores value under key, replacing any previous value
func (s *SQLiteKV) Set(key, value string) error {
	_, err := s.db.Exec("INSERT INTO ItemTable (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	if err != nil {
		return &StorageError{Path: s.path, Op: "set", Err: err}
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *SQLiteKV) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM ItemTable WHERE key = ?", key); err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}


// MemoryKV is a process-local KVStore
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryKV creates an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
