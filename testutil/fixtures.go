package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// TestSessionID is the session id stored by the state fixtures
const TestSessionID = "3f2b8c1e-9d4a-4e6f-a1b2-c3d4e5f60718"

// CreateStateDBFixture creates a state database on disk holding items
func CreateStateDBFixture(t *testing.T, dbPath string, items map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createItemTable(t, db)
	insertItems(t, db, items)
}

// CreateSessionStateFixture creates a state database whose session slot
// already holds TestSessionID
func CreateSessionStateFixture(t *testing.T, dbPath, key string) {
	t.Helper()
	CreateStateDBFixture(t, dbPath, map[string]string{key: TestSessionID})
}

// CreateCorruptStateFixture writes a file that is not a SQLite database
func CreateCorruptStateFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(dbPath, []byte("this is not a database, just some bytes that are long enough"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt fixture: %v", err)
	}
}

func createItemTable(t *testing.T, db *sql.DB) {
	t.Helper()
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS ItemTable (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create ItemTable: %v", err)
	}
}

func insertItems(t *testing.T, db *sql.DB, items map[string]string) {
	t.Helper()
	for key, value := range items {
		if _, err := db.Exec("INSERT INTO ItemTable (key, value) VALUES (?, ?)", key, value); err != nil {
			t.Fatalf("Failed to insert %s: %v", key, err)
		}
	}
}
