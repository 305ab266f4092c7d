package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory state database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	createItemTable(t, db)
	return db
}

// CreateTestDB creates an in-memory state database with sample data
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	insertItems(t, db, map[string]string{
		"voosh_session":       TestSessionID,
		"voosh_session_other": "0a1b2c3d-0000-4000-8000-000000000001",
		"ui:theme":            "dark",
	})

	// a slot that was cleared without being deleted
	if _, err := db.Exec("INSERT INTO ItemTable (key, value) VALUES (?, NULL)", "voosh_session_null"); err != nil {
		t.Fatalf("Failed to insert NULL item: %v", err)
	}

	return db
}
