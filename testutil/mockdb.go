package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createCursorDiskKVSQL = `
	CREATE TABLE IF NOT EXISTS cursorDiskKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`

const createItemTableSQL = `
	CREATE TABLE IF NOT EXISTS ItemTable (
		key TEXT PRIMARY KEY,
		value TEXT
	)`

// CreateInMemoryDB creates an in-memory SQLite database with both the
// cursorDiskKV and ItemTable relations
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	initStoreTables(t, db)
	return db
}

func initStoreTables(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(createCursorDiskKVSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create cursorDiskKV table: %v", err)
	}
	if _, err := db.Exec(createItemTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create ItemTable table: %v", err)
	}
}

// InsertKV inserts a row into the cursorDiskKV table
func InsertKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT OR REPLACE INTO cursorDiskKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert cursorDiskKV row %s: %v", key, err)
	}
}

// InsertItem inserts a row into the ItemTable table
func InsertItem(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT OR REPLACE INTO ItemTable (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert ItemTable row %s: %v", key, err)
	}
}
