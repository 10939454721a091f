package internal

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	return db, nil
}

// KeyValuePair represents a key-value pair from cursorDiskKV or ItemTable
type KeyValuePair struct {
	Key   string
	Value string
}

// QueryCursorDiskKV queries the cursorDiskKV table for keys with the given prefix
func QueryCursorDiskKV(db *sql.DB, prefix string) ([]KeyValuePair, error) {
	pattern := strings.ReplaceAll(prefix, "%", `\%`) + "%"
	query := `SELECT key, value FROM cursorDiskKV WHERE key LIKE ? ESCAPE '\' AND value IS NOT NULL`
	rows, err := db.Query(query, pattern)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// QueryItemTable looks up a single fixed key in the ItemTable relation.
// Returns ok=false when the key has no row or a NULL value.
func QueryItemTable(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRow(`SELECT value FROM ItemTable WHERE [key] = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}
