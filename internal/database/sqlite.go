package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed migrations/001_schema.sql
var schema string

// DB wraps the SQL database connection. Repositories for users, platforms and
// usage logs are methods on DB (users.go, platforms.go, usage.go).
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the SQLite database at dbPath and applies
// the embedded schema.
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// _time_format=sqlite stores time.Time values in a form SQLite's own
	// date functions can parse; the daily analytics queries rely on it.
	conn, err := sql.Open("sqlite", "file:"+dbPath+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys are off by default in SQLite; usage_logs and platforms
	// rely on them.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Avoid SQLITE_BUSY under concurrent request handlers.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if _, err := db.conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema failed: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}
