package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database drivers
const (
	DriverSQLite3  = "sqlite3"  // github.com/mattn/go-sqlite3, needs cgo
	DriverSQLite   = "sqlite"   // modernc.org/sqlite, pure Go
	DriverPostgres = "postgres" // github.com/lib/pq
	DriverMemory   = "memory"   // MemoryStore, nothing persisted
)

// IsSQLite reports whether driver is one of the SQLite drivers
func IsSQLite(driver string) bool {
	return driver == DriverSQLite3 || driver == DriverSQLite
}

// ConnectDB establishes a connection for the given driver. For the SQLite
// drivers dsn is a file path; for postgres it is a connection string.
func ConnectDB(driver, dsn string) (*sql.DB, error) {
	switch {
	case IsSQLite(driver):
		path, err := expandPath(dsn)
		if err != nil {
			return nil, err
		}

		// Create the directory structure if it doesn't exist
		dbDir := filepath.Dir(path)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return nil, err
			}
		}
		dsn = path

	case driver == DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// one writer at a time
	if IsSQLite(driver) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the database schema if it doesn't exist
func EnsureSchema(db *sql.DB, driver string) error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			image_ref TEXT,
			deadline TEXT,
			completed BOOLEAN NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)
	`
	if driver == DriverPostgres {
		schema = `
		CREATE TABLE IF NOT EXISTS tasks (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			image_ref TEXT,
			deadline TEXT,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL
		)
	`
	}

	_, err := db.Exec(schema)
	return err
}

// expandPath expands a leading tilde to the home directory
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = homeDir + path[1:]
	}
	return path, nil
}
