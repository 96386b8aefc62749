package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const DefaultDBName = "meritscan.db"

// schemaVersion is stored in PRAGMA user_version. Bump it with every schema change.
const schemaVersion = 1

// connPragmas are applied when the database is opened.
var connPragmas = []string{
	"foreign_keys = ON",
	"busy_timeout = 5000",
}

type DB struct {
	*sql.DB
	path string
}

// openDB opens dbPath on a single connection. SQLite has one writer, and every
// extra :memory: connection would see its own empty database.
func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range connPragmas {
		if _, err := sqlDB.Exec("PRAGMA " + pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to set PRAGMA %s: %w", pragma, err)
		}
	}
	return sqlDB, nil
}

// DefaultPath returns the database path next to the binary.
func DefaultPath() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(execPath), DefaultDBName), nil
}

// Open opens or creates the access log at dbPath and brings its schema up to date.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	db := &DB{DB: sqlDB, path: dbPath}
	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrate creates the schema on a fresh file. A file stamped by a newer
// build is refused instead of being written with an older layout.
func (db *DB) migrate() error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("database %s has schema version %d, newer than supported version %d", db.path, version, schemaVersion)
	}

	if err := db.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

func (db *DB) Path() string {
	return db.path
}

// InitSchema creates every table and index. It is safe to run on an existing database.
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}
