package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Alijeyrad/dentalcenter/config"
)

func OpenSQLiteFromCentral(c config.SQLiteConfig) (*sql.DB, error) {
	return OpenSQLite(SQLiteFromCentralConfig(c))
}

// OpenSQLite opens (creating if needed) the local database file. The pool is
// limited to one connection so writers never contend for the file lock.
func OpenSQLite(cfg SQLiteConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := ping(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
