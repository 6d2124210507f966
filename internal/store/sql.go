package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqlDialect struct {
	name        string
	schema      string
	get         string
	upsert      string
	insertIfNew string
	delete      string
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS kv_store (
	doc_key    TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	get: `SELECT payload FROM kv_store WHERE doc_key = ?`,
	upsert: `INSERT INTO kv_store (doc_key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (doc_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
	insertIfNew: `INSERT INTO kv_store (doc_key, payload) VALUES (?, ?) ON CONFLICT (doc_key) DO NOTHING`,
	delete:      `DELETE FROM kv_store WHERE doc_key = ?`,
}

var postgresDialect = sqlDialect{
	name: "postgres",
	schema: `CREATE TABLE IF NOT EXISTS kv_store (
	doc_key    TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	get: `SELECT payload FROM kv_store WHERE doc_key = $1`,
	upsert: `INSERT INTO kv_store (doc_key, payload, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (doc_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
	insertIfNew: `INSERT INTO kv_store (doc_key, payload) VALUES ($1, $2) ON CONFLICT (doc_key) DO NOTHING`,
	delete:      `DELETE FROM kv_store WHERE doc_key = $1`,
}

// SQLBackend stores values in a single kv_store table.
type SQLBackend struct {
	db      *sql.DB
	dialect sqlDialect
}

// NewSQLiteBackend wraps a handle opened with the modernc.org/sqlite driver.
func NewSQLiteBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db, dialect: sqliteDialect}
}

// NewPostgresBackend wraps a handle opened with the lib/pq driver.
func NewPostgresBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db, dialect: postgresDialect}
}

func (b *SQLBackend) Dialect() string { return b.dialect.name }

func (b *SQLBackend) Migrate(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, b.dialect.schema); err != nil {
		return fmt.Errorf("%s: create kv_store: %w", b.dialect.name, err)
	}
	return nil
}

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := b.db.QueryRowContext(ctx, b.dialect.get, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: get: %w", b.dialect.name, err)
	}
	return []byte(payload), nil
}

func (b *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	if _, err := b.db.ExecContext(ctx, b.dialect.upsert, key, string(value)); err != nil {
		return fmt.Errorf("%s: set: %w", b.dialect.name, err)
	}
	return nil
}

func (b *SQLBackend) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	res, err := b.db.ExecContext(ctx, b.dialect.insertIfNew, key, string(value))
	if err != nil {
		return false, fmt.Errorf("%s: set if absent: %w", b.dialect.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: rows affected: %w", b.dialect.name, err)
	}
	return n == 1, nil
}

func (b *SQLBackend) Apply(ctx context.Context, sets map[string][]byte, deletes []string) (err error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", b.dialect.name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(sets) > 0 {
		var stmt *sql.Stmt
		if stmt, err = tx.PrepareContext(ctx, b.dialect.upsert); err != nil {
			return fmt.Errorf("%s: prepare: %w", b.dialect.name, err)
		}
		defer stmt.Close()

		for k, v := range sets {
			if _, err = stmt.ExecContext(ctx, k, string(v)); err != nil {
				return fmt.Errorf("%s: set %q: %w", b.dialect.name, k, err)
			}
		}
	}

	for _, k := range deletes {
		if _, err = tx.ExecContext(ctx, b.dialect.delete, k); err != nil {
			return fmt.Errorf("%s: delete %q: %w", b.dialect.name, k, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", b.dialect.name, err)
	}
	return nil
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, b.dialect.delete, key); err != nil {
		return fmt.Errorf("%s: delete: %w", b.dialect.name, err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
