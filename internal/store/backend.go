// Package store persists named JSON documents in a pluggable key-value
// backend. Every read reports whether the key was present and every failure
// is returned to the caller.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Backend when a key holds no value.
	ErrNotFound = errors.New("store: key not found")

	// ErrCorrupt is returned by Store.Load when a stored value is not valid
	// JSON for the destination type.
	ErrCorrupt = errors.New("store: stored value is corrupt")

	ErrClosed = errors.New("store: backend closed")
)

// Backend is a flat byte-oriented key-value map.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent writes value only when key is unset and reports whether it
	// wrote.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	// Apply writes every entry in sets and removes every key in deletes as
	// one unit: either all changes land or none do. A key in both is removed.
	Apply(ctx context.Context, sets map[string][]byte, deletes []string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Migrator is implemented by backends that need schema setup before use.
type Migrator interface {
	Migrate(ctx context.Context) error
}
