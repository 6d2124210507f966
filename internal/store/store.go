package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

const (
	opLoad   = "load"
	opSave   = "save"
	opRemove = "remove"
	opBatch  = "save_batch"
	opSeed   = "initialize_defaults"

	outcomeOK      = "ok"
	outcomeAbsent  = "absent"
	outcomeCorrupt = "corrupt"
	outcomeError   = "error"
)

// Store encodes documents as JSON and namespaces their keys. It is safe for
// concurrent use when the backend is.
type Store struct {
	backend   Backend
	namespace string
	logger    *slog.Logger
	inst      instruments
}

type Option func(*Store)

// WithNamespace prefixes every key with ns and a colon. An empty namespace
// leaves keys as given.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.Default(),
		inst:    newInstruments(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Backend() Backend { return s.backend }

func (s *Store) Namespace() string { return s.namespace }

func (s *Store) physical(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// Load decodes the value under key into dst. found is false, with a nil
// error, when the key holds nothing; dst is untouched in that case. A value
// that does not decode yields an error wrapping ErrCorrupt.
func (s *Store) Load(ctx context.Context, key string, dst any) (found bool, err error) {
	ctx, sp := s.inst.begin(ctx, opLoad, key)

	raw, err := s.backend.Get(ctx, s.physical(key))
	switch {
	case errors.Is(err, ErrNotFound):
		sp.finish(outcomeAbsent, nil)
		return false, nil
	case err != nil:
		err = fmt.Errorf("load %q: %w", key, err)
		s.logger.ErrorContext(ctx, "store read failed", "key", key, "error", err)
		sp.finish(outcomeError, err)
		return false, err
	}

	if uerr := json.Unmarshal(raw, dst); uerr != nil {
		err = fmt.Errorf("load %q: %w: %w", key, ErrCorrupt, uerr)
		s.logger.ErrorContext(ctx, "stored value is corrupt", "key", key, "error", uerr)
		sp.finish(outcomeCorrupt, err)
		return false, err
	}

	sp.finish(outcomeOK, nil)
	return true, nil
}

// Save replaces the value under key with the JSON encoding of v.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	ctx, sp := s.inst.begin(ctx, opSave, key)

	raw, err := json.Marshal(v)
	if err != nil {
		err = fmt.Errorf("save %q: encode: %w", key, err)
		sp.finish(outcomeError, err)
		return err
	}

	if err := s.backend.Set(ctx, s.physical(key), raw); err != nil {
		err = fmt.Errorf("save %q: %w", key, err)
		s.logger.ErrorContext(ctx, "store write failed", "key", key, "error", err)
		sp.finish(outcomeError, err)
		return err
	}

	sp.finish(outcomeOK, nil)
	return nil
}

// Remove deletes key. Removing an absent key succeeds.
func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, sp := s.inst.begin(ctx, opRemove, key)

	if err := s.backend.Delete(ctx, s.physical(key)); err != nil {
		err = fmt.Errorf("remove %q: %w", key, err)
		s.logger.ErrorContext(ctx, "store delete failed", "key", key, "error", err)
		sp.finish(outcomeError, err)
		return err
	}

	sp.finish(outcomeOK, nil)
	return nil
}

// SaveBatch writes every document atomically with respect to the backend:
// either all keys are replaced or none are.
func (s *Store) SaveBatch(ctx context.Context, docs map[string]any) error {
	if len(docs) == 0 {
		return nil
	}
	return s.Commit(ctx, docs, nil)
}

// Commit replaces the documents in docs and deletes the keys in removals in
// one backend call. Nothing is written when any part fails.
func (s *Store) Commit(ctx context.Context, docs map[string]any, removals []string) error {
	if len(docs) == 0 && len(removals) == 0 {
		return nil
	}
	keys := sortedKeys(docs)
	ctx, sp := s.inst.begin(ctx, opBatch, append(keys, removals...)...)

	entries := make(map[string][]byte, len(docs))
	for _, k := range keys {
		raw, err := json.Marshal(docs[k])
		if err != nil {
			err = fmt.Errorf("save batch %q: encode: %w", k, err)
			sp.finish(outcomeError, err)
			return err
		}
		entries[s.physical(k)] = raw
	}

	deletes := make([]string, 0, len(removals))
	for _, k := range removals {
		deletes = append(deletes, s.physical(k))
	}

	if err := s.backend.Apply(ctx, entries, deletes); err != nil {
		err = fmt.Errorf("save batch: %w", err)
		s.logger.ErrorContext(ctx, "store batch write failed", "keys", keys, "removed", removals, "error", err)
		sp.finish(outcomeError, err)
		return err
	}

	sp.finish(outcomeOK, nil)
	return nil
}

// InitializeDefaults writes each seed document whose key is not yet present
// and returns the keys it wrote, sorted. Existing values are never touched,
// so calling it repeatedly is safe.
func (s *Store) InitializeDefaults(ctx context.Context, seed map[string]any) ([]string, error) {
	keys := sortedKeys(seed)
	ctx, sp := s.inst.begin(ctx, opSeed, keys...)

	var written []string
	for _, k := range keys {
		raw, err := json.Marshal(seed[k])
		if err != nil {
			err = fmt.Errorf("seed %q: encode: %w", k, err)
			sp.finish(outcomeError, err)
			return written, err
		}

		ok, err := s.backend.SetIfAbsent(ctx, s.physical(k), raw)
		if err != nil {
			err = fmt.Errorf("seed %q: %w", k, err)
			s.logger.ErrorContext(ctx, "store seed failed", "key", k, "error", err)
			sp.finish(outcomeError, err)
			return written, err
		}
		if ok {
			written = append(written, k)
		}
	}

	if len(written) > 0 {
		s.logger.InfoContext(ctx, "seeded default data", "keys", written)
	}
	sp.finish(outcomeOK, nil)
	return written, nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
