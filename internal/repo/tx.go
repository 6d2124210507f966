package repo

import (
	"context"
	"fmt"
	"sort"

	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/store"
)

// Tx stages writes in memory until the owning Client commits them.
type Tx struct {
	ctx      context.Context
	store    *store.Store
	writable bool

	staged  map[string]any
	removed map[string]bool
}

func newTx(ctx context.Context, s *store.Store, writable bool) *Tx {
	return &Tx{
		ctx:      ctx,
		store:    s,
		writable: writable,
		staged:   make(map[string]any),
		removed:  make(map[string]bool),
	}
}

func (tx *Tx) Context() context.Context { return tx.ctx }

func (tx *Tx) Users() Users { return Users{collection[model.User]{tx: tx, key: KeyUsers}} }
func (tx *Tx) Patients() Patients { return Patients{collection[model.Patient]{tx: tx, key: KeyPatients}} }
func (tx *Tx) Incidents() Incidents { return Incidents{collection[model.Incident]{tx: tx, key: KeyIncidents}} }
func (tx *Tx) Session() Session { return Session{tx: tx} }

func (tx *Tx) stage(key string, v any) error {
	if !tx.writable {
		return ErrReadOnly
	}
	delete(tx.removed, key)
	tx.staged[key] = v
	return nil
}

func (tx *Tx) unstage(key string) error {
	if !tx.writable {
		return ErrReadOnly
	}
	delete(tx.staged, key)
	tx.removed[key] = true
	return nil
}

func (tx *Tx) commit() error {
	if len(tx.staged) == 0 && len(tx.removed) == 0 {
		return nil
	}

	removals := make([]string, 0, len(tx.removed))
	for k := range tx.removed {
		removals = append(removals, k)
	}
	sort.Strings(removals)

	if err := tx.store.Commit(tx.ctx, tx.staged, removals); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
