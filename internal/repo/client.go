// Package repo exposes the persisted collections as typed repositories and
// serialises every read-modify-write cycle behind one transactional boundary.
package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/store"
)

// Logical keys of the persisted documents.
const (
	KeyUsers     = "users"
	KeyPatients  = "patients"
	KeyIncidents = "incidents"
	KeySession   = "currentSession"
)

var ErrReadOnly = errors.New("repo: write in read-only transaction")

// Client is the single writer for one store. All access goes through Tx or
// View, which hold the same mutex for the whole callback.
type Client struct {
	mu    sync.Mutex
	store *store.Store
}

func New(s *store.Store) *Client {
	return &Client{store: s}
}

func (c *Client) Store() *store.Store { return c.store }

// Tx runs fn with write access. Reads inside fn see the writes fn staged
// earlier. When fn returns nil the staged collections and removals are
// committed in one backend call; when it returns an error nothing is written.
func (c *Client) Tx(ctx context.Context, fn func(*Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx := newTx(ctx, c.store, true)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

// View runs fn with read-only access.
func (c *Client) View(ctx context.Context, fn func(*Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fn(newTx(ctx, c.store, false))
}

// Initialize writes seed documents for absent keys only.
func (c *Client) Initialize(ctx context.Context, seed map[string]any) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.InitializeDefaults(ctx, seed)
}

// Snapshot is every persisted document at one point in time.
type Snapshot struct {
	Users          []model.User     `json:"users"`
	Patients       []model.Patient  `json:"patients"`
	Incidents      []model.Incident `json:"incidents"`
	CurrentSession *model.User      `json:"currentSession,omitempty"`
}

func (c *Client) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := c.View(ctx, func(tx *Tx) error {
		var err error
		if snap.Users, err = tx.Users().All(); err != nil {
			return err
		}
		if snap.Patients, err = tx.Patients().All(); err != nil {
			return err
		}
		if snap.Incidents, err = tx.Incidents().All(); err != nil {
			return err
		}
		snap.CurrentSession, err = tx.Session().Get()
		return err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return snap, nil
}
