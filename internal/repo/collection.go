package repo

import (
	"slices"
)

// collection is one key holding a JSON array of T.
type collection[T any] struct {
	tx  *Tx
	key string
}

// All returns the whole collection, or an empty slice when the key is absent.
// The result is a copy and may be modified freely.
func (c collection[T]) All() ([]T, error) {
	if v, ok := c.tx.staged[c.key]; ok {
		return slices.Clone(v.([]T)), nil
	}
	if c.tx.removed[c.key] {
		return []T{}, nil
	}

	var list []T
	found, err := c.tx.store.Load(c.tx.ctx, c.key, &list)
	if err != nil {
		return nil, err
	}
	if !found || list == nil {
		return []T{}, nil
	}
	return list, nil
}

// SaveAll replaces the whole collection.
func (c collection[T]) SaveAll(list []T) error {
	if list == nil {
		list = []T{}
	}
	return c.tx.stage(c.key, slices.Clone(list))
}

// find returns the first element matching pred.
func (c collection[T]) find(pred func(T) bool) (T, bool, error) {
	var zero T
	list, err := c.All()
	if err != nil {
		return zero, false, err
	}
	if i := slices.IndexFunc(list, pred); i >= 0 {
		return list[i], true, nil
	}
	return zero, false, nil
}
