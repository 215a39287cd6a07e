// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"

	"workshopctl/internal/store"
)

// ErrNotFound indicates the catalog has no record for an item id. Callers
// treat it as a per-id skip, never as a batch-fatal failure.
var ErrNotFound = errors.New("workshop item not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type (
	// Lookup resolves an item id to its full catalog record. It is the
	// only piece of the catalog the registry ever touches.
	Lookup interface {
		Details(ctx context.Context, id string) (Item, error)
	}

	// Registry is the durable record of installed items, keyed by id.
	// Entries change only through explicit install/remove; nothing here
	// revalidates them against the catalog.
	Registry struct {
		items *store.Store[Item]
	}
)

// Open loads the registry collection at path.
func Open(path string) (*Registry, error) {
	items, err := store.Open(path, func(i Item) string { return i.ID })
	if err != nil {
		return nil, err
	}
	return &Registry{items: items}, nil
}

// Install upserts an already-built record keyed by its id.
func (r *Registry) Install(item Item) error {
	return r.items.Add(item)
}

// InstallID fetches the record for a raw id from the catalog and installs
// it. This is the id-flavored install interface; callers holding a full
// record use Install directly.
func (r *Registry) InstallID(ctx context.Context, catalog Lookup, id string) (Item, error) {
	item, err := catalog.Details(ctx, id)
	if err != nil {
		return Item{}, err
	}
	return item, r.Install(item)
}

// InstallAll records a batch of items with a single persist.
func (r *Registry) InstallAll(items []Item) error {
	byID := make(map[string]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return r.items.PutAll(byID)
}

// IsInstalled reports whether id is recorded as installed.
func (r *Registry) IsInstalled(id string) bool {
	_, ok := r.items.Get(id)
	return ok
}

// Get returns the recorded item for id.
func (r *Registry) Get(id string) (Item, bool) {
	return r.items.Get(id)
}

// Remove deletes one entry, returning the removed record when present.
func (r *Registry) Remove(id string) (Item, bool, error) {
	item, ok := r.items.Get(id)
	if !ok {
		return Item{}, false, nil
	}
	_, err := r.items.Remove(id)
	return item, err == nil, err
}

// List returns all installed items ordered by id.
func (r *Registry) List() []Item {
	return r.items.Values()
}

// IDs returns all installed ids in sorted order.
func (r *Registry) IDs() []string {
	return r.items.Keys()
}
