// Package wishlist holds the set of products a shopper saved for later.
//
// A Wishlist starts unloaded. Until Hydrate has run, mutations stay in memory and
// are never written, so an empty pre-hydration list cannot overwrite stored data.
package wishlist

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/state"
)

const container = "wishlist"

// Entry is one saved product. Entries are unique by ID.
type Entry struct {
	ID    int    `json:"id" validate:"required,gt=0"`
	Title string `json:"title" validate:"required"`
	Image string `json:"image"`
}

type Wishlist struct {
	slot    *state.Slot[Entry]
	entries []Entry
	loaded  bool
}

// New returns an unloaded wishlist bound to key.
func New(deps state.Deps, key string) *Wishlist {
	return &Wishlist{
		slot:    state.NewSlot(deps, container, key, state.UniqueIDs(func(e Entry) int { return e.ID })),
		entries: []Entry{},
	}
}

// Open is New followed by Hydrate.
func Open(ctx context.Context, deps state.Deps, key string) *Wishlist {
	w := New(deps, key)
	w.Hydrate(ctx)
	return w
}

// Hydrate replaces the in-memory entries with the stored ones and marks the
// wishlist loaded, even when the read failed. It never writes. After a failed read
// the wishlist is degraded and keeps its mutations in memory only.
func (w *Wishlist) Hydrate(ctx context.Context) {
	w.entries, _ = w.slot.Load(ctx)
	w.loaded = true
}

// Loaded reports whether Hydrate has completed.
func (w *Wishlist) Loaded() bool {
	return w.loaded
}

// Degraded reports whether hydration failed to read the store.
func (w *Wishlist) Degraded() bool {
	return w.slot.Degraded()
}

// Add saves the product unless it is already present. Refs without a title are ignored.
func (w *Wishlist) Add(ctx context.Context, ref catalog.ProductRef) bool {
	if w.Contains(ref.ID) {
		return w.persistable()
	}
	entry := Entry{ID: ref.ID, Title: ref.Title, Image: ref.Image}
	if !w.slot.Accepts(ctx, entry) {
		return w.persistable()
	}
	w.entries = append(w.entries, entry)
	return w.commit(ctx, "add")
}

// Remove deletes the entry for id if present.
func (w *Wishlist) Remove(ctx context.Context, id int) bool {
	for i := range w.entries {
		if w.entries[i].ID == id {
			w.entries = append(w.entries[:i], w.entries[i+1:]...)
			return w.commit(ctx, "remove")
		}
	}
	return w.persistable()
}

func (w *Wishlist) Contains(id int) bool {
	for _, e := range w.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (w *Wishlist) Count() int {
	return len(w.entries)
}

// Entries returns a copy in insertion order.
func (w *Wishlist) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// persistable reports whether the current state matches or can reach the store.
func (w *Wishlist) persistable() bool {
	return w.loaded && !w.slot.Degraded()
}

// commit persists only after a successful hydration; otherwise it reports not saved.
func (w *Wishlist) commit(ctx context.Context, op string) bool {
	w.slot.Mutated(op)
	if !w.loaded {
		return false
	}
	return w.slot.Save(ctx, w.entries)
}
