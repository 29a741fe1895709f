// Package state persists shopper state containers as whole JSON documents in a
// kvstore.Store. Missing or malformed values hydrate as empty. A failed read leaves
// the slot degraded: the stored value is unknown, so later writes are refused rather
// than overwriting it. Writes report success so callers can tell the shopper when a
// change was not saved.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrMalformed marks a stored value that does not have the expected shape.
var ErrMalformed = errors.New("malformed stored state")

// Deps are the collaborators shared by every slot.
type Deps struct {
	Store   kvstore.Store
	Logger  *logger.Logger
	Metrics *metrics.StateMetrics
}

// Slot reads and writes one list-valued key.
type Slot[T any] struct {
	deps      Deps
	key       string
	container string
	check     func([]T) error
	degraded  bool
}

// NewSlot binds a slot to key. container names the owner in logs and metrics.
// check, when set, enforces list-level invariants such as unique ids.
func NewSlot[T any](deps Deps, container, key string, check func([]T) error) *Slot[T] {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Slot[T]{deps: deps, key: key, container: container, check: check}
}

// Key returns the storage key.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load returns the stored list. A missing key or a malformed value yields an empty
// list with ok=true. A read failure yields an empty list with ok=false and degrades
// the slot until the next successful Load.
func (s *Slot[T]) Load(ctx context.Context) (items []T, ok bool) {
	raw, found, err := s.deps.Store.Get(ctx, s.key)
	if err != nil {
		s.degraded = true
		s.deps.Metrics.IncLoadFailure(s.container)
		s.deps.Logger.WarnErr(s.logCtx(ctx), "state.load_failed", err)
		return []T{}, false
	}
	s.degraded = false
	if !found {
		return []T{}, true
	}

	items, err = s.decode(raw)
	if err != nil {
		s.deps.Metrics.IncMalformed(s.container)
		s.deps.Logger.WarnErr(s.logCtx(ctx), "state.malformed", err)
		return []T{}, true
	}
	return items, true
}

// Degraded reports whether the last Load failed to read the store.
func (s *Slot[T]) Degraded() bool {
	return s.degraded
}

// Save overwrites the key with the full list. It reports whether the write landed.
// A degraded slot never writes.
func (s *Slot[T]) Save(ctx context.Context, items []T) bool {
	if s.degraded {
		s.skipped(ctx, "save")
		return false
	}
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err == nil {
		err = s.deps.Store.Set(ctx, s.key, string(payload))
	}
	if err != nil {
		s.deps.Metrics.IncSaveFailure(s.container)
		s.deps.Logger.WarnErr(s.logCtx(ctx), "state.save_failed", err)
		return false
	}
	return true
}

// Clear deletes the key. It reports whether the delete landed. A degraded slot
// never deletes.
func (s *Slot[T]) Clear(ctx context.Context) bool {
	if s.degraded {
		s.skipped(ctx, "clear")
		return false
	}
	if err := s.deps.Store.Delete(ctx, s.key); err != nil {
		s.deps.Metrics.IncSaveFailure(s.container)
		s.deps.Logger.WarnErr(s.logCtx(ctx), "state.clear_failed", err)
		return false
	}
	return true
}

// Accepts reports whether item passes the same validation Load applies to stored
// elements. Rejected items are logged.
func (s *Slot[T]) Accepts(ctx context.Context, item T) bool {
	if err := validate.Struct(item); err != nil {
		s.deps.Logger.WarnErr(s.logCtx(ctx), "state.item_rejected", err)
		return false
	}
	return true
}

// Mutated records a successful in-memory mutation.
func (s *Slot[T]) Mutated(op string) {
	s.deps.Metrics.IncMutation(s.container, op)
}

func (s *Slot[T]) skipped(ctx context.Context, op string) {
	s.deps.Metrics.IncSaveFailure(s.container)
	s.deps.Logger.Warn(s.deps.Logger.WithField(s.logCtx(ctx), "op", op), "state.write_skipped")
}

func (s *Slot[T]) decode(raw string) ([]T, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var items []T
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if items == nil {
		return []T{}, nil
	}
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformed, i, err)
		}
	}
	if s.check != nil {
		if err := s.check(items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return items, nil
}

func (s *Slot[T]) logCtx(ctx context.Context) context.Context {
	return s.deps.Logger.WithFields(ctx, map[string]any{
		"container": s.container,
		"state_key": s.key,
	})
}

// UniqueIDs builds a check that rejects lists with repeated ids.
func UniqueIDs[T any](id func(T) int) func([]T) error {
	return func(items []T) error {
		seen := make(map[int]struct{}, len(items))
		for _, item := range items {
			k := id(item)
			if _, dup := seen[k]; dup {
				return fmt.Errorf("duplicate id %d", k)
			}
			seen[k] = struct{}{}
		}
		return nil
	}
}
