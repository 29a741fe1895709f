// Package kvstoretest provides an instrumented in-memory store for tests.
package kvstoretest

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
)

// Recorder wraps an in-memory store, counts calls, and can inject failures.
type Recorder struct {
	mu      sync.Mutex
	inner   *kvstore.Memory
	Gets    int
	Sets    int
	Deletes int

	GetErr    error
	SetErr    error
	DeleteErr error
}

var _ kvstore.Store = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{inner: kvstore.NewMemory()}
}

// Seed writes a value without counting it as a Set.
func (r *Recorder) Seed(key, value string) {
	_ = r.inner.Set(context.Background(), key, value)
}

// Value returns the raw stored value.
func (r *Recorder) Value(key string) (string, bool) {
	value, found, _ := r.inner.Get(context.Background(), key)
	return value, found
}

func (r *Recorder) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	r.Gets++
	err := r.GetErr
	r.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return r.inner.Get(ctx, key)
}

func (r *Recorder) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.Sets++
	err := r.SetErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.inner.Set(ctx, key, value)
}

func (r *Recorder) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	r.Deletes++
	err := r.DeleteErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.inner.Delete(ctx, key)
}

func (r *Recorder) Ping(context.Context) error {
	return nil
}

// SetCount returns the number of Set calls so far.
func (r *Recorder) SetCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Sets
}
