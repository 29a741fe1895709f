package storefront

import "sync"

// shopperLocks serializes work per shopper id. Entries are dropped once no
// caller holds or waits on them.
type shopperLocks struct {
	mu      sync.Mutex
	entries map[string]*shopperLock
}

type shopperLock struct {
	mu   sync.Mutex
	refs int
}

func newShopperLocks() *shopperLocks {
	return &shopperLocks{entries: make(map[string]*shopperLock)}
}

// lock blocks until the shopper is free and returns the release func.
func (l *shopperLocks) lock(shopperID string) func() {
	l.mu.Lock()
	entry, ok := l.entries[shopperID]
	if !ok {
		entry = &shopperLock{}
		l.entries[shopperID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, shopperID)
		}
		l.mu.Unlock()
	}
}

func (l *shopperLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
