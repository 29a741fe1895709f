package storefront

import (
	"testing"
	"time"
)

func TestShopperLocksSerializeSameShopper(t *testing.T) {
	locks := newShopperLocks()
	release := locks.lock("a")

	acquired := make(chan struct{})
	go func() {
		r := locks.lock("a")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestShopperLocksIndependentShoppers(t *testing.T) {
	locks := newShopperLocks()
	releaseA := locks.lock("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		locks.lock("b")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shopper b blocked by shopper a")
	}
}

func TestShopperLocksReleaseEntries(t *testing.T) {
	locks := newShopperLocks()
	locks.lock("a")()
	locks.lock("b")()
	if n := locks.size(); n != 0 {
		t.Fatalf("expected no retained entries, got %d", n)
	}
}
