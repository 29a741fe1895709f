package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/state"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore/kvstoretest"
)

const testKey = "sf:shopper:s1:cart"

var (
	shirt = catalog.ProductRef{ID: 7, Title: "Silk Shirt", Image: "img7", Price: 12000}
	scarf = catalog.ProductRef{ID: 9, Title: "Cotton Scarf", Image: "img9", Price: 900}
)

func openCart(store *kvstoretest.Recorder) *Cart {
	return Open(context.Background(), state.Deps{Store: store}, testKey)
}

func storedLines(t *testing.T, store *kvstoretest.Recorder) []Line {
	t.Helper()
	raw, ok := store.Value(testKey)
	if !ok {
		t.Fatalf("expected cart to be stored")
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		t.Fatalf("decode stored cart: %v", err)
	}
	return lines
}

func TestAddMergesQuantity(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	c := openCart(store)
	ctx := context.Background()

	c.Add(ctx, shirt)
	c.Add(ctx, shirt)

	lines := c.Lines()
	if len(lines) != 1 || lines[0].ID != 7 || lines[0].Quantity != 2 {
		t.Fatalf("expected single line with quantity 2, got %#v", lines)
	}
	if stored := storedLines(t, store); len(stored) != 1 || stored[0].Quantity != 2 {
		t.Fatalf("unexpected stored cart %#v", stored)
	}
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	c := openCart(kvstoretest.New())
	ctx := context.Background()
	c.Add(ctx, scarf)
	c.Add(ctx, shirt)
	c.Add(ctx, scarf)

	lines := c.Lines()
	if lines[0].ID != 9 || lines[1].ID != 7 {
		t.Fatalf("unexpected order %#v", lines)
	}
	if c.Count() != 3 {
		t.Fatalf("expected count 3, got %d", c.Count())
	}
	if c.Total() != 2*900+12000 {
		t.Fatalf("unexpected total %d", c.Total())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	c := openCart(store)
	ctx := context.Background()
	c.Add(ctx, shirt)
	c.Add(ctx, scarf)

	c.Remove(ctx, 7)
	once := c.Lines()
	c.Remove(ctx, 7)
	twice := c.Lines()

	if len(once) != 1 || len(twice) != 1 || twice[0].ID != 9 {
		t.Fatalf("expected only scarf after removes, got %#v / %#v", once, twice)
	}
	if c.Quantity(7) != 0 {
		t.Fatalf("expected shirt gone")
	}
}

func TestRemoveOnEmptyCart(t *testing.T) {
	t.Parallel()

	c := openCart(kvstoretest.New())
	if !c.Remove(context.Background(), 42) {
		t.Fatalf("expected save to succeed")
	}
	if c.Count() != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	c := openCart(store)
	ctx := context.Background()
	c.Add(ctx, shirt)
	c.Clear(ctx)

	if c.Count() != 0 || len(c.Lines()) != 0 {
		t.Fatalf("expected empty cart")
	}
	if stored := storedLines(t, store); len(stored) != 0 {
		t.Fatalf("expected stored empty list, got %#v", stored)
	}
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()

	c := openCart(kvstoretest.New())
	ctx := context.Background()
	c.Add(ctx, shirt)

	c.SetQuantity(ctx, 7, 5)
	if c.Quantity(7) != 5 {
		t.Fatalf("expected quantity 5, got %d", c.Quantity(7))
	}
	c.SetQuantity(ctx, 99, 3)
	if len(c.Lines()) != 1 {
		t.Fatalf("unknown id must not add a line")
	}
	c.SetQuantity(ctx, 7, 0)
	if len(c.Lines()) != 0 {
		t.Fatalf("quantity 0 should remove the line")
	}
}

func TestRehydrateRoundTrip(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	ctx := context.Background()
	first := openCart(store)
	first.Add(ctx, shirt)
	first.Add(ctx, scarf)
	first.Add(ctx, shirt)

	second := openCart(store)
	a, b := first.Lines(), second.Lines()
	if len(a) != len(b) {
		t.Fatalf("rehydrated cart differs: %#v vs %#v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rehydrated line %d differs: %#v vs %#v", i, a[i], b[i])
		}
	}
}

func TestMalformedStorageOpensEmpty(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	store.Seed(testKey, `[{"id":7,"title":"Silk Shirt","price":12000,"quantity":0}]`)
	c := openCart(store)
	if c.Count() != 0 {
		t.Fatalf("expected empty cart for malformed data")
	}

	store.Seed(testKey, "<<not json>>")
	if openCart(store).Count() != 0 {
		t.Fatalf("expected empty cart for garbage")
	}
}

func TestWriteFailureKeepsInMemoryState(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	store.SetErr = errors.New("quota exceeded")
	c := openCart(store)

	if c.Add(context.Background(), shirt) {
		t.Fatalf("expected saved=false")
	}
	if c.Quantity(7) != 1 {
		t.Fatalf("in-memory state should keep the line")
	}
}

func TestReadFailureKeepsStoredCart(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	stored := `[{"id":9,"title":"Cotton Scarf","price":900,"image":"img9","quantity":2}]`
	store.Seed(testKey, stored)
	store.GetErr = errors.New("connection reset")
	ctx := context.Background()
	c := openCart(store)

	if !c.Degraded() || c.Count() != 0 {
		t.Fatalf("expected degraded empty cart")
	}
	if c.Add(ctx, shirt) {
		t.Fatalf("add after a failed read must report not saved")
	}
	if c.Quantity(7) != 1 {
		t.Fatalf("mutation should still apply in memory")
	}
	if c.Clear(ctx) {
		t.Fatalf("clear after a failed read must report not saved")
	}
	if store.Sets != 0 {
		t.Fatalf("expected no writes, got %d", store.Sets)
	}
	if raw, _ := store.Value(testKey); raw != stored {
		t.Fatalf("stored cart was overwritten: %s", raw)
	}
}

func TestAddIgnoresRefThatWouldNotReload(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	ctx := context.Background()
	c := openCart(store)
	c.Add(ctx, shirt)
	c.Add(ctx, catalog.ProductRef{ID: 4, Price: 100})
	c.Add(ctx, catalog.ProductRef{ID: 5, Title: "Bad Price", Price: -1})

	if len(c.Lines()) != 1 {
		t.Fatalf("expected invalid refs to be ignored, got %#v", c.Lines())
	}
	if lines := openCart(store).Lines(); len(lines) != 1 || lines[0].ID != 7 {
		t.Fatalf("stored cart should reload intact, got %#v", lines)
	}
}
