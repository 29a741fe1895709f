package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/state"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore/kvstoretest"
)

const testKey = "sf:shopper:s1:reviews"

func openReviews(store *kvstoretest.Recorder) *Reviews {
	return Open(context.Background(), state.Deps{Store: store}, testKey)
}

func review(id, rating int, ts int64) Review {
	return Review{ProductID: id, ProductTitle: "Product", ProductImage: "img", Rating: rating, Timestamp: ts}
}

func TestAddUpsertsByProductID(t *testing.T) {
	t.Parallel()

	r := openReviews(kvstoretest.New())
	ctx := context.Background()
	r.Add(ctx, review(1, 4, 100))
	r.Add(ctx, review(1, 5, 200))

	all := r.All()
	if len(all) != 1 {
		t.Fatalf("expected one review, got %#v", all)
	}
	if all[0].Rating != 5 || all[0].Timestamp != 200 {
		t.Fatalf("expected rating 5 at ts 200, got %#v", all[0])
	}
}

func TestAddIgnoresOutOfRangeRating(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	r := openReviews(store)
	r.Add(context.Background(), review(1, 6, 100))
	r.Add(context.Background(), review(2, 0, 100))
	if r.Count() != 0 || store.Sets != 0 {
		t.Fatalf("invalid ratings must be ignored")
	}
}

func TestAddIgnoresUntitledReview(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	r := openReviews(store)
	r.Add(context.Background(), review(1, 4, 100))
	r.Add(context.Background(), Review{ProductID: 2, Rating: 3, Timestamp: 100})

	if r.Count() != 1 || store.Sets != 1 {
		t.Fatalf("expected untitled review to be ignored, count=%d sets=%d", r.Count(), store.Sets)
	}
	if again := openReviews(store); again.Count() != 1 {
		t.Fatalf("stored reviews should reload intact")
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	r := openReviews(store)
	ctx := context.Background()
	r.Add(ctx, review(1, 2, 100))

	r.Update(ctx, 1, 3)
	got, ok := r.Get(1)
	if !ok || got.Rating != 3 || got.Timestamp != 100 {
		t.Fatalf("unexpected review after update %#v", got)
	}

	writes := store.Sets
	r.Update(ctx, 42, 5)
	if r.Count() != 1 || store.Sets != writes {
		t.Fatalf("update of unknown id should be a no-op")
	}
}

func TestDeleteAndClearAll(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	r := openReviews(store)
	ctx := context.Background()
	r.Add(ctx, review(1, 4, 100))
	r.Add(ctx, review(2, 3, 200))

	r.Delete(ctx, 1)
	r.Delete(ctx, 1)
	if r.Count() != 1 {
		t.Fatalf("expected one review left, got %d", r.Count())
	}

	r.ClearAll(ctx)
	if r.Count() != 0 {
		t.Fatalf("expected empty list")
	}
	if _, found := store.Value(testKey); found {
		t.Fatalf("expected storage key removed")
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	r := openReviews(kvstoretest.New())
	empty := r.Summary()
	if empty.Count != 0 || !empty.Average.IsZero() || empty.Distribution[5] != 0 {
		t.Fatalf("unexpected empty summary %#v", empty)
	}

	ctx := context.Background()
	r.Add(ctx, review(1, 5, 1))
	r.Add(ctx, review(2, 4, 2))
	r.Add(ctx, review(3, 4, 3))

	s := r.Summary()
	if s.Count != 3 {
		t.Fatalf("expected count 3, got %d", s.Count)
	}
	if s.Average.String() != "4.3" {
		t.Fatalf("expected average 4.3, got %s", s.Average)
	}
	if s.Distribution[5] != 1 || s.Distribution[4] != 2 || s.Distribution[1] != 0 {
		t.Fatalf("unexpected distribution %#v", s.Distribution)
	}
}

func TestSorted(t *testing.T) {
	t.Parallel()

	r := openReviews(kvstoretest.New())
	ctx := context.Background()
	r.Add(ctx, review(1, 3, 200))
	r.Add(ctx, review(2, 5, 100))
	r.Add(ctx, review(3, 1, 300))

	cases := map[SortOrder][]int{
		SortNewest:     {3, 1, 2},
		SortOldest:     {2, 1, 3},
		SortRatingHigh: {2, 1, 3},
		SortRatingLow:  {3, 1, 2},
	}
	for order, want := range cases {
		got := r.Sorted(order)
		for i := range want {
			if got[i].ProductID != want[i] {
				t.Fatalf("%s: expected %v, got %#v", order, want, got)
			}
		}
	}
	if r.All()[0].ProductID != 1 {
		t.Fatalf("sorting must not reorder the stored list")
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	if order, ok := ParseSortOrder(""); !ok || order != SortNewest {
		t.Fatalf("empty should default to newest")
	}
	if order, ok := ParseSortOrder("Rating-High"); !ok || order != SortRatingHigh {
		t.Fatalf("expected rating-high, got %s", order)
	}
	if _, ok := ParseSortOrder("random"); ok {
		t.Fatalf("expected unknown order to be rejected")
	}
}

func TestRatingLabel(t *testing.T) {
	t.Parallel()

	if RatingLabel(5) != "Absolutely Love It!" || RatingLabel(1) != "Disappointed" || RatingLabel(0) != "" {
		t.Fatalf("unexpected labels")
	}
}

func TestRehydrateRoundTrip(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	ctx := context.Background()
	first := openReviews(store)
	first.Add(ctx, review(4, 2, 10))
	first.Add(ctx, review(8, 5, 20))

	a, b := first.All(), openReviews(store).All()
	if len(a) != 2 || len(b) != 2 || a[0] != b[0] || a[1] != b[1] {
		t.Fatalf("rehydrated reviews differ: %#v vs %#v", a, b)
	}
}

func TestMalformedAndFailingStorage(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	store.Seed(testKey, `[{"productId":1,"productTitle":"x","rating":9,"timestamp":1}]`)
	r := openReviews(store)
	if r.Count() != 0 {
		t.Fatalf("expected malformed data to hydrate empty")
	}

	store.SetErr = errors.New("quota exceeded")
	if r.Add(context.Background(), review(1, 4, 1)) {
		t.Fatalf("expected saved=false")
	}
	if r.Count() != 1 {
		t.Fatalf("expected in-memory review to remain")
	}
}

func TestReadFailureKeepsStoredReviews(t *testing.T) {
	t.Parallel()

	store := kvstoretest.New()
	stored := `[{"productId":1,"productTitle":"Product","productImage":"img","rating":5,"timestamp":10}]`
	store.Seed(testKey, stored)
	store.GetErr = errors.New("read timeout")
	ctx := context.Background()
	r := openReviews(store)

	if !r.Degraded() || r.Count() != 0 {
		t.Fatalf("expected degraded empty reviews")
	}
	if r.Add(ctx, review(2, 3, 20)) {
		t.Fatalf("add after a failed read must report not saved")
	}
	if r.Update(ctx, 9, 4) {
		t.Fatalf("no-op update after a failed read must report not saved")
	}
	if r.ClearAll(ctx) {
		t.Fatalf("clear after a failed read must report not saved")
	}
	if store.Sets != 0 || store.Deletes != 0 {
		t.Fatalf("expected no writes, got sets=%d deletes=%d", store.Sets, store.Deletes)
	}
	if raw, _ := store.Value(testKey); raw != stored {
		t.Fatalf("stored reviews were overwritten: %s", raw)
	}
}
