// Package reviews holds the star ratings a shopper gave to products.
package reviews

import (
	"context"
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/state"
	"github.com/shopspring/decimal"
)

const (
	container = "reviews"

	MinRating = 1
	MaxRating = 5
)

// Review is one rating. There is at most one review per ProductID.
type Review struct {
	ProductID    int    `json:"productId" validate:"required,gt=0"`
	ProductTitle string `json:"productTitle" validate:"required"`
	ProductImage string `json:"productImage"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Timestamp    int64  `json:"timestamp" validate:"gte=0"`
}

// ValidRating reports whether r is within 1..5.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Reviews is hydrated from storage when opened. It is not safe for concurrent use.
type Reviews struct {
	slot  *state.Slot[Review]
	items []Review
}

// Open reads the stored reviews under key. A read failure yields an empty list that
// stays in memory only.
func Open(ctx context.Context, deps state.Deps, key string) *Reviews {
	slot := state.NewSlot(deps, container, key, state.UniqueIDs(func(r Review) int { return r.ProductID }))
	items, _ := slot.Load(ctx)
	return &Reviews{slot: slot, items: items}
}

// Degraded reports whether the stored reviews could not be read.
func (r *Reviews) Degraded() bool {
	return r.slot.Degraded()
}

// Add upserts by product id. An existing review takes the new rating and timestamp.
// Reviews that would not survive a reload (rating out of range, no title) are ignored.
func (r *Reviews) Add(ctx context.Context, review Review) bool {
	if !ValidRating(review.Rating) || !r.slot.Accepts(ctx, review) {
		return !r.slot.Degraded()
	}
	if i := r.index(review.ProductID); i >= 0 {
		r.items[i].Rating = review.Rating
		r.items[i].Timestamp = review.Timestamp
	} else {
		r.items = append(r.items, review)
	}
	return r.commit(ctx, "add")
}

// Update changes the rating of an existing review. Unknown ids are a no-op.
func (r *Reviews) Update(ctx context.Context, productID, rating int) bool {
	i := r.index(productID)
	if i < 0 || !ValidRating(rating) {
		return !r.slot.Degraded()
	}
	r.items[i].Rating = rating
	return r.commit(ctx, "update")
}

// Delete removes the review for productID if present.
func (r *Reviews) Delete(ctx context.Context, productID int) bool {
	if i := r.index(productID); i >= 0 {
		r.items = append(r.items[:i], r.items[i+1:]...)
	}
	return r.commit(ctx, "delete")
}

// ClearAll empties the list and removes the storage key.
func (r *Reviews) ClearAll(ctx context.Context) bool {
	r.items = []Review{}
	r.slot.Mutated("clear")
	return r.slot.Clear(ctx)
}

// Get returns the review for productID.
func (r *Reviews) Get(productID int) (Review, bool) {
	if i := r.index(productID); i >= 0 {
		return r.items[i], true
	}
	return Review{}, false
}

func (r *Reviews) Count() int {
	return len(r.items)
}

// All returns a copy in insertion order.
func (r *Reviews) All() []Review {
	out := make([]Review, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Reviews) index(productID int) int {
	for i := range r.items {
		if r.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (r *Reviews) commit(ctx context.Context, op string) bool {
	r.slot.Mutated(op)
	return r.slot.Save(ctx, r.items)
}

// Summary is derived from the current list on every call.
type Summary struct {
	Count        int
	Average      decimal.Decimal
	Distribution map[int]int
}

// Summary returns the count, the mean rating rounded to one decimal, and the number
// of reviews per star value.
func (r *Reviews) Summary() Summary {
	s := Summary{Average: decimal.Zero, Distribution: make(map[int]int, MaxRating)}
	for star := MinRating; star <= MaxRating; star++ {
		s.Distribution[star] = 0
	}
	sum := 0
	for _, item := range r.items {
		sum += item.Rating
		s.Distribution[item.Rating]++
	}
	s.Count = len(r.items)
	if s.Count > 0 {
		s.Average = decimal.NewFromInt(int64(sum)).
			Div(decimal.NewFromInt(int64(s.Count))).
			Round(1)
	}
	return s
}

// SortOrder selects how Sorted orders reviews.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortRatingHigh SortOrder = "rating-high"
	SortRatingLow  SortOrder = "rating-low"
)

// ParseSortOrder maps a query value to a SortOrder. Unknown values report false.
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(raw))); order {
	case "":
		return SortNewest, true
	case SortNewest, SortOldest, SortRatingHigh, SortRatingLow:
		return order, true
	default:
		return SortNewest, false
	}
}

// Sorted returns a sorted copy. Ties keep insertion order.
func (r *Reviews) Sorted(order SortOrder) []Review {
	out := r.All()
	var less func(a, b Review) bool
	switch order {
	case SortOldest:
		less = func(a, b Review) bool { return a.Timestamp < b.Timestamp }
	case SortRatingHigh:
		less = func(a, b Review) bool { return a.Rating > b.Rating }
	case SortRatingLow:
		less = func(a, b Review) bool { return a.Rating < b.Rating }
	default:
		less = func(a, b Review) bool { return a.Timestamp > b.Timestamp }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// RatingLabel is the caption shown next to a star value.
func RatingLabel(rating int) string {
	switch rating {
	case 5:
		return "Absolutely Love It!"
	case 4:
		return "Really Good"
	case 3:
		return "It's Okay"
	case 2:
		return "Not Great"
	case 1:
		return "Disappointed"
	default:
		return ""
	}
}
