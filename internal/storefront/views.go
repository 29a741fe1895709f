package storefront

import (
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/reviews"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
)

// CartView is the cart as returned to the shopper. Saved is false when the last
// write did not reach storage.
type CartView struct {
	Items []cart.Line `json:"items"`
	Count int         `json:"count"`
	Total int         `json:"total"`
	Saved bool        `json:"saved"`
}

type WishlistView struct {
	Items []wishlist.Entry `json:"items"`
	Count int              `json:"count"`
	Saved bool             `json:"saved"`
}

// MembershipView answers whether one product is in the wishlist.
type MembershipView struct {
	ProductID  int  `json:"product_id"`
	InWishlist bool `json:"in_wishlist"`
}

type ReviewView struct {
	reviews.Review
	Label string `json:"label"`
}

type ReviewSummaryView struct {
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

type ReviewsView struct {
	Items   []ReviewView      `json:"items"`
	Summary ReviewSummaryView `json:"summary"`
	Sort    string            `json:"sort"`
	Saved   bool              `json:"saved"`
}

func newCartView(c *cart.Cart, saved bool) CartView {
	return CartView{
		Items: c.Lines(),
		Count: c.Count(),
		Total: c.Total(),
		Saved: saved,
	}
}

func newWishlistView(w *wishlist.Wishlist, saved bool) WishlistView {
	return WishlistView{
		Items: w.Entries(),
		Count: w.Count(),
		Saved: saved,
	}
}

func newReviewsView(r *reviews.Reviews, order reviews.SortOrder, saved bool) ReviewsView {
	sorted := r.Sorted(order)
	items := make([]ReviewView, 0, len(sorted))
	for _, review := range sorted {
		items = append(items, ReviewView{Review: review, Label: reviews.RatingLabel(review.Rating)})
	}
	summary := r.Summary()
	return ReviewsView{
		Items: items,
		Summary: ReviewSummaryView{
			Count:        summary.Count,
			Average:      summary.Average.InexactFloat64(),
			Distribution: summary.Distribution,
		},
		Sort:  string(order),
		Saved: saved,
	}
}
