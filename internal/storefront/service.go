// Package storefront binds the catalog and the per-shopper state containers into
// the operations exposed over HTTP.
package storefront

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/reviews"
	"github.com/angelmondragon/storefront-backend/internal/state"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// ServiceParams groups dependencies for the storefront service.
type ServiceParams struct {
	Catalog *catalog.Catalog
	Store   kvstore.Store
	Logger  *logger.Logger
	Metrics *metrics.StateMetrics
	// Now stamps new reviews. Defaults to time.Now.
	Now func() time.Time
}

// Service exposes catalog browsing and the shopper's cart, wishlist, and reviews.
type Service interface {
	ListProducts(ctx context.Context, sel catalog.FilterSelection) ([]catalog.Product, error)
	GetProduct(ctx context.Context, productID int) (catalog.Product, error)
	Facets(ctx context.Context) catalog.Facets
	Search(ctx context.Context, query string) []catalog.Product

	GetCart(ctx context.Context, shopperID string) (CartView, error)
	AddToCart(ctx context.Context, shopperID string, productID int) (CartView, error)
	SetCartQuantity(ctx context.Context, shopperID string, productID, quantity int) (CartView, error)
	RemoveFromCart(ctx context.Context, shopperID string, productID int) (CartView, error)
	ClearCart(ctx context.Context, shopperID string) (CartView, error)

	GetWishlist(ctx context.Context, shopperID string) (WishlistView, error)
	AddToWishlist(ctx context.Context, shopperID string, productID int) (WishlistView, error)
	RemoveFromWishlist(ctx context.Context, shopperID string, productID int) (WishlistView, error)
	InWishlist(ctx context.Context, shopperID string, productID int) (MembershipView, error)

	ListReviews(ctx context.Context, shopperID string, order reviews.SortOrder) (ReviewsView, error)
	RateProduct(ctx context.Context, shopperID string, productID, rating int) (ReviewsView, error)
	UpdateReview(ctx context.Context, shopperID string, productID, rating int) (ReviewsView, error)
	DeleteReview(ctx context.Context, shopperID string, productID int) (ReviewsView, error)
	ClearReviews(ctx context.Context, shopperID string) (ReviewsView, error)

	Ping(ctx context.Context) error
}

type service struct {
	catalog *catalog.Catalog
	store   kvstore.Store
	logg    *logger.Logger
	metrics *metrics.StateMetrics
	now     func() time.Time
	locks   *shopperLocks
}

// NewService builds a storefront service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		catalog: params.Catalog,
		store:   params.Store,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     params.Now,
		locks:   newShopperLocks(),
	}, nil
}

func (s *service) ListProducts(_ context.Context, sel catalog.FilterSelection) ([]catalog.Product, error) {
	if err := sel.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid filter selection")
	}
	return s.catalog.Filter(sel), nil
}

func (s *service) GetProduct(_ context.Context, productID int) (catalog.Product, error) {
	return s.product(productID)
}

func (s *service) Facets(context.Context) catalog.Facets {
	return s.catalog.Facets()
}

func (s *service) Search(_ context.Context, query string) []catalog.Product {
	return s.catalog.Search(query)
}

func (s *service) GetCart(ctx context.Context, shopperID string) (CartView, error) {
	var view CartView
	err := s.withShopper(ctx, shopperID, func(ctx context.Context, deps state.Deps) error {
		c := cart.Open(ctx, deps, kvstore.ShopperKey(shopperID, kvstore.KeyCart))
		view = newCartView(c, !c.Degraded())
		return nil
	})
	return view, err
}

func (s *service) AddToCart(ctx context.Context, shopperID string, productID int) (CartView, error) {
	product, err := s.product(productID)
	if err != nil {
		return CartView{}, err
	}
	return s.mutateCart(ctx, shopperID, func(ctx context.Context, c *cart.Cart) bool {
		return c.Add(ctx, product.Ref())
	})
}

func (s *service) SetCartQuantity(ctx context.Context, shopperID string, productID, quantity int) (CartView, error) {
	if productID <= 0 {
		return CartView{}, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	return s.mutateCart(ctx, shopperID, func(ctx context.Context, c *cart.Cart) bool {
		return c.SetQuantity(ctx, productID, quantity)
	})
}

func (s *service) RemoveFromCart(ctx context.Context, shopperID string, productID int) (CartView, error) {
	return s.mutateCart(ctx, shopperID, func(ctx context.Context, c *cart.Cart) bool {
		return c.Remove(ctx, productID)
	})
}

func (s *service) ClearCart(ctx context.Context, shopperID string) (CartView, error) {
	return s.mutateCart(ctx, shopperID, func(ctx context.Context, c *cart.Cart) bool {
		return c.Clear(ctx)
	})
}

func (s *service) mutateCart(ctx context.Context, shopperID string, fn func(context.Context, *cart.Cart) bool) (CartView, error) {
	var view CartView
	err := s.withShopper(ctx, shopperID, func(ctx context.Context, deps state.Deps) error {
		c := cart.Open(ctx, deps, kvstore.ShopperKey(shopperID, kvstore.KeyCart))
		view = newCartView(c, fn(ctx, c))
		return nil
	})
	return view, err
}

func (s *service) GetWishlist(ctx context.Context, shopperID string) (WishlistView, error) {
	var view WishlistView
	err := s.withShopper(ctx, shopperID, func(ctx context.Context, deps state.Deps) error {
		w := wishlist.Open(ctx, deps, kvstore.ShopperKey(shopperID, kvstore.KeyWishlist))
		view = newWishlistView(w, !w.Degraded())
		return nil
	})
	return view, err
}

func (s *service) AddToWishlist(ctx context.Context, shopperID string, productID int) (WishlistView, error) {
	product, err := s.product(productID)
	if err != nil {
		return WishlistView{}, err
	}
	return s.mutateWishlist(ctx, shopperID, func(ctx context.Context, w *wishlist.Wishlist) bool {
		return w.Add(ctx, product.Ref())
	})
}

func (s *service) RemoveFromWishlist(ctx context.Context, shopperID string, productID int) (WishlistView, error) {
	return s.mutateWishlist(ctx, shopperID, func(ctx context.Context, w *wishlist.Wishlist) bool {
		return w.Remove(ctx, productID)
	})
}

func (s *service) InWishlist(ctx context.Context, shopperID string, productID int) (MembershipView, error) {
	view := MembershipView{ProductID: productID}
	err := s.withShopper(ctx, shopperID, func(ctx context.Context, deps state.Deps) error {
		w := wishlist.Open(ctx, deps, kvstore.ShopperKey(shopperID, kvstore.KeyWishlist))
		view.InWishlist = w.Contains(productID)
		return nil
	})
	return view, err
}

func (s *service) mutateWishlist(ctx context.Context, shopperID string, fn func(context.Context, *wishlist.Wishlist) bool) (WishlistView, error) {
	var view WishlistView
	err := s.withShopper(ctx, shopperID, func(ctx context.Context, deps state.Deps) error {
		w := wishlist.Open(ctx, deps, kvstore.ShopperKey(shopperID, kvstore.KeyWishlist))
		view = newWishlistView(w, fn(ctx, w))
		return nil
	})
	return view, err
}

func (s *service) ListReviews(ctx context.Context, shopperID string, order reviews.SortOrder) (ReviewsView, error) {
	return s.mutateReviews(ctx, shopperID, order, nil)
}

// RateProduct adds or replaces the shopper's rating for a catalog product.
func (s *service) RateProduct(ctx context.Context, shopperID string, productID, rating int) (ReviewsView, error) {
	if !reviews.ValidRating(rating) {
		return ReviewsView{}, ratingError(rating)
	}
	product, err := s.product(productID)
	if err != nil {
		return ReviewsView{}, err
	}
	review := reviews.Review{
		ProductID:    product.ID,
		ProductTitle: product.Title,
		ProductImage: product.PrimaryImage(),
		Rating:       rating,
		Timestamp:    s.now().UnixMilli(),
	}
	return s.mutateReviews(ctx, shopperID, reviews.SortNewest, func(ctx context.Context, r *reviews.Reviews) bool {
		return r.Add(ctx, review)
	})
}

// UpdateReview changes an existing rating. Products the shopper has not reviewed
// are left untouched.
func (s *service) UpdateReview(ctx context.Context, shopperID string, productID, rating int) (ReviewsView, error) {
	if !reviews.ValidRating(rating) {
		return ReviewsView{}, ratingError(rating)
	}
	return s.mutateReviews(ctx, shopperID, reviews.SortNewest, func(ctx context.Context, r *reviews.Reviews) bool {
		return r.Update(ctx, productID, rating)
	})
}

func (s *service) DeleteReview(ctx context.Context, shopperID string, productID int) (ReviewsView, error) {
	return s.mutateReviews(ctx, shopperID, reviews.SortNewest, func(ctx context.Context, r *reviews.Reviews) bool {
		return r.Delete(ctx, productID)
	})
}

func (s *service) ClearReviews(ctx context.Context, shopperID string) (ReviewsView, error) {
	return s.mutateReviews(ctx, shopperID, reviews.SortNewest, func(ctx context.Context, r *reviews.Reviews) bool {
		return r.ClearAll(ctx)
	})
}

// mutateReviews opens the reviews container, applies fn when set, and renders the view.
func (s *service) mutateReviews(ctx context.Context, shopperID string, order reviews.SortOrder, fn func(context.Context, *reviews.Reviews) bool) (ReviewsView, error) {
	var view ReviewsView
	err := s.withShopper(ctx, shopperID, func(ctx context.Context, deps state.Deps) error {
		r := reviews.Open(ctx, deps, kvstore.ShopperKey(shopperID, kvstore.KeyReviews))
		saved := !r.Degraded()
		if fn != nil {
			saved = fn(ctx, r)
		}
		view = newReviewsView(r, order, saved)
		return nil
	})
	return view, err
}

func (s *service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "state store unavailable")
	}
	return nil
}

func (s *service) withShopper(ctx context.Context, shopperID string, fn func(context.Context, state.Deps) error) error {
	if strings.TrimSpace(shopperID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	release := s.locks.lock(shopperID)
	defer release()

	ctx = s.logg.WithShopperID(ctx, shopperID)
	return fn(ctx, state.Deps{Store: s.store, Logger: s.logg, Metrics: s.metrics})
}

func (s *service) product(productID int) (catalog.Product, error) {
	if productID <= 0 {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	product, ok := s.catalog.FindByID(productID)
	if !ok {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func ratingError(rating int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5").
		WithDetails(map[string]any{"rating": rating})
}
