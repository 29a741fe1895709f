package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/storefront"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// NewRouter wires health, metrics, and the shopper-facing /api/v1 surface.
// metricsHandler may be nil when metrics are not exported.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc storefront.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, svc))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ShopperContext(logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svc, logg))
			r.Get("/facets", controllers.ProductFacets(svc, logg))
			r.Get("/{productId}", controllers.ProductDetail(svc, logg))
		})
		r.Get("/search", controllers.ProductSearch(svc, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svc, logg))
			r.Delete("/", controllers.CartClear(svc, logg))
			r.Post("/items", controllers.CartAddItem(svc, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(svc, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(svc, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svc, logg))
			r.Post("/items", controllers.WishlistAddItem(svc, logg))
			r.Get("/items/{productId}", controllers.WishlistContains(svc, logg))
			r.Delete("/items/{productId}", controllers.WishlistRemoveItem(svc, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.ReviewList(svc, logg))
			r.Delete("/", controllers.ReviewClearAll(svc, logg))
			r.Put("/{productId}", controllers.ReviewUpsert(svc, logg))
			r.Patch("/{productId}", controllers.ReviewUpdate(svc, logg))
			r.Delete("/{productId}", controllers.ReviewDelete(svc, logg))
		})
	})

	return r
}
