package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alpsoap/storefront/internal/service"
	"github.com/alpsoap/storefront/pkg/health"
	"github.com/alpsoap/storefront/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *service.CartService,
	wishlistService *service.WishlistService,
	checkoutService *service.CheckoutService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	cartHandler := NewCartHandler(cartService, logger)
	wishlistHandler := NewWishlistHandler(wishlistService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(ShopperIDFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Get("/summary", cartHandler.GetSummary)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(ShopperIDFromHeader)

		r.Get("/", wishlistHandler.GetWishlist)

		r.Post("/items", wishlistHandler.AddItem)
		r.Get("/items/{productId}", wishlistHandler.Contains)
		r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
		r.Post("/items/{productId}/toggle", wishlistHandler.ToggleItem)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(ShopperIDFromHeader)

		r.Post("/", checkoutHandler.PlaceOrder)
		r.Get("/", checkoutHandler.ListOrders)
		r.Get("/{orderId}", checkoutHandler.GetOrder)
	})

	return r
}
