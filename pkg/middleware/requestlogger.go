package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alpsoap/storefront/pkg/logger"
)

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, shopper_id, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// This middleware should be mounted AFTER RequestLogging (which sets
// correlation_id) and Tracing (which sets the OpenTelemetry span context).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Pick up shopper_id from context or the X-Shopper-ID header
			// (set before the identity middleware has run).
			shopperID := logger.ShopperIDFromContext(ctx)
			if shopperID == "" {
				shopperID = r.Header.Get("X-Shopper-ID")
			}
			if shopperID != "" {
				ctx = logger.WithShopperID(ctx, shopperID)
			}

			// Build enriched logger with all available context fields
			// (correlation_id, shopper_id, trace_id, span_id).
			enriched := logger.WithContext(ctx, base)

			// Store the enriched logger in context for downstream handlers.
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
