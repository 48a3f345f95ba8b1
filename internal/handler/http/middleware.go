package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/alpsoap/storefront/pkg/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// shopperIDKey is the context key for the shopper identity.
const shopperIDKey contextKey = "shopper_id"

// ShopperIDFromHeader reads the X-Shopper-ID header (a device-scoped ID the
// web frontend mints on first visit) and stores it in the request context.
// Requests without it are rejected; there is no state to operate on.
func ShopperIDFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get("X-Shopper-ID")
		if sid == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Shopper-ID header is required"},
			})
			return
		}
		ctx := context.WithValue(r.Context(), shopperIDKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// shopperIDFromContext extracts the shopper ID stored by ShopperIDFromHeader.
func shopperIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(shopperIDKey).(string)
	return sid
}

// ContentTypeJSON enforces that requests with a body declare JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
