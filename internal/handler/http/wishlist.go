package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alpsoap/storefront/internal/service"
	"github.com/alpsoap/storefront/pkg/httputil"
	"github.com/alpsoap/storefront/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// MembershipResponse reports whether a product is saved.
type MembershipResponse struct {
	ProductID string `json:"product_id"`
	Saved     bool   `json:"saved"`
}

// ToggleResponse carries the wishlist after a toggle plus the resulting
// membership state of the toggled product.
type ToggleResponse struct {
	Saved     bool `json:"saved"`
	ItemCount int  `json:"item_count"`
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	wishlist, err := h.service.GetWishlist(r.Context(), shopperID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	var req service.SaveItemInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	wishlist, err := h.service.AddItem(r.Context(), shopperID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}

// ToggleItem handles POST /api/v1/wishlist/items/{productId}/toggle
// The body carries the display metadata needed if the toggle turns out to be
// an add; it is ignored for a remove.
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productId is required"},
		})
		return
	}

	var req service.SaveItemInput
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
			})
			return
		}
	}
	req.ProductID = productID

	wishlist, saved, err := h.service.ToggleItem(r.Context(), shopperID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ToggleResponse{
		Saved:     saved,
		ItemCount: wishlist.ItemCount(),
	}})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productId is required"},
		})
		return
	}

	wishlist, err := h.service.RemoveItem(r.Context(), shopperID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}

// Contains handles GET /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productId is required"},
		})
		return
	}

	saved, err := h.service.Contains(r.Context(), shopperID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: MembershipResponse{
		ProductID: productID,
		Saved:     saved,
	}})
}
