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

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// UpdateQuantityRequest is the JSON body for setting a line quantity.
// Zero and negative values are accepted: they delete the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartSummary carries every derived figure the frontend renders: badge
// count, totals, and the free-shipping incentive. All amounts in rappen.
type CartSummary struct {
	ItemCount             int     `json:"item_count"`
	TotalPrice            int64   `json:"total_price"`
	ShippingCost          int64   `json:"shipping_cost"`
	ShippingProgress      float64 `json:"shipping_progress"`
	FreeShippingRemaining int64   `json:"free_shipping_remaining"`
	GrandTotal            int64   `json:"grand_total"`
	Currency              string  `json:"currency"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), shopperID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// GetSummary handles GET /api/v1/cart/summary
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), shopperID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	summary := CartSummary{
		ItemCount:             cart.ItemCount(),
		TotalPrice:            cart.TotalPrice(),
		ShippingCost:          cart.ShippingCost(),
		ShippingProgress:      cart.ShippingProgress(),
		FreeShippingRemaining: cart.FreeShippingRemaining(),
		GrandTotal:            cart.TotalPrice() + cart.ShippingCost(),
		Currency:              cart.Currency,
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	var req service.AddItemInput
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

	cart, err := h.service.AddItem(r.Context(), shopperID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productId is required"},
		})
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), shopperID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productId is required"},
		})
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), shopperID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), shopperID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
