package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alpsoap/storefront/internal/service"
	"github.com/alpsoap/storefront/pkg/httputil"
	"github.com/alpsoap/storefront/pkg/pagination"
	"github.com/alpsoap/storefront/pkg/validator"
)

// CheckoutHandler handles HTTP requests for order placement and history.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// PlaceOrder handles POST /api/v1/orders
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	var req service.PlaceOrderInput
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

	order, err := h.service.PlaceOrder(r.Context(), shopperID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// GetOrder handles GET /api/v1/orders/{orderId}
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	orderID, ok := httputil.ParseUUID(w, chi.URLParam(r, "orderId"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), shopperID, orderID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperIDFromContext(r.Context())

	params := pagination.FromRequest(r)

	orders, total, err := h.service.ListOrders(r.Context(), shopperID, params.PerPage, params.Offset)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(orders, total, params))
}
