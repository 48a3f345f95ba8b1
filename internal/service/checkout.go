package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alpsoap/storefront/internal/domain"
	"github.com/alpsoap/storefront/internal/event"
	"github.com/alpsoap/storefront/internal/repository"
	apperrors "github.com/alpsoap/storefront/pkg/errors"
)

// PlaceOrderInput holds the contact and shipping details from the checkout
// form. Payment is out of scope; an order is recorded as placed immediately.
type PlaceOrderInput struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required,min=1,max=200"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required"`
	Country     string `json:"country" validate:"required,len=2"`
}

// CheckoutService turns a cart into a placed order.
type CheckoutService struct {
	orders   repository.OrderRepository
	cart     *CartService
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(orders repository.OrderRepository, cart *CartService, producer *event.Producer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		cart:     cart,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrder freezes the shopper's cart into an order row, clears the cart,
// and publishes order.placed. Line prices are the add-time snapshots; the
// catalog is not consulted again. The shipping fee comes from the cart's
// canonical ShippingCost so the stored amount can never drift from what the
// frontend displayed.
func (s *CheckoutService) PlaceOrder(ctx context.Context, shopperID string, input PlaceOrderInput) (*domain.Order, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	cart, err := s.cart.GetCart(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items := make([]domain.OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Slug:      line.Slug,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:             uuid.New().String(),
		ShopperID:      shopperID,
		Status:         domain.OrderStatusPlaced,
		Items:          items,
		Subtotal:       cart.TotalPrice(),
		ShippingAmount: cart.ShippingCost(),
		Currency:       cart.Currency,
		Email:          input.Email,
		FullName:       input.FullName,
		AddressLine:    input.AddressLine,
		City:           input.City,
		PostalCode:     input.PostalCode,
		Country:        input.Country,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.Total = order.Subtotal + order.ShippingAmount

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The order exists; a failure to clear the cart must not undo it.
	if err := s.cart.ClearCart(ctx, shopperID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after order placement",
			slog.String("shopper_id", shopperID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("shopper_id", shopperID),
		slog.String("order_id", order.ID),
		slog.Int64("total", order.Total),
	)

	return order, nil
}

// GetOrder retrieves one of the shopper's orders.
func (s *CheckoutService) GetOrder(ctx context.Context, shopperID, orderID string) (*domain.Order, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.orders.GetByID(ctx, shopperID, orderID)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns a page of the shopper's order history, newest first,
// and the total count.
func (s *CheckoutService) ListOrders(ctx context.Context, shopperID string, limit, offset int) ([]*domain.Order, int, error) {
	if shopperID == "" {
		return nil, 0, apperrors.InvalidInput("shopper id is required")
	}

	orders, total, err := s.orders.ListByShopper(ctx, shopperID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}
