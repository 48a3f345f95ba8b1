package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alpsoap/storefront/internal/domain"
	"github.com/alpsoap/storefront/internal/event"
	"github.com/alpsoap/storefront/internal/repository"
	apperrors "github.com/alpsoap/storefront/pkg/errors"
)

// AddItemInput is the item descriptor the catalog frontend supplies when the
// shopper clicks "add to cart". Quantity is implicit: every add is +1.
// The store carries the descriptor as-is; stock levels and price sanity are
// the catalog's concern, not enforced here.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"image_url"`
	Price     int64  `json:"price" validate:"gte=0"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the shopper's cart. A missing or unreadable snapshot
// yields a fresh empty cart, never an error.
func (s *CartService) GetCart(ctx context.Context, shopperID string) (*domain.Cart, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	cart, err := s.repo.Get(ctx, shopperID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(shopperID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds one unit of the given product to the cart. If a line with the
// same product ID exists its quantity is incremented by one; otherwise a new
// line with quantity 1 is appended. There is no quantity cap and no stock
// check; repeated adds accumulate without bound.
func (s *CartService) AddItem(ctx context.Context, shopperID string, input AddItemInput) (*domain.Cart, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	cart, err := s.GetCart(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	expectedVersion := cart.Version

	if i := cart.FindItemIndex(input.ProductID); i >= 0 {
		cart.Items[i].Quantity++
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: input.ProductID,
			Name:      input.Name,
			Slug:      input.Slug,
			ImageURL:  input.ImageURL,
			Price:     input.Price,
			Quantity:  1,
		})
	}

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", input.ProductID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return cart, nil
}

// UpdateQuantity sets the quantity of the given line. A quantity of zero or
// below removes the line entirely. An unknown product ID is a no-op, not an
// error; the current cart is returned unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, shopperID, productID string, quantity int) (*domain.Cart, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	cart, err := s.GetCart(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(productID)
	if i < 0 {
		return cart, nil
	}

	expectedVersion := cart.Version

	if quantity <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = quantity
	}

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes the line with the given product ID. Removing a product
// that is not in the cart is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, shopperID, productID string) (*domain.Cart, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	cart, err := s.GetCart(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(productID)
	if i < 0 {
		return cart, nil
	}

	expectedVersion := cart.Version
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// ClearCart removes the shopper's cart snapshot entirely (used after a
// placed order).
func (s *CartService) ClearCart(ctx context.Context, shopperID string) error {
	if shopperID == "" {
		return apperrors.InvalidInput("shopper id is required")
	}

	if err := s.repo.Delete(ctx, shopperID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, shopperID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("shopper_id", shopperID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("shopper_id", shopperID),
	)

	return nil
}

// saveCart persists the cart with optimistic locking and refreshed
// timestamps.
func (s *CartService) saveCart(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return apperrors.Conflict("cart was modified concurrently, please retry")
	}

	return nil
}

// publishUpdated emits a cart.updated event; failures are logged, never
// returned, so a broker outage cannot fail a cart mutation.
func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("shopper_id", cart.ShopperID),
			slog.String("error", err.Error()),
		)
	}
}

// newEmptyCart creates a new empty cart for the given shopper.
func (s *CartService) newEmptyCart(shopperID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		ShopperID: shopperID,
		Items:     []domain.CartItem{},
		Currency:  domain.Currency,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
