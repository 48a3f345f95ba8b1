package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpsoap/storefront/internal/domain"
	"github.com/alpsoap/storefront/internal/event"
	"github.com/alpsoap/storefront/internal/repository"
	apperrors "github.com/alpsoap/storefront/pkg/errors"
)

// SaveItemInput is the item descriptor supplied when the shopper saves a
// product for later. No price, no quantity.
type SaveItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"image_url"`
}

// WishlistService implements the business logic for wishlist operations.
type WishlistService struct {
	repo     repository.WishlistRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// GetWishlist retrieves the shopper's wishlist. A missing or unreadable
// snapshot yields a fresh empty wishlist, never an error.
func (s *WishlistService) GetWishlist(ctx context.Context, shopperID string) (*domain.Wishlist, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	wishlist, err := s.repo.Get(ctx, shopperID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyWishlist(shopperID), nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	return wishlist, nil
}

// AddItem saves the product unless it is already saved. Adding a duplicate
// is a silent no-op, not an error.
func (s *WishlistService) AddItem(ctx context.Context, shopperID string, input SaveItemInput) (*domain.Wishlist, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	wishlist, err := s.GetWishlist(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	expectedVersion := wishlist.Version
	if !wishlist.Add(itemFromInput(input)) {
		return wishlist, nil
	}

	if err := s.saveWishlist(ctx, wishlist, expectedVersion); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, wishlist)

	s.logger.InfoContext(ctx, "product saved to wishlist",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", input.ProductID),
	)

	return wishlist, nil
}

// RemoveItem deletes the product from the wishlist; removing a product that
// is not saved is a no-op.
func (s *WishlistService) RemoveItem(ctx context.Context, shopperID, productID string) (*domain.Wishlist, error) {
	if shopperID == "" {
		return nil, apperrors.InvalidInput("shopper id is required")
	}

	wishlist, err := s.GetWishlist(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	expectedVersion := wishlist.Version
	if !wishlist.Remove(productID) {
		return wishlist, nil
	}

	if err := s.saveWishlist(ctx, wishlist, expectedVersion); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, wishlist)

	s.logger.InfoContext(ctx, "product removed from wishlist",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", productID),
	)

	return wishlist, nil
}

// ToggleItem removes the product if saved, saves it otherwise. The membership
// check and the mutation happen within one load-modify-save cycle; the
// versioned save keeps the pair atomic against concurrent writers.
// The second return value reports whether the product is saved afterwards.
func (s *WishlistService) ToggleItem(ctx context.Context, shopperID string, input SaveItemInput) (*domain.Wishlist, bool, error) {
	if shopperID == "" {
		return nil, false, apperrors.InvalidInput("shopper id is required")
	}

	wishlist, err := s.GetWishlist(ctx, shopperID)
	if err != nil {
		return nil, false, err
	}

	expectedVersion := wishlist.Version

	saved := false
	if wishlist.Contains(input.ProductID) {
		wishlist.Remove(input.ProductID)
	} else {
		wishlist.Add(itemFromInput(input))
		saved = true
	}

	if err := s.saveWishlist(ctx, wishlist, expectedVersion); err != nil {
		return nil, false, err
	}

	s.publishUpdated(ctx, wishlist)

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", input.ProductID),
		slog.Bool("saved", saved),
	)

	return wishlist, saved, nil
}

// Contains reports whether the product is currently saved.
func (s *WishlistService) Contains(ctx context.Context, shopperID, productID string) (bool, error) {
	wishlist, err := s.GetWishlist(ctx, shopperID)
	if err != nil {
		return false, err
	}
	return wishlist.Contains(productID), nil
}

func (s *WishlistService) saveWishlist(ctx context.Context, wishlist *domain.Wishlist, expectedVersion int) error {
	wishlist.UpdatedAt = time.Now().UTC()

	ok, err := s.repo.SaveIfVersion(ctx, wishlist, expectedVersion)
	if err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	if !ok {
		return apperrors.Conflict("wishlist was modified concurrently, please retry")
	}

	return nil
}

func (s *WishlistService) publishUpdated(ctx context.Context, wishlist *domain.Wishlist) {
	if err := s.producer.PublishWishlistUpdated(ctx, wishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("shopper_id", wishlist.ShopperID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *WishlistService) newEmptyWishlist(shopperID string) *domain.Wishlist {
	now := time.Now().UTC()
	return &domain.Wishlist{
		ShopperID: shopperID,
		Items:     []domain.WishlistItem{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func itemFromInput(input SaveItemInput) domain.WishlistItem {
	return domain.WishlistItem{
		ProductID: input.ProductID,
		Name:      input.Name,
		Slug:      input.Slug,
		ImageURL:  input.ImageURL,
	}
}
