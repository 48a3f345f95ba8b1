package repository

import (
	"context"

	"github.com/alpsoap/storefront/internal/domain"
)

// CartRepository defines the persistence contract for cart snapshots.
type CartRepository interface {
	// Get retrieves the cart snapshot for a shopper. A missing or unreadable
	// snapshot yields apperrors.ErrNotFound; callers start from an empty cart.
	Get(ctx context.Context, shopperID string) (*domain.Cart, error)

	// Save writes the snapshot unconditionally, overwriting any prior state.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion writes the snapshot only if the stored version still
	// matches expectedVersion (0 for a snapshot that does not exist yet).
	// On success the cart's version is advanced. Returns false, nil when
	// the snapshot was modified concurrently.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes the shopper's snapshot. Deleting a missing snapshot
	// is not an error.
	Delete(ctx context.Context, shopperID string) error
}

// WishlistRepository defines the persistence contract for wishlist snapshots.
// Same snapshot model as the cart; wishlists are only ever emptied item by
// item, so there is no Delete.
type WishlistRepository interface {
	Get(ctx context.Context, shopperID string) (*domain.Wishlist, error)
	Save(ctx context.Context, wishlist *domain.Wishlist) error
	SaveIfVersion(ctx context.Context, wishlist *domain.Wishlist, expectedVersion int) (bool, error)
}

// OrderRepository defines the persistence contract for placed orders.
type OrderRepository interface {
	// Create inserts a new order row.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order, scoped to the owning shopper.
	GetByID(ctx context.Context, shopperID, orderID string) (*domain.Order, error)

	// ListByShopper returns a page of the shopper's orders, newest first,
	// along with the total count.
	ListByShopper(ctx context.Context, shopperID string, limit, offset int) ([]*domain.Order, int, error)
}
