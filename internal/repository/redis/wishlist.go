package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alpsoap/storefront/internal/domain"
	apperrors "github.com/alpsoap/storefront/pkg/errors"
)

// wishlistKeyPrefix matches the snapshot name the web frontend historically
// used for its local wishlist store.
const wishlistKeyPrefix = "wishlist-storage:"

// WishlistRepository stores wishlist snapshots as JSON strings in Redis.
// It shares the compare-and-swap script with the cart repository; both
// snapshots embed their version in the JSON payload.
type WishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewWishlistRepository creates a Redis-backed wishlist repository. A zero
// or negative ttl disables expiry (wishlists outlive carts).
func NewWishlistRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *WishlistRepository {
	return &WishlistRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves the shopper's wishlist snapshot. Corrupt snapshots are
// reported as not found, same policy as the cart.
func (r *WishlistRepository) Get(ctx context.Context, shopperID string) (*domain.Wishlist, error) {
	key := wishlistKeyPrefix + shopperID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("wishlist", shopperID)
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var wishlist domain.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable wishlist snapshot",
			slog.String("shopper_id", shopperID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.NotFound("wishlist", shopperID)
	}

	return &wishlist, nil
}

// Save writes the snapshot unconditionally.
func (r *WishlistRepository) Save(ctx context.Context, wishlist *domain.Wishlist) error {
	key := wishlistKeyPrefix + wishlist.ShopperID

	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}

	return nil
}

// SaveIfVersion performs a compare-and-swap on the snapshot version.
func (r *WishlistRepository) SaveIfVersion(ctx context.Context, wishlist *domain.Wishlist, expectedVersion int) (bool, error) {
	key := wishlistKeyPrefix + wishlist.ShopperID

	next := *wishlist
	next.Version = expectedVersion + 1

	data, err := json.Marshal(&next)
	if err != nil {
		return false, fmt.Errorf("marshal wishlist: %w", err)
	}

	res, err := saveIfVersionScript.Run(ctx, r.client,
		[]string{key}, expectedVersion, string(data), r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis cas wishlist: %w", err)
	}
	if res != 1 {
		return false, nil
	}

	wishlist.Version = next.Version
	return true, nil
}
