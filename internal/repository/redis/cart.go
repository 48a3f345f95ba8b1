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

// cartKeyPrefix matches the snapshot name the web frontend historically used
// for its local cart store.
const cartKeyPrefix = "cart-storage:"

// saveIfVersionScript compares the version embedded in the stored snapshot
// against the expected one and swaps in the new payload atomically. A missing
// snapshot counts as version 0. An unparsable snapshot also counts as version
// 0 so that a corrupt entry can be overwritten rather than wedging the cart.
var saveIfVersionScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
local expected = tonumber(ARGV[1])
local version = 0
if current then
  local ok, decoded = pcall(cjson.decode, current)
  if ok and type(decoded) == 'table' and decoded.version then
    version = tonumber(decoded.version)
  end
end
if version ~= expected then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// CartRepository stores cart snapshots as JSON strings in Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCartRepository creates a Redis-backed cart repository. A zero or
// negative ttl disables expiry.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves the shopper's cart snapshot. A corrupt snapshot is reported
// as not found (the shopper starts over with an empty cart) instead of
// propagating a decode error.
func (r *CartRepository) Get(ctx context.Context, shopperID string) (*domain.Cart, error) {
	key := cartKeyPrefix + shopperID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", shopperID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable cart snapshot",
			slog.String("shopper_id", shopperID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.NotFound("cart", shopperID)
	}

	return &cart, nil
}

// Save writes the snapshot unconditionally.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	key := cartKeyPrefix + cart.ShopperID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// SaveIfVersion performs a compare-and-swap on the snapshot version. On
// success the in-memory cart's version is advanced to the stored one.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	key := cartKeyPrefix + cart.ShopperID

	next := *cart
	next.Version = expectedVersion + 1

	data, err := json.Marshal(&next)
	if err != nil {
		return false, fmt.Errorf("marshal cart: %w", err)
	}

	res, err := saveIfVersionScript.Run(ctx, r.client,
		[]string{key}, expectedVersion, string(data), r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis cas cart: %w", err)
	}
	if res != 1 {
		return false, nil
	}

	cart.Version = next.Version
	return true, nil
}

// Delete removes the shopper's snapshot; missing keys are ignored.
func (r *CartRepository) Delete(ctx context.Context, shopperID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+shopperID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
