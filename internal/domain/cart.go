package domain

import "time"

// Currency is the only currency the storefront trades in.
const Currency = "CHF"

// Shipping rule constants, in rappen (CHF cents).
const (
	// ShippingThreshold is the cart total at which shipping becomes free.
	ShippingThreshold int64 = 80_00
	// ShippingFlatRate is the flat shipping fee charged below the threshold.
	ShippingFlatRate int64 = 8_00
)

// Cart holds a shopper's pending purchase lines. At most one line exists
// per product ID; every line has quantity >= 1.
type Cart struct {
	ID        string     `json:"id"`
	ShopperID string     `json:"shopper_id"`
	Items     []CartItem `json:"items"`
	Currency  string     `json:"currency"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// CartItem is a single purchase line. Name, Slug, and ImageURL are display
// metadata carried through for the frontend; the store never interprets them.
// Price is the add-time snapshot in rappen and is not revalidated later.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"image_url,omitempty"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// TotalPrice returns the sum of price*quantity over all lines, in rappen.
// Always recomputed from the current lines; never cached.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total unit count across all lines (header badge value).
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// ShippingProgress returns how far the cart is toward free shipping as a
// percentage clamped to [0, 100]. Exactly 100 whenever TotalPrice() >=
// ShippingThreshold.
func (c *Cart) ShippingProgress() float64 {
	progress := float64(c.TotalPrice()) / float64(ShippingThreshold) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// ShippingCost returns the shipping fee for the current total: zero at or
// above the free-shipping threshold, the flat rate below it. This is the
// single authoritative definition; presentation code must not recompute it.
func (c *Cart) ShippingCost() int64 {
	if c.TotalPrice() >= ShippingThreshold {
		return 0
	}
	return ShippingFlatRate
}

// FreeShippingRemaining returns how much more the shopper must add to reach
// free shipping, or zero once the threshold is met.
func (c *Cart) FreeShippingRemaining() int64 {
	remaining := ShippingThreshold - c.TotalPrice()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FindItemIndex returns the index of the line with the given product ID,
// or -1 when no such line exists.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
