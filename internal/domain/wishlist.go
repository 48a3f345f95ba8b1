package domain

import "time"

// Wishlist is a shopper's saved-for-later set. Membership only: items carry
// no price and no quantity, and no product ID appears twice.
type Wishlist struct {
	ShopperID string         `json:"shopper_id"`
	Items     []WishlistItem `json:"items"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WishlistItem is a saved product reference with display metadata.
type WishlistItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Contains reports whether the product is in the wishlist.
func (w *Wishlist) Contains(productID string) bool {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}

// ItemCount returns the number of saved products.
func (w *Wishlist) ItemCount() int {
	return len(w.Items)
}

// Add appends the item unless its product ID is already present.
// Returns true if the wishlist changed.
func (w *Wishlist) Add(item WishlistItem) bool {
	if w.Contains(item.ProductID) {
		return false
	}
	w.Items = append(w.Items, item)
	return true
}

// Remove deletes the item with the given product ID, preserving order.
// Returns true if the wishlist changed.
func (w *Wishlist) Remove(productID string) bool {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true
		}
	}
	return false
}
