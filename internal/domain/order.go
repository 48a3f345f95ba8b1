package domain

import "time"

// Order status constants. The storefront has no payment or fulfillment
// integration, so orders only move from placed to (externally) completed.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed order: a snapshot of the cart lines at checkout time
// plus the shopper's contact and shipping details.
type Order struct {
	ID             string      `json:"id"`
	ShopperID      string      `json:"shopper_id"`
	Status         string      `json:"status"`
	Items          []OrderItem `json:"items"`
	Subtotal       int64       `json:"subtotal"`
	ShippingAmount int64       `json:"shipping_amount"`
	Total          int64       `json:"total"`
	Currency       string      `json:"currency"`
	Email          string      `json:"email"`
	FullName       string      `json:"full_name"`
	AddressLine    string      `json:"address_line"`
	City           string      `json:"city"`
	PostalCode     string      `json:"postal_code"`
	Country        string      `json:"country"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem is a frozen copy of a cart line. Prices are the add-time
// snapshots; the catalog is not consulted again at checkout.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// OrderSubtotal computes price*quantity over the frozen lines.
func OrderSubtotal(items []OrderItem) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// IsTerminal reports whether the order is in a final state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
