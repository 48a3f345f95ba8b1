package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alpsoap/storefront/internal/domain"
	pkgkafka "github.com/alpsoap/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
var (
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
	TopicCartCleared     = pkgkafka.Topic("cart", "cleared")
	TopicWishlistUpdated = pkgkafka.Topic("wishlist", "updated")
	TopicOrderPlaced     = pkgkafka.Topic("order", "placed")
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeOrder    = "order"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event. Derived amounts
// are included so consumers (email, analytics) need not recompute them.
type CartUpdatedData struct {
	ShopperID        string         `json:"shopper_id"`
	Items            []CartItemData `json:"items"`
	ItemCount        int            `json:"item_count"`
	TotalPrice       int64          `json:"total_price"`
	ShippingCost     int64          `json:"shipping_cost"`
	ShippingProgress float64        `json:"shipping_progress"`
	Currency         string         `json:"currency"`
}

// CartItemData is the line payload within cart events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	ShopperID string `json:"shopper_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	ShopperID string   `json:"shopper_id"`
	ItemCount int      `json:"item_count"`
	Products  []string `json:"products"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID        string `json:"order_id"`
	ShopperID      string `json:"shopper_id"`
	ItemCount      int    `json:"item_count"`
	Subtotal       int64  `json:"subtotal"`
	ShippingAmount int64  `json:"shipping_amount"`
	Total          int64  `json:"total"`
	Currency       string `json:"currency"`
	Email          string `json:"email"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			Slug:      item.Slug,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		ShopperID:        cart.ShopperID,
		Items:            items,
		ItemCount:        cart.ItemCount(),
		TotalPrice:       cart.TotalPrice(),
		ShippingCost:     cart.ShippingCost(),
		ShippingProgress: cart.ShippingProgress(),
		Currency:         cart.Currency,
	}

	return p.publish(ctx, TopicCartUpdated, cart.ShopperID, AggregateTypeCart, data)
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, shopperID string) error {
	return p.publish(ctx, TopicCartCleared, shopperID, AggregateTypeCart, CartClearedData{ShopperID: shopperID})
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, wishlist *domain.Wishlist) error {
	products := make([]string, len(wishlist.Items))
	for i, item := range wishlist.Items {
		products[i] = item.ProductID
	}

	data := WishlistUpdatedData{
		ShopperID: wishlist.ShopperID,
		ItemCount: wishlist.ItemCount(),
		Products:  products,
	}

	return p.publish(ctx, TopicWishlistUpdated, wishlist.ShopperID, AggregateTypeWishlist, data)
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	data := OrderPlacedData{
		OrderID:        order.ID,
		ShopperID:      order.ShopperID,
		ItemCount:      len(order.Items),
		Subtotal:       order.Subtotal,
		ShippingAmount: order.ShippingAmount,
		Total:          order.Total,
		Currency:       order.Currency,
		Email:          order.Email,
	}

	return p.publish(ctx, TopicOrderPlaced, order.ID, AggregateTypeOrder, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
