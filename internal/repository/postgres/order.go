package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alpsoap/storefront/internal/domain"
	"github.com/alpsoap/storefront/pkg/database"
	apperrors "github.com/alpsoap/storefront/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
// Line items are stored as a JSONB snapshot alongside the computed amounts,
// mirroring how the hosted store kept orders as denormalized rows.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a PostgreSQL-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order row.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, shopper_id, status, items,
			subtotal, shipping_amount, total, currency,
			email, full_name, address_line, city, postal_code, country,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16
		)`

	ctx, end := database.TraceQuery(ctx, "CreateOrder", query)
	_, err = r.db.Exec(ctx, query,
		order.ID,
		order.ShopperID,
		order.Status,
		itemsJSON,
		order.Subtotal,
		order.ShippingAmount,
		order.Total,
		order.Currency,
		order.Email,
		order.FullName,
		order.AddressLine,
		order.City,
		order.PostalCode,
		order.Country,
		order.CreatedAt,
		order.UpdatedAt,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID, scoped to the owning shopper.
func (r *OrderRepository) GetByID(ctx context.Context, shopperID, orderID string) (*domain.Order, error) {
	query := `
		SELECT id, shopper_id, status, items,
			subtotal, shipping_amount, total, currency,
			email, full_name, address_line, city, postal_code, country,
			created_at, updated_at
		FROM orders
		WHERE id = $1 AND shopper_id = $2`

	ctx, end := database.TraceQuery(ctx, "GetOrder", query)
	row := r.db.QueryRow(ctx, query, orderID, shopperID)

	order, err := scanOrder(row)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

// ListByShopper returns a page of the shopper's orders, newest first, and
// the total count.
func (r *OrderRepository) ListByShopper(ctx context.Context, shopperID string, limit, offset int) ([]*domain.Order, int, error) {
	countQuery := `SELECT COUNT(*) FROM orders WHERE shopper_id = $1`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, shopperID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT id, shopper_id, status, items,
			subtotal, shipping_amount, total, currency,
			email, full_name, address_line, city, postal_code, country,
			created_at, updated_at
		FROM orders
		WHERE shopper_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "ListOrders", query)
	rows, err := r.db.Query(ctx, query, shopperID, limit, offset)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, total, nil
}

// scanOrder reads one order row, decoding the JSONB items snapshot.
func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte

	err := row.Scan(
		&order.ID,
		&order.ShopperID,
		&order.Status,
		&itemsJSON,
		&order.Subtotal,
		&order.ShippingAmount,
		&order.Total,
		&order.Currency,
		&order.Email,
		&order.FullName,
		&order.AddressLine,
		&order.City,
		&order.PostalCode,
		&order.Country,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}

	return &order, nil
}
