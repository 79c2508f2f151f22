package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateOrderFromCart converts the user's cart items into an order in a
// single transaction: insert the order row, snapshot every cart item into
// order_items, and clear the cart. Either all of it happens or none of it.
// Returns ErrEmptyCart without creating anything when the cart has no items.
func (s *Store) CreateOrderFromCart(ctx context.Context, userID int64) (Order, []OrderItem, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return Order{}, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cartID int64
	err = tx.QueryRow(ctx,
		"SELECT id FROM carts WHERE user_id = $1", userID,
	).Scan(&cartID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, nil, ErrCartMissing
	}
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed to get cart: %w", err)
	}

	// Lock the cart rows so a concurrent checkout or add cannot interleave
	// between the snapshot and the delete.
	rows, err := tx.Query(ctx, `
		SELECT id, product_id, quantity
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
		FOR UPDATE
	`, cartID)
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity); err != nil {
			rows.Close()
			return Order{}, nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	if len(items) == 0 {
		return Order{}, nil, ErrEmptyCart
	}

	var order Order
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id) VALUES ($1)
		RETURNING id, user_id, created_at
	`, userID).Scan(&order.ID, &order.UserID, &order.CreatedAt)
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed to insert order: %w", err)
	}

	orderItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		var oi OrderItem
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id, order_id, product_id, quantity
		`, order.ID, item.ProductID, item.Quantity).Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity)
		if err != nil {
			return Order{}, nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		orderItems = append(orderItems, oi)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return Order{}, nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return order, orderItems, nil
}

// ListOrdersByUser returns the user's orders, most recent first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, user_id, created_at FROM orders WHERE user_id = $1 ORDER BY id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}

// ListOrderItems returns the snapshot rows for one order.
func (s *Store) ListOrderItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, order_id, product_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var oi OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, oi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}
	return items, nil
}
