package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetCartByUserID returns the user's cart. A missing cart is an invariant
// violation (signup always creates one) and surfaces as ErrCartMissing.
func (s *Store) GetCartByUserID(ctx context.Context, userID int64) (Cart, error) {
	var c Cart
	err := s.pool.QueryRow(ctx,
		"SELECT id, user_id FROM carts WHERE user_id = $1", userID,
	).Scan(&c.ID, &c.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cart{}, ErrCartMissing
	}
	if err != nil {
		return Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}
	return c, nil
}

// UpsertCartItem inserts a cart item with quantity 1, or atomically bumps
// the quantity when the (cart, product) row already exists. The single
// statement makes concurrent adds race-free: two simultaneous calls both
// land on the same row and converge to quantity 2.
func (s *Store) UpsertCartItem(ctx context.Context, cartID, productID int64) (CartItem, error) {
	var item CartItem
	err := s.pool.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1
		RETURNING id, cart_id, product_id, quantity
	`, cartID, productID).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		return CartItem{}, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return item, nil
}

// DeleteCartItem removes a cart item belonging to the given cart. Returns
// ErrNotFound when the id does not match a row in that cart.
func (s *Store) DeleteCartItem(ctx context.Context, cartID, itemID int64) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM cart_items WHERE id = $1 AND cart_id = $2", itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCartItemQuantity replaces the stored quantity of a cart item in the
// given cart. Returns ErrNotFound when the id does not match.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, cartID, itemID, quantity int64) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE id = $2 AND cart_id = $3",
		quantity, itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCartLines returns the cart items joined with their products, ordered
// by item id.
func (s *Store) ListCartLines(ctx context.Context, cartID int64) ([]CartLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	var lines []CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}
	return lines, nil
}
