package store

import (
	"context"
	"fmt"
)

// UpsertUser creates the user and their cart in one transaction, refreshing
// the name fields when the user already exists. Calling it repeatedly is
// safe; the cart is never duplicated (carts.user_id is unique).
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO users (id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name
	`, u.ID, u.Username, u.FirstName, u.LastName); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, u.ID); err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit signup: %w", err)
	}
	return nil
}

// GetUser looks up a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		"SELECT id, username, first_name, last_name FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName)
	if err != nil {
		return User{}, mapRowError(err, "failed to get user")
	}
	return u, nil
}
