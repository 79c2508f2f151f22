package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCartMissing is returned when a user has no cart row. Signup always
	// creates one, so this indicates a broken invariant rather than bad
	// user input.
	ErrCartMissing = errors.New("cart not found for user")

	// ErrEmptyCart is returned when an order is placed against a cart with
	// no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrProductInUse is returned when a product cannot be deleted because
	// order items still reference it.
	ErrProductInUse = errors.New("product is referenced by placed orders")
)

// QueryError wraps a failed query with the statement that caused it.
type QueryError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v\nQuery: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// mapRowError translates pgx.ErrNoRows into ErrNotFound and wraps anything
// else with context.
func mapRowError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// isForeignKeyViolation reports whether err is a Postgres foreign key
// constraint violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

