package store

import "time"

// User is a storefront account, created on first /start. Name fields are
// refreshed on repeat signups; everything else is immutable.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Product is a catalog entry. Price is in minor currency units (cents);
// the display layer divides by 100, nothing else does.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	Image       string
}

// Cart is the single cart a user owns, created alongside the user.
type Cart struct {
	ID     int64
	UserID int64
}

// CartItem links a cart to a product with a quantity of at least 1. There
// is at most one row per (cart, product) pair.
type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int64
}

// Order is an immutable record of a checkout.
type Order struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

// OrderItem is a snapshot of a cart item at checkout time. Later catalog or
// cart changes do not touch it.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
}

// CartLine is a cart item joined with the product it references, as needed
// for rendering the cart.
type CartLine struct {
	ItemID      int64
	ProductID   int64
	ProductName string
	UnitPrice   int64
	Quantity    int64
}
