// Package shop implements the cart and order business logic on top of the
// persistence store. It trusts callers to have authorized catalog changes;
// admin gating happens upstream in the conversation engine.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumenlimitless/xenon/internal/store"
)

// ErrInvalidQuantity is returned when a cart item quantity below 1 is
// requested. Zero and negative quantities are rejected rather than deleting
// the row; removal is its own operation.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Customer is the identity captured at signup.
type Customer struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// ProductDraft is the input collected by the add-product flow.
type ProductDraft struct {
	Name        string
	Description string
	Price       int64
	Image       string
}

// CartLine is one rendered cart row with its integer line total.
type CartLine struct {
	ItemID      int64
	ProductName string
	Quantity    int64
	UnitPrice   int64
	LineTotal   int64
}

// CartView is the computed contents of a cart. Empty carts have no lines
// and a zero total.
type CartView struct {
	Lines []CartLine
	Total int64
}

// Empty reports whether the cart has no items.
func (v CartView) Empty() bool {
	return len(v.Lines) == 0
}

// Receipt summarizes a successfully placed order.
type Receipt struct {
	OrderID   int64
	ItemCount int
}

// Service is the cart/order service. All mutation goes through the store;
// there are no in-memory copies of catalog or cart state.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// Signup creates the user's account and cart, refreshing names on repeat
// calls. Idempotent.
func (s *Service) Signup(ctx context.Context, c Customer) error {
	err := s.store.UpsertUser(ctx, store.User{
		ID:        c.ID,
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	})
	if err != nil {
		return fmt.Errorf("failed to sign up user %d: %w", c.ID, err)
	}
	s.logger.Info("user signed up", "user_id", c.ID)
	return nil
}

// AddProduct inserts a catalog entry. Price is in minor currency units,
// stored exactly as given.
func (s *Service) AddProduct(ctx context.Context, draft ProductDraft) (store.Product, error) {
	p, err := s.store.InsertProduct(ctx, store.Product{
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Image:       draft.Image,
	})
	if err != nil {
		return store.Product{}, err
	}
	s.logger.Info("product added", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// RemoveProduct deletes a catalog entry by id.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.logger.Info("product removed", "product_id", productID)
	return nil
}

// ListProducts returns the catalog.
func (s *Service) ListProducts(ctx context.Context) ([]store.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct returns a single product.
func (s *Service) GetProduct(ctx context.Context, productID int64) (store.Product, error) {
	return s.store.GetProduct(ctx, productID)
}

// AddToCart puts one unit of the product into the user's cart, incrementing
// the quantity when the item is already there. Returns the resulting
// quantity so callers can distinguish a first add from a repeat.
func (s *Service) AddToCart(ctx context.Context, userID, productID int64) (int64, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	item, err := s.store.UpsertCartItem(ctx, cart.ID, productID)
	if err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

// RemoveCartItem deletes a cart item from the user's own cart.
func (s *Service) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.DeleteCartItem(ctx, cart.ID, itemID)
}

// SetCartItemQuantity replaces the quantity of a cart item in the user's
// cart. Quantities below 1 are rejected with ErrInvalidQuantity.
func (s *Service) SetCartItemQuantity(ctx context.Context, userID, itemID, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.UpdateCartItemQuantity(ctx, cart.ID, itemID, quantity)
}

// ViewCart loads the user's cart and computes line totals and the grand
// total in integer arithmetic.
func (s *Service) ViewCart(ctx context.Context, userID int64) (CartView, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	rows, err := s.store.ListCartLines(ctx, cart.ID)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{Lines: make([]CartLine, 0, len(rows))}
	for _, r := range rows {
		line := CartLine{
			ItemID:      r.ItemID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			LineTotal:   r.UnitPrice * r.Quantity,
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.LineTotal
	}
	return view, nil
}

// PlaceOrder atomically converts the user's cart into an order. Returns
// store.ErrEmptyCart, with no order created, when the cart has no items.
func (s *Service) PlaceOrder(ctx context.Context, userID int64) (Receipt, error) {
	order, items, err := s.store.CreateOrderFromCart(ctx, userID)
	if err != nil {
		return Receipt{}, err
	}
	s.logger.Info("order placed", "order_id", order.ID, "user_id", userID, "items", len(items))
	return Receipt{OrderID: order.ID, ItemCount: len(items)}, nil
}

// ListOrders returns the user's orders, most recent first.
func (s *Service) ListOrders(ctx context.Context, userID int64) ([]store.Order, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}
