package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lumenlimitless/xenon/internal/config"
	"github.com/lumenlimitless/xenon/internal/session"
	"github.com/lumenlimitless/xenon/internal/shop"
	"github.com/lumenlimitless/xenon/internal/store"
)

// Service is what the engine needs from the cart/order layer.
// *shop.Service satisfies it; tests substitute a fake.
type Service interface {
	Signup(ctx context.Context, c shop.Customer) error
	AddProduct(ctx context.Context, draft shop.ProductDraft) (store.Product, error)
	RemoveProduct(ctx context.Context, productID int64) error
	ListProducts(ctx context.Context) ([]store.Product, error)
	GetProduct(ctx context.Context, productID int64) (store.Product, error)
	AddToCart(ctx context.Context, userID, productID int64) (int64, error)
	RemoveCartItem(ctx context.Context, userID, itemID int64) error
	SetCartItemQuantity(ctx context.Context, userID, itemID, quantity int64) error
	ViewCart(ctx context.Context, userID int64) (shop.CartView, error)
	PlaceOrder(ctx context.Context, userID int64) (shop.Receipt, error)
	ListOrders(ctx context.Context, userID int64) ([]store.Order, error)
}

// Engine drives the conversation state machine. One instance serves all
// users; per-user serialization comes from the session store's keyed locks.
type Engine struct {
	svc        Service
	sessions   *session.Store
	adminID    int64
	storefront config.Storefront
	logger     *slog.Logger
}

// New creates an Engine. The admin id comes from configuration, never from
// ambient process state, so authorization is testable.
func New(svc Service, sessions *session.Store, adminID int64, sf config.Storefront, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		svc:        svc,
		sessions:   sessions,
		adminID:    adminID,
		storefront: sf,
		logger:     logger,
	}
}

// Dispatch handles one inbound event as an independent unit of work. It
// holds the sender's session lock across the whole read-dispatch-write
// cycle so two near-simultaneous events from the same user cannot advance
// from the same prior state. Validation and not-found failures are handled
// inside the step handlers; only invariant violations and infrastructure
// errors escape.
func (e *Engine) Dispatch(ctx context.Context, ev Event) ([]Reply, error) {
	logger := e.logger.With("unit_id", uuid.NewString(), "user_id", ev.UserID())

	mu := e.sessions.UserLock(ev.UserID())
	mu.Lock()
	defer mu.Unlock()

	switch ev := ev.(type) {
	case Command:
		logger.Info("handling command", "command", string(ev.Name))
		return e.handleCommand(ctx, logger, ev)
	case Text:
		logger.Debug("handling text", "state", e.sessions.Get(ev.User).Kind())
		return e.handleText(ctx, logger, ev)
	case Callback:
		logger.Info("handling callback", "action", EncodeCallback(ev.Action))
		return e.handleCallback(ctx, logger, ev)
	}
	return nil, nil
}

func (e *Engine) handleCommand(ctx context.Context, logger *slog.Logger, cmd Command) ([]Reply, error) {
	switch cmd.Name {
	case CmdHelp:
		return []Reply{{Text: helpText(), DeletePrompt: true}}, nil

	case CmdStart:
		err := e.svc.Signup(ctx, shop.Customer{
			ID:        cmd.User,
			Username:  cmd.From.Username,
			FirstName: cmd.From.FirstName,
			LastName:  cmd.From.LastName,
		})
		if err != nil {
			return nil, err
		}
		return []Reply{reply("Welcome to the store!")}, nil

	case CmdCancel:
		e.sessions.Clear(cmd.User)
		return []Reply{{Text: "Cancelled the dialogue.", DeletePrompt: true}}, nil

	case CmdInventory:
		products, err := e.svc.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		return []Reply{renderInventory(products)}, nil

	case CmdAdd:
		if !e.authorize(logger, cmd) {
			return nil, nil
		}
		e.sessions.Set(cmd.User, session.AwaitingProductName{})
		return []Reply{{Text: "Please, send me the product name.", DeletePrompt: true}}, nil

	case CmdRemove:
		if !e.authorize(logger, cmd) {
			return nil, nil
		}
		e.sessions.Set(cmd.User, session.AwaitingProductIDToRemove{})
		return []Reply{{Text: "Please, send me the product id.", DeletePrompt: true}}, nil

	case CmdCart:
		view, err := e.svc.ViewCart(ctx, cmd.User)
		if err != nil {
			return nil, err
		}
		return []Reply{renderCart(view)}, nil

	case CmdOrders:
		orders, err := e.svc.ListOrders(ctx, cmd.User)
		if err != nil {
			return nil, err
		}
		return []Reply{renderOrders(orders)}, nil

	case CmdShop:
		// /shop also leaves any in-flight dialogue, like the cancel command.
		e.sessions.Clear(cmd.User)
		return []Reply{renderStorefront(e.storefront)}, nil
	}

	logger.Warn("unknown command", "command", string(cmd.Name))
	return nil, nil
}

// authorize gates catalog flows on the configured admin id. A zero admin
// id means no admin is configured and the flows stay closed. A mismatch
// never starts the flow and is invisible to the user, but it is logged.
func (e *Engine) authorize(logger *slog.Logger, cmd Command) bool {
	if e.adminID != 0 && cmd.User == e.adminID {
		return true
	}
	logger.Warn("unauthorized admin command", "command", string(cmd.Name))
	return false
}

func (e *Engine) handleCallback(ctx context.Context, logger *slog.Logger, cb Callback) ([]Reply, error) {
	switch action := cb.Action.(type) {
	case ViewProduct:
		product, err := e.svc.GetProduct(ctx, action.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return []Reply{reply("Product not found.")}, nil
		}
		if err != nil {
			return nil, err
		}
		return []Reply{renderProductCard(product)}, nil

	case AddToCart:
		quantity, err := e.svc.AddToCart(ctx, cb.User, action.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return []Reply{reply("Failed to add product to cart.")}, nil
		}
		if err != nil {
			return nil, err
		}
		if quantity > 1 {
			return []Reply{reply("Added another to your cart.")}, nil
		}
		return []Reply{reply("Product added to cart.")}, nil

	case RemoveCartItem:
		e.sessions.Set(cb.User, session.AwaitingCartItemIDToRemove{})
		return []Reply{reply("Please, send me the cart item ID (#).")}, nil

	case EditCartItemQuantity:
		e.sessions.Set(cb.User, session.AwaitingCartItemIDToEdit{})
		return []Reply{reply("Please, send me the cart item ID (#).")}, nil

	case PlaceOrder:
		_, err := e.svc.PlaceOrder(ctx, cb.User)
		if errors.Is(err, store.ErrEmptyCart) {
			return []Reply{reply("Your cart is empty.")}, nil
		}
		if err != nil {
			return nil, err
		}
		return []Reply{{
			Text:         "Order placed successfully. Use /orders to view your orders.",
			DeletePrompt: true,
		}}, nil

	case Back:
		return []Reply{{DeletePrompt: true}}, nil
	}

	logger.Warn("unhandled callback action")
	return nil, nil
}
