package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lumenlimitless/xenon/internal/session"
	"github.com/lumenlimitless/xenon/internal/shop"
	"github.com/lumenlimitless/xenon/internal/store"
)

// handleText routes a free-text message by the sender's session state. The
// contract is uniform across steps: valid input commits the transition,
// invalid input re-prompts without touching the session, and missing input
// re-emits the step's original prompt.
func (e *Engine) handleText(ctx context.Context, logger *slog.Logger, msg Text) ([]Reply, error) {
	body := strings.TrimSpace(msg.Body)

	switch state := e.sessions.Get(msg.User).(type) {
	case session.Idle:
		return []Reply{reply("Unable to handle the message. Type /help to see the usage.")}, nil

	case session.AwaitingProductName:
		if body == "" {
			return []Reply{reply("Please, send me the product name.")}, nil
		}
		e.sessions.Set(msg.User, session.AwaitingProductDescription{Name: body})
		return []Reply{reply("Please, send me the product description.")}, nil

	case session.AwaitingProductDescription:
		if body == "" {
			return []Reply{reply("Please, send me the product description.")}, nil
		}
		e.sessions.Set(msg.User, session.AwaitingProductPrice{
			Name:        state.Name,
			Description: body,
		})
		return []Reply{reply("Please, send me the product price in cents.")}, nil

	case session.AwaitingProductPrice:
		if body == "" {
			return []Reply{reply("Please, send me the product price in cents.")}, nil
		}
		price, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return []Reply{reply("Invalid price. Try again.")}, nil
		}
		e.sessions.Set(msg.User, session.AwaitingProductImage{
			Name:        state.Name,
			Description: state.Description,
			Price:       price,
		})
		return []Reply{reply("Please, send me the product image.")}, nil

	case session.AwaitingProductImage:
		if body == "" {
			return []Reply{reply("Please, send me the product image.")}, nil
		}
		product, err := e.svc.AddProduct(ctx, shop.ProductDraft{
			Name:        state.Name,
			Description: state.Description,
			Price:       state.Price,
			Image:       body,
		})
		if err != nil {
			return nil, err
		}
		e.sessions.Clear(msg.User)
		return []Reply{reply(fmt.Sprintf("Product %s added successfully.", product.Name))}, nil

	case session.AwaitingProductIDToRemove:
		if body == "" {
			return []Reply{reply("Please, send me the product id.")}, nil
		}
		productID, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return []Reply{reply("Invalid product id.")}, nil
		}
		err = e.svc.RemoveProduct(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return []Reply{reply("Invalid product id.")}, nil
		}
		if errors.Is(err, store.ErrProductInUse) {
			return []Reply{reply("Product cannot be removed: it belongs to placed orders.")}, nil
		}
		if err != nil {
			return nil, err
		}
		e.sessions.Clear(msg.User)
		return []Reply{reply("Product removed successfully.")}, nil

	case session.AwaitingCartItemIDToRemove:
		if body == "" {
			return []Reply{reply("Please, send me the cart item id.")}, nil
		}
		itemID, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return []Reply{reply("Invalid cart item id.")}, nil
		}
		err = e.svc.RemoveCartItem(ctx, msg.User, itemID)
		if errors.Is(err, store.ErrNotFound) {
			return []Reply{reply("Invalid cart item id.")}, nil
		}
		if err != nil {
			return nil, err
		}
		e.sessions.Clear(msg.User)
		return []Reply{reply("Cart item removed successfully.")}, nil

	case session.AwaitingCartItemIDToEdit:
		if body == "" {
			return []Reply{reply("Please, send me the cart item id.")}, nil
		}
		itemID, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return []Reply{reply("Invalid cart item id.")}, nil
		}
		e.sessions.Set(msg.User, session.AwaitingNewQuantity{CartItemID: itemID})
		return []Reply{reply(fmt.Sprintf("Please, send me the new quantity for cart item #%d.", itemID))}, nil

	case session.AwaitingNewQuantity:
		if body == "" {
			return []Reply{reply("Please, send me the quantity.")}, nil
		}
		quantity, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return []Reply{reply("Invalid quantity.")}, nil
		}
		err = e.svc.SetCartItemQuantity(ctx, msg.User, state.CartItemID, quantity)
		if errors.Is(err, shop.ErrInvalidQuantity) {
			return []Reply{reply("Quantity must be at least 1. Try again.")}, nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return []Reply{reply("Invalid cart item id.")}, nil
		}
		if err != nil {
			return nil, err
		}
		e.sessions.Clear(msg.User)
		return []Reply{reply("Cart item updated successfully.")}, nil

	default:
		logger.Error("unknown session state", "state", state.Kind())
		e.sessions.Clear(msg.User)
		return []Reply{reply("Unable to handle the message. Type /help to see the usage.")}, nil
	}
}
