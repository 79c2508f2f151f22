package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is a decoded callback token. The set is closed: every button the
// engine emits decodes to one of these, and anything else is rejected at
// the transport boundary instead of reaching a handler.
type Action interface {
	isAction()
}

// ViewProduct shows one product's card.
type ViewProduct struct {
	ProductID int64
}

// AddToCart puts one unit of a product into the sender's cart.
type AddToCart struct {
	ProductID int64
}

// RemoveCartItem starts the cart-item removal flow.
type RemoveCartItem struct{}

// EditCartItemQuantity starts the quantity edit flow.
type EditCartItemQuantity struct{}

// PlaceOrder checks out the sender's cart.
type PlaceOrder struct{}

// Back dismisses the current prompt.
type Back struct{}

func (ViewProduct) isAction()          {}
func (AddToCart) isAction()            {}
func (RemoveCartItem) isAction()       {}
func (EditCartItemQuantity) isAction() {}
func (PlaceOrder) isAction()           {}
func (Back) isAction()                 {}

// Callback token discriminants.
const (
	tokenViewProduct    = "view_product"
	tokenAddToCart      = "add_to_cart"
	tokenRemoveCartItem = "remove_cart_item"
	tokenEditQuantity   = "edit_cart_item_quantity"
	tokenPlaceOrder     = "place_order"
	tokenBack           = "back"
)

// ParseCallback decodes a callback token into an Action. It reports false
// for unknown discriminants, malformed ids, and wrong arity; callers treat
// those as no-ops.
func ParseCallback(token string) (Action, bool) {
	discriminant, arg, hasArg := strings.Cut(token, ":")

	switch discriminant {
	case tokenViewProduct:
		id, err := strconv.ParseInt(arg, 10, 64)
		if !hasArg || err != nil {
			return nil, false
		}
		return ViewProduct{ProductID: id}, true

	case tokenAddToCart:
		id, err := strconv.ParseInt(arg, 10, 64)
		if !hasArg || err != nil {
			return nil, false
		}
		return AddToCart{ProductID: id}, true

	case tokenRemoveCartItem:
		if hasArg {
			return nil, false
		}
		return RemoveCartItem{}, true

	case tokenEditQuantity:
		if hasArg {
			return nil, false
		}
		return EditCartItemQuantity{}, true

	case tokenPlaceOrder:
		if hasArg {
			return nil, false
		}
		return PlaceOrder{}, true

	case tokenBack:
		if hasArg {
			return nil, false
		}
		return Back{}, true
	}

	return nil, false
}

// EncodeCallback renders an Action back into its wire token. It is the
// inverse of ParseCallback and the only place tokens are constructed.
func EncodeCallback(a Action) string {
	switch a := a.(type) {
	case ViewProduct:
		return fmt.Sprintf("%s:%d", tokenViewProduct, a.ProductID)
	case AddToCart:
		return fmt.Sprintf("%s:%d", tokenAddToCart, a.ProductID)
	case RemoveCartItem:
		return tokenRemoveCartItem
	case EditCartItemQuantity:
		return tokenEditQuantity
	case PlaceOrder:
		return tokenPlaceOrder
	case Back:
		return tokenBack
	}
	return ""
}
