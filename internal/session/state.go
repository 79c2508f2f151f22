// Package session holds per-user conversation state. The store is
// volatile: a restart resets every user to Idle, which only costs users an
// in-flight multi-step flow.
package session

// State is the conversation position of a single user. It is a sealed
// tagged union: each variant carries exactly the data collected so far, so
// illegal combinations (a price without a name) cannot be represented.
type State interface {
	// Kind returns a stable name for logging.
	Kind() string

	isState()
}

// Idle is the initial and terminal state; commands are only routed as flow
// entries from here.
type Idle struct{}

// AwaitingProductName is the first step of the add-product flow.
type AwaitingProductName struct{}

// AwaitingProductDescription carries the collected name.
type AwaitingProductDescription struct {
	Name string
}

// AwaitingProductPrice carries name and description.
type AwaitingProductPrice struct {
	Name        string
	Description string
}

// AwaitingProductImage carries everything but the image reference. Price is
// in minor currency units.
type AwaitingProductImage struct {
	Name        string
	Description string
	Price       int64
}

// AwaitingProductIDToRemove is the single step of the remove-product flow.
type AwaitingProductIDToRemove struct{}

// AwaitingCartItemIDToRemove is entered from the cart view.
type AwaitingCartItemIDToRemove struct{}

// AwaitingCartItemIDToEdit is the first step of the quantity edit flow.
type AwaitingCartItemIDToEdit struct{}

// AwaitingNewQuantity carries the cart item being edited.
type AwaitingNewQuantity struct {
	CartItemID int64
}

func (Idle) isState()                       {}
func (AwaitingProductName) isState()        {}
func (AwaitingProductDescription) isState() {}
func (AwaitingProductPrice) isState()       {}
func (AwaitingProductImage) isState()       {}
func (AwaitingProductIDToRemove) isState()  {}
func (AwaitingCartItemIDToRemove) isState() {}
func (AwaitingCartItemIDToEdit) isState()   {}
func (AwaitingNewQuantity) isState()        {}

func (Idle) Kind() string                       { return "idle" }
func (AwaitingProductName) Kind() string        { return "awaiting_product_name" }
func (AwaitingProductDescription) Kind() string { return "awaiting_product_description" }
func (AwaitingProductPrice) Kind() string       { return "awaiting_product_price" }
func (AwaitingProductImage) Kind() string       { return "awaiting_product_image" }
func (AwaitingProductIDToRemove) Kind() string  { return "awaiting_product_id_to_remove" }
func (AwaitingCartItemIDToRemove) Kind() string { return "awaiting_cart_item_id_to_remove" }
func (AwaitingCartItemIDToEdit) Kind() string   { return "awaiting_cart_item_id_to_edit" }
func (AwaitingNewQuantity) Kind() string        { return "awaiting_new_quantity" }
