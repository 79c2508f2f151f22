package engine_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlimitless/xenon/internal/config"
	"github.com/lumenlimitless/xenon/internal/engine"
	"github.com/lumenlimitless/xenon/internal/session"
	"github.com/lumenlimitless/xenon/internal/shop"
	"github.com/lumenlimitless/xenon/internal/store"
)

const (
	adminID  = int64(100)
	userID   = int64(200)
	testChat = int64(1)
)

// fakeService implements engine.Service in memory for engine tests.
type fakeService struct {
	signups  []shop.Customer
	products map[int64]store.Product
	nextID    int64
	drafts    []shop.ProductDraft
	removed   []int64
	removeErr error

	cartQty  map[int64]int64 // cart item id -> quantity
	addedQty map[int64]int64 // product id -> quantity in cart

	receipt  shop.Receipt
	placeErr error
	orders   []store.Order
}

func newFakeService() *fakeService {
	return &fakeService{
		products: make(map[int64]store.Product),
		cartQty:  make(map[int64]int64),
		addedQty: make(map[int64]int64),
	}
}

func (f *fakeService) Signup(_ context.Context, c shop.Customer) error {
	f.signups = append(f.signups, c)
	return nil
}

func (f *fakeService) AddProduct(_ context.Context, draft shop.ProductDraft) (store.Product, error) {
	f.drafts = append(f.drafts, draft)
	f.nextID++
	p := store.Product{
		ID:          f.nextID,
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Image:       draft.Image,
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeService) RemoveProduct(_ context.Context, productID int64) error {
	if _, ok := f.products[productID]; !ok {
		return store.ErrNotFound
	}
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.products, productID)
	f.removed = append(f.removed, productID)
	return nil
}

func (f *fakeService) ListProducts(_ context.Context) ([]store.Product, error) {
	var products []store.Product
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (f *fakeService) GetProduct(_ context.Context, productID int64) (store.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return store.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeService) AddToCart(_ context.Context, _, productID int64) (int64, error) {
	if _, ok := f.products[productID]; !ok {
		return 0, store.ErrNotFound
	}
	f.addedQty[productID]++
	return f.addedQty[productID], nil
}

func (f *fakeService) RemoveCartItem(_ context.Context, _, itemID int64) error {
	if _, ok := f.cartQty[itemID]; !ok {
		return store.ErrNotFound
	}
	delete(f.cartQty, itemID)
	return nil
}

func (f *fakeService) SetCartItemQuantity(_ context.Context, _, itemID, quantity int64) error {
	if quantity < 1 {
		return shop.ErrInvalidQuantity
	}
	if _, ok := f.cartQty[itemID]; !ok {
		return store.ErrNotFound
	}
	f.cartQty[itemID] = quantity
	return nil
}

func (f *fakeService) ViewCart(_ context.Context, _ int64) (shop.CartView, error) {
	var view shop.CartView
	for itemID, qty := range f.cartQty {
		view.Lines = append(view.Lines, shop.CartLine{ItemID: itemID, Quantity: qty})
	}
	return view, nil
}

func (f *fakeService) PlaceOrder(_ context.Context, _ int64) (shop.Receipt, error) {
	if f.placeErr != nil {
		return shop.Receipt{}, f.placeErr
	}
	return f.receipt, nil
}

func (f *fakeService) ListOrders(_ context.Context, _ int64) ([]store.Order, error) {
	return f.orders, nil
}

func newTestEngine(t *testing.T) (*engine.Engine, *fakeService, *session.Store) {
	t.Helper()
	svc := newFakeService()
	sessions := session.NewStore()
	logger := slog.New(slog.DiscardHandler)
	eng := engine.New(svc, sessions, adminID, config.Storefront{
		WebAppURL: "https://xenon-lumenlimitless.vercel.app/",
	}, logger)
	return eng, svc, sessions
}

func command(name engine.CommandName, user int64) engine.Command {
	return engine.Command{Name: name, User: user, Chat: testChat}
}

func text(user int64, body string) engine.Text {
	return engine.Text{User: user, Chat: testChat, Body: body}
}

func dispatch(t *testing.T, eng *engine.Engine, ev engine.Event) []engine.Reply {
	t.Helper()
	replies, err := eng.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	return replies
}

func TestStartSignsUpUser(t *testing.T) {
	eng, svc, _ := newTestEngine(t)

	cmd := command(engine.CmdStart, userID)
	cmd.From = engine.Profile{Username: "jdoe", FirstName: "J", LastName: "Doe"}
	replies := dispatch(t, eng, cmd)

	require.Len(t, replies, 1)
	assert.Equal(t, "Welcome to the store!", replies[0].Text)
	require.Len(t, svc.signups, 1)
	assert.Equal(t, shop.Customer{ID: userID, Username: "jdoe", FirstName: "J", LastName: "Doe"}, svc.signups[0])
}

func TestAddProductFlow(t *testing.T) {
	eng, svc, sessions := newTestEngine(t)

	replies := dispatch(t, eng, command(engine.CmdAdd, adminID))
	require.Len(t, replies, 1)
	assert.Equal(t, "Please, send me the product name.", replies[0].Text)
	assert.True(t, replies[0].DeletePrompt)

	replies = dispatch(t, eng, text(adminID, "Widget"))
	assert.Equal(t, "Please, send me the product description.", replies[0].Text)

	replies = dispatch(t, eng, text(adminID, "A fine widget"))
	assert.Equal(t, "Please, send me the product price in cents.", replies[0].Text)

	replies = dispatch(t, eng, text(adminID, "500"))
	assert.Equal(t, "Please, send me the product image.", replies[0].Text)

	replies = dispatch(t, eng, text(adminID, "img.png"))
	assert.Equal(t, "Product Widget added successfully.", replies[0].Text)

	// The persisted draft carries the four literal values; price is the
	// integer typed by the user, unscaled.
	require.Len(t, svc.drafts, 1)
	assert.Equal(t, shop.ProductDraft{
		Name:        "Widget",
		Description: "A fine widget",
		Price:       500,
		Image:       "img.png",
	}, svc.drafts[0])

	assert.Equal(t, session.Idle{}, sessions.Get(adminID))
}

func TestAddProductRejectsNonAdmin(t *testing.T) {
	eng, svc, sessions := newTestEngine(t)

	replies := dispatch(t, eng, command(engine.CmdAdd, userID))
	assert.Empty(t, replies, "flow entry is silent for non-admins")
	assert.Equal(t, session.Idle{}, sessions.Get(userID))

	// Follow-up text is not treated as a flow step.
	replies = dispatch(t, eng, text(userID, "Widget"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Unable to handle the message. Type /help to see the usage.", replies[0].Text)
	assert.Empty(t, svc.drafts)
}

func TestZeroAdminIDDisablesCatalogFlows(t *testing.T) {
	svc := newFakeService()
	sessions := session.NewStore()
	eng := engine.New(svc, sessions, 0, config.Storefront{}, slog.New(slog.DiscardHandler))

	// User id 0 must not become the implicit admin.
	replies := dispatch(t, eng, command(engine.CmdAdd, 0))
	assert.Empty(t, replies)
	assert.Equal(t, session.Idle{}, sessions.Get(0))

	replies = dispatch(t, eng, command(engine.CmdRemove, 0))
	assert.Empty(t, replies)
	assert.Equal(t, session.Idle{}, sessions.Get(0))
}

func TestInvalidPriceKeepsState(t *testing.T) {
	eng, svc, sessions := newTestEngine(t)

	dispatch(t, eng, command(engine.CmdAdd, adminID))
	dispatch(t, eng, text(adminID, "Widget"))
	dispatch(t, eng, text(adminID, "A fine widget"))

	replies := dispatch(t, eng, text(adminID, "five dollars"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Invalid price. Try again.", replies[0].Text)

	state, ok := sessions.Get(adminID).(session.AwaitingProductPrice)
	require.True(t, ok, "state must not advance on invalid input")
	assert.Equal(t, "Widget", state.Name)
	assert.Equal(t, "A fine widget", state.Description)

	// Retrying with a valid price resumes the flow.
	dispatch(t, eng, text(adminID, "500"))
	dispatch(t, eng, text(adminID, "img.png"))
	require.Len(t, svc.drafts, 1)
	assert.Equal(t, int64(500), svc.drafts[0].Price)
}

func TestEmptyInputReemitsPrompt(t *testing.T) {
	eng, _, sessions := newTestEngine(t)

	dispatch(t, eng, command(engine.CmdAdd, adminID))

	replies := dispatch(t, eng, text(adminID, "   "))
	require.Len(t, replies, 1)
	assert.Equal(t, "Please, send me the product name.", replies[0].Text)
	assert.Equal(t, session.AwaitingProductName{}, sessions.Get(adminID))
}

func TestCancelAtEveryAddFlowState(t *testing.T) {
	steps := [][]string{
		{},
		{"Widget"},
		{"Widget", "A fine widget"},
		{"Widget", "A fine widget", "500"},
	}

	for _, inputs := range steps {
		eng, svc, sessions := newTestEngine(t)

		dispatch(t, eng, command(engine.CmdAdd, adminID))
		for _, input := range inputs {
			dispatch(t, eng, text(adminID, input))
		}

		replies := dispatch(t, eng, command(engine.CmdCancel, adminID))
		require.Len(t, replies, 1)
		assert.Equal(t, "Cancelled the dialogue.", replies[0].Text)
		assert.Equal(t, session.Idle{}, sessions.Get(adminID))
		assert.Empty(t, svc.drafts, "no product may be written on cancel")
	}
}

func TestFlowEntryReplacesInFlightFlow(t *testing.T) {
	eng, _, sessions := newTestEngine(t)

	dispatch(t, eng, command(engine.CmdAdd, adminID))
	dispatch(t, eng, text(adminID, "Widget"))

	// Starting the remove flow discards the collected add-flow data.
	dispatch(t, eng, command(engine.CmdRemove, adminID))
	assert.Equal(t, session.AwaitingProductIDToRemove{}, sessions.Get(adminID))
}

func TestRemoveProductFlow(t *testing.T) {
	eng, svc, sessions := newTestEngine(t)
	_, err := svc.AddProduct(context.Background(), shop.ProductDraft{Name: "Widget", Price: 500})
	require.NoError(t, err)

	dispatch(t, eng, command(engine.CmdRemove, adminID))

	// Non-numeric id: re-prompt, state unchanged.
	replies := dispatch(t, eng, text(adminID, "widget"))
	assert.Equal(t, "Invalid product id.", replies[0].Text)
	assert.Equal(t, session.AwaitingProductIDToRemove{}, sessions.Get(adminID))

	// Unknown id: same.
	replies = dispatch(t, eng, text(adminID, "999"))
	assert.Equal(t, "Invalid product id.", replies[0].Text)
	assert.Equal(t, session.AwaitingProductIDToRemove{}, sessions.Get(adminID))

	replies = dispatch(t, eng, text(adminID, "1"))
	assert.Equal(t, "Product removed successfully.", replies[0].Text)
	assert.Equal(t, session.Idle{}, sessions.Get(adminID))
	assert.Equal(t, []int64{1}, svc.removed)
}

func TestRemoveOrderedProductKeepsFlow(t *testing.T) {
	eng, svc, sessions := newTestEngine(t)
	_, err := svc.AddProduct(context.Background(), shop.ProductDraft{Name: "Widget", Price: 500})
	require.NoError(t, err)
	svc.removeErr = store.ErrProductInUse

	dispatch(t, eng, command(engine.CmdRemove, adminID))
	replies := dispatch(t, eng, text(adminID, "1"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Product cannot be removed: it belongs to placed orders.", replies[0].Text)
	assert.Equal(t, session.AwaitingProductIDToRemove{}, sessions.Get(adminID))
	assert.Contains(t, svc.products, int64(1))
}

func TestRemoveCartItemFlow(t *testing.T) {
	eng, svc, sessions := newTestEngine(t)
	svc.cartQty[3] = 2

	replies := dispatch(t, eng, engine.Callback{User: userID, Chat: testChat, Action: engine.RemoveCartItem{}})
	assert.Equal(t, "Please, send me the cart item ID (#).", replies[0].Text)
	assert.Equal(t, session.AwaitingCartItemIDToRemove{}, sessions.Get(userID))

	// Non-numeric and unknown ids leave the state and the items untouched.
	replies = dispatch(t, eng, text(userID, "three"))
	assert.Equal(t, "Invalid cart item id.", replies[0].Text)
	assert.Equal(t, session.AwaitingCartItemIDToRemove{}, sessions.Get(userID))

	replies = dispatch(t, eng, text(userID, "42"))
	assert.Equal(t, "Invalid cart item id.", replies[0].Text)
	assert.Equal(t, session.AwaitingCartItemIDToRemove{}, sessions.Get(userID))
	assert.Contains(t, svc.cartQty, int64(3))

	replies = dispatch(t, eng, text(userID, "3"))
	assert.Equal(t, "Cart item removed successfully.", replies[0].Text)
	assert.Equal(t, session.Idle{}, sessions.Get(userID))
	assert.NotContains(t, svc.cartQty, int64(3))
}

func TestEditQuantityFlow(t *testing.T) {
	eng, svc, sessions := newTestEngine(t)
	svc.cartQty[7] = 1

	dispatch(t, eng, engine.Callback{User: userID, Chat: testChat, Action: engine.EditCartItemQuantity{}})
	assert.Equal(t, session.AwaitingCartItemIDToEdit{}, sessions.Get(userID))

	replies := dispatch(t, eng, text(userID, "7"))
	assert.Equal(t, "Please, send me the new quantity for cart item #7.", replies[0].Text)
	assert.Equal(t, session.AwaitingNewQuantity{CartItemID: 7}, sessions.Get(userID))

	replies = dispatch(t, eng, text(userID, "lots"))
	assert.Equal(t, "Invalid quantity.", replies[0].Text)
	assert.Equal(t, session.AwaitingNewQuantity{CartItemID: 7}, sessions.Get(userID))

	replies = dispatch(t, eng, text(userID, "0"))
	assert.Equal(t, "Quantity must be at least 1. Try again.", replies[0].Text)
	assert.Equal(t, session.AwaitingNewQuantity{CartItemID: 7}, sessions.Get(userID))

	replies = dispatch(t, eng, text(userID, "5"))
	assert.Equal(t, "Cart item updated successfully.", replies[0].Text)
	assert.Equal(t, session.Idle{}, sessions.Get(userID))
	assert.Equal(t, int64(5), svc.cartQty[7])
}

func TestAddToCartCallbackMessages(t *testing.T) {
	eng, svc, _ := newTestEngine(t)
	_, err := svc.AddProduct(context.Background(), shop.ProductDraft{Name: "Widget", Price: 500})
	require.NoError(t, err)

	cb := engine.Callback{User: userID, Chat: testChat, Action: engine.AddToCart{ProductID: 1}}

	replies := dispatch(t, eng, cb)
	assert.Equal(t, "Product added to cart.", replies[0].Text)

	replies = dispatch(t, eng, cb)
	assert.Equal(t, "Added another to your cart.", replies[0].Text)

	unknown := engine.Callback{User: userID, Chat: testChat, Action: engine.AddToCart{ProductID: 99}}
	replies = dispatch(t, eng, unknown)
	assert.Equal(t, "Failed to add product to cart.", replies[0].Text)
}

func TestPlaceOrderCallback(t *testing.T) {
	eng, svc, _ := newTestEngine(t)
	svc.receipt = shop.Receipt{OrderID: 12, ItemCount: 2}

	replies := dispatch(t, eng, engine.Callback{User: userID, Chat: testChat, Action: engine.PlaceOrder{}})
	require.Len(t, replies, 1)
	assert.Equal(t, "Order placed successfully. Use /orders to view your orders.", replies[0].Text)
	assert.True(t, replies[0].DeletePrompt)

	svc.placeErr = store.ErrEmptyCart
	replies = dispatch(t, eng, engine.Callback{User: userID, Chat: testChat, Action: engine.PlaceOrder{}})
	assert.Equal(t, "Your cart is empty.", replies[0].Text)
}

func TestBackCallbackOnlyDeletesPrompt(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	replies := dispatch(t, eng, engine.Callback{User: userID, Chat: testChat, Action: engine.Back{}})
	require.Len(t, replies, 1)
	assert.Empty(t, replies[0].Text)
	assert.True(t, replies[0].DeletePrompt)
}

func TestInventoryButtonsChunkedTwoPerRow(t *testing.T) {
	eng, svc, _ := newTestEngine(t)
	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.AddProduct(context.Background(), shop.ProductDraft{Name: name, Price: 100})
		require.NoError(t, err)
	}

	replies := dispatch(t, eng, command(engine.CmdInventory, userID))
	require.Len(t, replies, 1)
	require.Len(t, replies[0].Buttons, 2)
	assert.Len(t, replies[0].Buttons[0], 2)
	assert.Len(t, replies[0].Buttons[1], 1)
	assert.Equal(t, "A", replies[0].Buttons[0][0].Label)
	assert.Equal(t, "view_product:1", replies[0].Buttons[0][0].Token)
}

func TestEmptyInventory(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	replies := dispatch(t, eng, command(engine.CmdInventory, userID))
	require.Len(t, replies, 1)
	assert.Equal(t, "The store is empty.", replies[0].Text)
}

func TestViewProductCallback(t *testing.T) {
	eng, svc, _ := newTestEngine(t)
	_, err := svc.AddProduct(context.Background(), shop.ProductDraft{
		Name: "Widget", Description: "A fine widget", Price: 500, Image: "img.png",
	})
	require.NoError(t, err)

	replies := dispatch(t, eng, engine.Callback{User: userID, Chat: testChat, Action: engine.ViewProduct{ProductID: 1}})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Price: $5.00")
	require.Len(t, replies[0].Buttons, 1)
	assert.Equal(t, "add_to_cart:1", replies[0].Buttons[0][0].Token)
	assert.Equal(t, "back", replies[0].Buttons[0][1].Token)

	replies = dispatch(t, eng, engine.Callback{User: userID, Chat: testChat, Action: engine.ViewProduct{ProductID: 9}})
	assert.Equal(t, "Product not found.", replies[0].Text)
}

func TestShopCommandLeavesDialogue(t *testing.T) {
	eng, _, sessions := newTestEngine(t)

	dispatch(t, eng, command(engine.CmdAdd, adminID))
	replies := dispatch(t, eng, command(engine.CmdShop, adminID))

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "https://xenon-lumenlimitless.vercel.app/")
	assert.Equal(t, session.Idle{}, sessions.Get(adminID))
}

func TestOrdersCommand(t *testing.T) {
	eng, svc, _ := newTestEngine(t)

	replies := dispatch(t, eng, command(engine.CmdOrders, userID))
	assert.Equal(t, "You have no orders.", replies[0].Text)

	svc.orders = []store.Order{{ID: 9, UserID: userID}, {ID: 4, UserID: userID}}
	replies = dispatch(t, eng, command(engine.CmdOrders, userID))
	assert.Equal(t, "Your orders:\n\n#9\n\n#4", replies[0].Text)
}

func TestHelpListsEveryCommand(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	replies := dispatch(t, eng, command(engine.CmdHelp, userID))
	require.Len(t, replies, 1)
	for _, word := range []string{"/help", "/start", "/cancel", "/inventory", "/add", "/remove", "/cart", "/orders", "/shop"} {
		assert.Contains(t, replies[0].Text, word)
	}
}
