package engine

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/lumenlimitless/xenon/internal/config"
	"github.com/lumenlimitless/xenon/internal/shop"
	"github.com/lumenlimitless/xenon/internal/store"
)

func TestRenderCartGolden(t *testing.T) {
	view := shop.CartView{
		Lines: []shop.CartLine{
			{ItemID: 1, ProductName: "Widget", Quantity: 2, UnitPrice: 500, LineTotal: 1000},
			{ItemID: 2, ProductName: "Gadget", Quantity: 1, UnitPrice: 1250, LineTotal: 1250},
		},
		Total: 2250,
	}

	r := renderCart(view)
	g := goldie.New(t)
	g.Assert(t, "cart", []byte(r.Text))

	assert.Equal(t, "place_order", r.Buttons[0][0].Token)
	assert.Equal(t, "remove_cart_item", r.Buttons[1][0].Token)
	assert.Equal(t, "edit_cart_item_quantity", r.Buttons[1][1].Token)
}

func TestRenderEmptyCart(t *testing.T) {
	r := renderCart(shop.CartView{})
	assert.Equal(t, "Your cart is empty.", r.Text)
	assert.Empty(t, r.Buttons)
}

func TestRenderProductCardGolden(t *testing.T) {
	r := renderProductCard(store.Product{
		ID:          7,
		Name:        "Widget",
		Description: "A fine widget",
		Price:       500,
		Image:       "img.png",
	})

	g := goldie.New(t)
	g.Assert(t, "product_card", []byte(r.Text))
}

func TestHelpTextGolden(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "help", []byte(helpText()))
}

func TestRenderStorefrontGolden(t *testing.T) {
	r := renderStorefront(config.Storefront{
		WebAppURL:          "https://xenon-lumenlimitless.vercel.app/",
		OperatingHours:     "Mon-Fri 9:00-18:00",
		PaymentMethods:     []string{"cash", "card"},
		FulfillmentMethods: []string{"pickup", "courier"},
	})

	g := goldie.New(t)
	g.Assert(t, "storefront", []byte(r.Text))
}
