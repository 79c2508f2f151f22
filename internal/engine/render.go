package engine

import (
	"fmt"
	"strings"

	"github.com/lumenlimitless/xenon/internal/config"
	"github.com/lumenlimitless/xenon/internal/shop"
	"github.com/lumenlimitless/xenon/internal/store"
)

// inventoryButtonsPerRow is how many product buttons share a keyboard row.
const inventoryButtonsPerRow = 2

// helpText lists every command with its description.
func helpText() string {
	var b strings.Builder
	b.WriteString("These commands are supported:\n")
	for _, c := range commandTable {
		fmt.Fprintf(&b, "\n/%s — %s", c.Name, c.Description)
	}
	return b.String()
}

// renderInventory produces the catalog listing: one button per product,
// chunked two per row.
func renderInventory(products []store.Product) Reply {
	if len(products) == 0 {
		return Reply{Text: "The store is empty.", DeletePrompt: true}
	}

	var rows [][]Button
	for i := 0; i < len(products); i += inventoryButtonsPerRow {
		end := min(i+inventoryButtonsPerRow, len(products))
		row := make([]Button, 0, inventoryButtonsPerRow)
		for _, p := range products[i:end] {
			row = append(row, button(p.Name, ViewProduct{ProductID: p.ID}))
		}
		rows = append(rows, row)
	}

	return Reply{
		Text:         "Select a product to view more information:",
		Buttons:      rows,
		DeletePrompt: true,
	}
}

// renderProductCard shows one product with add-to-cart and back actions.
func renderProductCard(p store.Product) Reply {
	text := fmt.Sprintf(
		"Name: %s\n\nID: %d\n\nDescription: %s\n\nPrice: %s\n\nImage: %s",
		p.Name, p.ID, p.Description, shop.FormatPrice(p.Price), p.Image,
	)
	return Reply{
		Text: text,
		Buttons: [][]Button{{
			button("Add to cart", AddToCart{ProductID: p.ID}),
			button("Back", Back{}),
		}},
	}
}

// renderCart shows the cart lines with integer line totals and the grand
// total, plus the checkout and item mutation buttons.
func renderCart(view shop.CartView) Reply {
	if view.Empty() {
		return Reply{Text: "Your cart is empty.", DeletePrompt: true}
	}

	lines := make([]string, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, fmt.Sprintf("#%d - %s - x%d - %s",
			l.ItemID, l.ProductName, l.Quantity, shop.FormatPrice(l.LineTotal)))
	}

	text := fmt.Sprintf(
		"Your cart(%d):\n\n#ID - name - quantity - price\n\n--------------------------\n\n%s\n\n--------------------------\n\nTotal: %s",
		len(view.Lines),
		strings.Join(lines, "\n"),
		shop.FormatPrice(view.Total),
	)

	return Reply{
		Text: text,
		Buttons: [][]Button{
			{button("Place Order", PlaceOrder{})},
			{
				button("Remove Item", RemoveCartItem{}),
				button("Edit Quantity", EditCartItemQuantity{}),
			},
		},
		DeletePrompt: true,
	}
}

// renderOrders lists order ids, most recent first.
func renderOrders(orders []store.Order) Reply {
	if len(orders) == 0 {
		return Reply{Text: "You have no orders.", DeletePrompt: true}
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, fmt.Sprintf("#%d", o.ID))
	}
	return Reply{
		Text:         "Your orders:\n\n" + strings.Join(ids, "\n\n"),
		DeletePrompt: true,
	}
}

// renderStorefront shows the web shop link and the display-only store
// information from configuration.
func renderStorefront(sf config.Storefront) Reply {
	var b strings.Builder
	b.WriteString("Visit the store here:")
	if sf.WebAppURL != "" {
		b.WriteString("\n\n")
		b.WriteString(sf.WebAppURL)
	}
	if sf.OperatingHours != "" {
		fmt.Fprintf(&b, "\n\nOperating hours: %s", sf.OperatingHours)
	}
	if len(sf.PaymentMethods) > 0 {
		fmt.Fprintf(&b, "\n\nPayment: %s", strings.Join(sf.PaymentMethods, ", "))
	}
	if len(sf.FulfillmentMethods) > 0 {
		fmt.Fprintf(&b, "\n\nFulfillment: %s", strings.Join(sf.FulfillmentMethods, ", "))
	}
	return Reply{Text: b.String(), DeletePrompt: true}
}
