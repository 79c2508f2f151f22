package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		token string
		want  Action
	}{
		{"view_product:7", ViewProduct{ProductID: 7}},
		{"add_to_cart:12", AddToCart{ProductID: 12}},
		{"remove_cart_item", RemoveCartItem{}},
		{"edit_cart_item_quantity", EditCartItemQuantity{}},
		{"place_order", PlaceOrder{}},
		{"back", Back{}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			action, ok := ParseCallback(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.want, action)
		})
	}
}

func TestParseCallbackRejectsMalformedTokens(t *testing.T) {
	rejected := []string{
		"",
		"view_product",
		"view_product:",
		"view_product:abc",
		"add_to_cart:1.5",
		"remove_cart_item:4",
		"edit_cart_item_quantity:",
		"place_order:1",
		"back:now",
		"drop_table",
		"view_product:1:2",
	}

	for _, token := range rejected {
		t.Run(token, func(t *testing.T) {
			action, ok := ParseCallback(token)
			assert.False(t, ok)
			assert.Nil(t, action)
		})
	}
}

func TestEncodeCallbackRoundTrips(t *testing.T) {
	actions := []Action{
		ViewProduct{ProductID: 3},
		AddToCart{ProductID: 8},
		RemoveCartItem{},
		EditCartItemQuantity{},
		PlaceOrder{},
		Back{},
	}

	for _, a := range actions {
		decoded, ok := ParseCallback(EncodeCallback(a))
		require.True(t, ok)
		assert.Equal(t, a, decoded)
	}
}
