package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"pgm_storefront/internal/domain/models"
)

// cartShapes extend the list shapes with the {cartItems: [...]} envelope.
var cartShapes = append(append([]func(gjson.Result) (gjson.Result, bool){}, listShapes...),
	func(root gjson.Result) (gjson.Result, bool) {
		items := root.Get("cartItems")
		return items, items.IsArray()
	},
	func(root gjson.Result) (gjson.Result, bool) {
		items := root.Get("data.cartItems")
		return items, items.IsArray()
	},
)

// NormalizeCart decodes a cart from any shape the cart endpoints answer with.
func NormalizeCart(body []byte) ([]models.CartItem, error) {
	const op = "adapter.NormalizeCart"

	if !gjson.ValidBytes(body) {
		return []models.CartItem{}, nil
	}

	raw := normalize(gjson.ParseBytes(body), cartShapes)
	items := make([]models.CartItem, 0, len(raw))
	for i, r := range raw {
		var item models.CartItem
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, fmt.Errorf("%s: item %d: %w", op, i, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// MergeCart appends guest items whose product is not in the server cart.
// Server quantities win for products present in both.
func MergeCart(server, guest []models.CartItem) []models.CartItem {
	merged := make([]models.CartItem, 0, len(server)+len(guest))
	merged = append(merged, server...)

	seen := make(map[int64]struct{}, len(server))
	for _, item := range server {
		seen[item.ProductID] = struct{}{}
	}

	for _, item := range guest {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		merged = append(merged, item)
	}

	return merged
}

// MissingFromServer lists the guest items MergeCart would add.
func MissingFromServer(server, guest []models.CartItem) []models.CartItem {
	merged := MergeCart(server, guest)
	return merged[len(server):]
}
