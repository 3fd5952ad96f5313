package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const cartPath = "/api/cart"

// CartService covers the server-side cart on the product backend.
type CartService struct {
	log    *slog.Logger
	client *client.Client
}

func NewCartService(log *slog.Logger, c *client.Client) *CartService {
	return &CartService{log: log, client: c}
}

func (s *CartService) AddToCart(ctx context.Context, item models.CreateCartItemRequest, token string) models.Result[models.CartItem] {
	return client.Post[models.CartItem](ctx, s.client, cartPath, item, client.WithToken(token))
}

// CartByUser returns the raw body; run it through adapter.NormalizeCart.
func (s *CartService) CartByUser(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, userCartPath(userID, ""), client.WithToken(token))
}

func (s *CartService) UpdateCartItem(ctx context.Context, item models.UpdateCartItemRequest, token string) models.Result[models.CartItem] {
	return client.Put[models.CartItem](ctx, s.client, itemPath(item.ID, ""), item, client.WithToken(token))
}

func (s *CartService) RemoveFromCart(ctx context.Context, itemID int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, itemPath(itemID, ""), client.WithToken(token))
}

func (s *CartService) ClearCart(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, userCartPath(userID, "/clear"), client.WithToken(token))
}

func (s *CartService) CartSummary(ctx context.Context, userID int64, token string) models.Result[models.CartSummary] {
	return client.Get[models.CartSummary](ctx, s.client, userCartPath(userID, "/summary"), client.WithToken(token))
}

func (s *CartService) MoveToWishlist(ctx context.Context, itemID int64, token string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.client, itemPath(itemID, "/move-to-wishlist"), nil, client.WithToken(token))
}

func (s *CartService) ApplyDiscount(ctx context.Context, userID int64, code string, token string) models.Result[models.Discount] {
	const op = "services.CartService.ApplyDiscount"

	res := client.Post[models.Discount](ctx, s.client, userCartPath(userID, "/discount"),
		map[string]string{"discountCode": code}, client.WithToken(token))
	if !res.Success {
		s.log.Info("discount rejected", slog.String("op", op), slog.String("code", code), slog.String("error", res.Error))
	}

	return res
}

func (s *CartService) RemoveDiscount(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, userCartPath(userID, "/discount"), client.WithToken(token))
}

func itemPath(id int64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", cartPath, id, suffix)
}

func userCartPath(userID int64, suffix string) string {
	return fmt.Sprintf("%s/user/%d%s", cartPath, userID, suffix)
}
