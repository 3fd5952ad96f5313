package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const wishlistPath = "/api/wishlist"

type WishlistService struct {
	log    *slog.Logger
	client *client.Client
}

func NewWishlistService(log *slog.Logger, c *client.Client) *WishlistService {
	return &WishlistService{log: log, client: c}
}

func (s *WishlistService) Add(ctx context.Context, req models.WishlistRequest, token string) models.Result[models.WishlistItem] {
	return client.Post[models.WishlistItem](ctx, s.client, wishlistPath, req, client.WithToken(token))
}

func (s *WishlistService) ByUser(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, userPath(userID, ""), client.WithToken(token))
}

func (s *WishlistService) Remove(ctx context.Context, itemID int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, fmt.Sprintf("%s/%d", wishlistPath, itemID), client.WithToken(token))
}

func (s *WishlistService) RemoveByProduct(ctx context.Context, userID, productID int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, userPath(userID, fmt.Sprintf("/product/%d", productID)), client.WithToken(token))
}

func (s *WishlistService) Clear(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, userPath(userID, "/clear"), client.WithToken(token))
}

func (s *WishlistService) Contains(ctx context.Context, userID, productID int64, token string) models.Result[models.WishlistCheck] {
	return client.Get[models.WishlistCheck](ctx, s.client, userPath(userID, fmt.Sprintf("/product/%d/check", productID)), client.WithToken(token))
}

func (s *WishlistService) MoveToCart(ctx context.Context, itemID int64, token string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.client, fmt.Sprintf("%s/%d/move-to-cart", wishlistPath, itemID), struct{}{}, client.WithToken(token))
}

func (s *WishlistService) Summary(ctx context.Context, userID int64, token string) models.Result[models.WishlistSummary] {
	return client.Get[models.WishlistSummary](ctx, s.client, userPath(userID, "/summary"), client.WithToken(token))
}

func (s *WishlistService) Share(ctx context.Context, userID int64, token string) models.Result[models.WishlistShare] {
	return client.Post[models.WishlistShare](ctx, s.client, userPath(userID, "/share"), struct{}{}, client.WithToken(token))
}

// PublicWishlist is readable without a session.
func (s *WishlistService) PublicWishlist(ctx context.Context, shareToken string) models.Result[models.PublicWishlist] {
	return client.Get[models.PublicWishlist](ctx, s.client, wishlistPath+"/public/"+url.PathEscape(shareToken))
}

func userPath(userID int64, suffix string) string {
	return fmt.Sprintf("%s/user/%d%s", wishlistPath, userID, suffix)
}
