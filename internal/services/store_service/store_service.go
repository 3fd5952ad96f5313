package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const (
	storesPath = "/api/stores"

	// DefaultRadius is the nearby search radius used when none is given.
	DefaultRadius = 50.0
)

// StoreService covers physical stores. Reads are public.
type StoreService struct {
	log    *slog.Logger
	client *client.Client
}

func NewStoreService(log *slog.Logger, c *client.Client) *StoreService {
	return &StoreService{log: log, client: c}
}

func (s *StoreService) List(ctx context.Context) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, storesPath)
}

func (s *StoreService) Get(ctx context.Context, id int64) models.Result[models.Store] {
	return client.Get[models.Store](ctx, s.client, storePath(id, ""))
}

func (s *StoreService) Create(ctx context.Context, req models.StoreRequest, token string) models.Result[models.Store] {
	return client.Post[models.Store](ctx, s.client, storesPath, req, client.WithToken(token))
}

func (s *StoreService) Update(ctx context.Context, id int64, req models.StoreRequest, token string) models.Result[models.Store] {
	return client.Put[models.Store](ctx, s.client, storePath(id, ""), req, client.WithToken(token))
}

func (s *StoreService) Delete(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, storePath(id, ""), client.WithToken(token))
}

func (s *StoreService) ByCity(ctx context.Context, city string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, storesPath+"/city/"+url.PathEscape(city))
}

func (s *StoreService) ByState(ctx context.Context, state string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, storesPath+"/state/"+url.PathEscape(state))
}

// Nearby lists stores within radius km of the point; a non-positive radius
// means DefaultRadius.
func (s *StoreService) Nearby(ctx context.Context, lat, lng, radius float64) models.Result[json.RawMessage] {
	if radius <= 0 {
		radius = DefaultRadius
	}

	q := url.Values{}
	q.Set("lat", formatFloat(lat))
	q.Set("lng", formatFloat(lng))
	q.Set("radius", formatFloat(radius))

	return client.Get[json.RawMessage](ctx, s.client, storesPath+"/nearby", client.WithQuery(q))
}

func (s *StoreService) Search(ctx context.Context, query string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, storesPath+"/search", client.WithQuery(url.Values{"q": {query}}))
}

func (s *StoreService) Hours(ctx context.Context, id int64) models.Result[models.StoreHours] {
	return client.Get[models.StoreHours](ctx, s.client, storePath(id, "/hours"))
}

func (s *StoreService) UpdateHours(ctx context.Context, id int64, hours models.StoreHours, token string) models.Result[json.RawMessage] {
	return client.Put[json.RawMessage](ctx, s.client, storePath(id, "/hours"), hours, client.WithToken(token))
}

func (s *StoreService) ProductAvailability(ctx context.Context, storeID, productID int64) models.Result[models.Availability] {
	return client.Get[models.Availability](ctx, s.client, storePath(storeID, fmt.Sprintf("/products/%d/availability", productID)))
}

func (s *StoreService) ReserveProduct(ctx context.Context, storeID, productID int64, quantity int, token string) models.Result[models.Reservation] {
	const op = "services.StoreService.ReserveProduct"

	res := client.Post[models.Reservation](ctx, s.client, storePath(storeID, fmt.Sprintf("/products/%d/reserve", productID)),
		map[string]int{"quantity": quantity}, client.WithToken(token))
	if res.Success {
		s.log.Info("product reserved",
			slog.String("op", op),
			slog.Int64("store_id", storeID),
			slog.Int64("product_id", productID),
			slog.String("reservation_id", res.Data.ReservationID),
		)
	}

	return res
}

func storePath(id int64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", storesPath, id, suffix)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
