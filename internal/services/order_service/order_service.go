package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const (
	ordersPath  = "/api/orders"
	paymentPath = "/api/orders/payment"
)

// OrderService covers orders on the product backend and payments on the
// payment backend.
type OrderService struct {
	log      *slog.Logger
	orders   *client.Client
	payments *client.Client
}

func NewOrderService(log *slog.Logger, orders, payments *client.Client) *OrderService {
	return &OrderService{
		log:      log,
		orders:   orders,
		payments: payments,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, o models.CreateOrderRequest, token string) models.Result[models.Order] {
	const op = "services.OrderService.CreateOrder"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("user_id", o.UserID),
	)

	res := client.Post[models.Order](ctx, s.orders, ordersPath, o, client.WithToken(token))
	if !res.Success {
		log.Warn("order rejected", slog.Int("status", res.Status), slog.String("error", res.Error))
		return res
	}

	log.Info("order created", slog.Int64("order_id", res.Data.ID), slog.Float64("total", res.Data.TotalAmount))

	return res
}

func (s *OrderService) GetOrder(ctx context.Context, id int64, token string) models.Result[models.Order] {
	return client.Get[models.Order](ctx, s.orders, orderPath(id, ""), client.WithToken(token))
}

func (s *OrderService) OrdersByUser(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.orders, fmt.Sprintf("%s/user/%d", ordersPath, userID), client.WithToken(token))
}

func (s *OrderService) ListOrders(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.orders, ordersPath, client.WithToken(token))
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus, token string) models.Result[models.Order] {
	return client.Patch[models.Order](ctx, s.orders, orderPath(id, ""), statusBody{Status: status}, client.WithToken(token))
}

func (s *OrderService) CancelOrder(ctx context.Context, id int64, token string) models.Result[models.Order] {
	return s.UpdateOrderStatus(ctx, id, models.OrderCancelled, token)
}

func (s *OrderService) ProcessPayment(ctx context.Context, p models.PaymentData, token string) models.Result[models.PaymentResult] {
	const op = "services.OrderService.ProcessPayment"

	res := client.Post[models.PaymentResult](ctx, s.payments, paymentPath, p, client.WithToken(token))
	if !res.Success {
		s.log.Warn("payment failed",
			slog.String("op", op),
			slog.Int64("order_id", p.OrderID),
			slog.String("error", res.Error),
		)
	}

	return res
}

func (s *OrderService) VerifyPayment(ctx context.Context, paymentID string, token string) models.Result[models.PaymentResult] {
	return client.Get[models.PaymentResult](ctx, s.payments, fmt.Sprintf("%s/%s/verify", paymentPath, paymentID), client.WithToken(token))
}

func (s *OrderService) OrderTracking(ctx context.Context, id int64, token string) models.Result[models.OrderTracking] {
	return client.Get[models.OrderTracking](ctx, s.orders, orderPath(id, "/tracking"), client.WithToken(token))
}

func (s *OrderService) RequestReturn(ctx context.Context, id int64, reason string, items []models.ReturnItem, token string) models.Result[models.ReturnResult] {
	return client.Post[models.ReturnResult](ctx, s.orders, orderPath(id, "/return"), models.ReturnRequest{
		Reason: reason,
		Items:  items,
	}, client.WithToken(token))
}

func (s *OrderService) OrderInvoice(ctx context.Context, id int64, token string) models.Result[models.Invoice] {
	return client.Get[models.Invoice](ctx, s.orders, orderPath(id, "/invoice"), client.WithToken(token))
}

type statusBody struct {
	Status models.OrderStatus `json:"status"`
}

func orderPath(id int64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", ordersPath, id, suffix)
}
