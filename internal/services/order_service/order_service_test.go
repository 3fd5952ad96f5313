package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/adapter"
	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/fakeapi"
	"pgm_storefront/internal/lib/logger/handlers/slogdiscard"
	"pgm_storefront/internal/transport/client"
)

var testCtx = context.Background()

func setup(t *testing.T, status int, body any) (*OrderService, *fakeapi.Recorder, *fakeapi.Recorder) {
	t.Helper()

	orders := fakeapi.NewRecorder(t, status, body)
	payments := fakeapi.NewRecorder(t, status, body)

	svc := NewOrderService(
		slogdiscard.NewDiscardLogger(),
		client.New(orders.URL, nil, nil),
		client.New(payments.URL, nil, nil),
	)

	return svc, orders, payments
}

func TestOrderService_Routes(t *testing.T) {
	svc, orders, payments := setup(t, http.StatusOK, map[string]any{"id": 1})

	cases := []struct {
		name    string
		call    func() bool
		backend *fakeapi.Recorder
		method  string
		path    string
	}{
		{"create", func() bool {
			return svc.CreateOrder(testCtx, models.CreateOrderRequest{UserID: 1}, "t").Success
		}, orders, http.MethodPost, "/api/orders"},
		{"get", func() bool { return svc.GetOrder(testCtx, 3, "t").Success }, orders, http.MethodGet, "/api/orders/3"},
		{"by user", func() bool { return svc.OrdersByUser(testCtx, 1, "t").Success }, orders, http.MethodGet, "/api/orders/user/1"},
		{"list", func() bool { return svc.ListOrders(testCtx, "t").Success }, orders, http.MethodGet, "/api/orders"},
		{"status", func() bool { return svc.UpdateOrderStatus(testCtx, 3, models.OrderShipped, "t").Success }, orders, http.MethodPatch, "/api/orders/3"},
		{"tracking", func() bool { return svc.OrderTracking(testCtx, 3, "t").Success }, orders, http.MethodGet, "/api/orders/3/tracking"},
		{"invoice", func() bool { return svc.OrderInvoice(testCtx, 3, "t").Success }, orders, http.MethodGet, "/api/orders/3/invoice"},
		{"pay", func() bool {
			return svc.ProcessPayment(testCtx, models.PaymentData{OrderID: 3, Amount: 10}, "t").Success
		}, payments, http.MethodPost, "/api/orders/payment"},
		{"verify", func() bool { return svc.VerifyPayment(testCtx, "pay_1", "t").Success }, payments, http.MethodGet, "/api/orders/payment/pay_1/verify"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, tc.call())
			call := tc.backend.Last(t)
			assert.Equal(t, tc.method, call.Method)
			assert.Equal(t, tc.path, call.Path)
		})
	}
}

func TestOrderService_CancelOrder(t *testing.T) {
	svc, orders, _ := setup(t, http.StatusOK, map[string]any{"id": 3, "status": "CANCELLED"})

	res := svc.CancelOrder(testCtx, 3, "t")
	require.True(t, res.Success)
	assert.Equal(t, models.OrderCancelled, res.Data.Status)

	call := orders.Last(t)
	assert.Equal(t, http.MethodPatch, call.Method)
	assert.JSONEq(t, `{"status":"CANCELLED"}`, string(call.Body))
}

func TestOrderService_RequestReturn(t *testing.T) {
	svc, orders, _ := setup(t, http.StatusCreated, map[string]any{"returnId": "r-1", "status": "REQUESTED"})

	res := svc.RequestReturn(testCtx, 3, "damaged", []models.ReturnItem{{ProductID: 2, Quantity: 1}}, "t")
	require.True(t, res.Success)
	assert.Equal(t, "r-1", res.Data.ReturnID)

	assert.JSONEq(t, `{"reason":"damaged","items":[{"productId":2,"quantity":1}]}`, string(orders.Last(t).Body))
}

func TestOrderService_PaymentFailure(t *testing.T) {
	svc, _, _ := setup(t, http.StatusPaymentRequired, map[string]string{"message": "card declined"})

	res := svc.ProcessPayment(testCtx, models.PaymentData{OrderID: 3}, "t")
	assert.False(t, res.Success)
	assert.Equal(t, "card declined", res.Error)
	assert.Equal(t, http.StatusPaymentRequired, res.Status)
}

func TestOrderService_GetOrderAdapts(t *testing.T) {
	svc, _, _ := setup(t, http.StatusOK, map[string]any{
		"id":     3,
		"userId": 1,
		"status": "SHIPPED",
		"orderItems": []map[string]any{
			{"productId": 2, "quantity": 2, "price": 5.5, "product": map[string]any{"name": "Soap", "image": []string{"a.png"}}},
		},
		"createdAt": "2024-01-10T09:00:00Z",
	})

	res := svc.GetOrder(testCtx, 3, "")
	require.True(t, res.Success)

	ui := adapter.AdaptOrder(*res.Data)
	assert.Equal(t, "shipped", ui.Status)
	assert.Equal(t, 11.0, ui.Subtotal)
	require.Len(t, ui.Items, 1)
	assert.Equal(t, "Soap", ui.Items[0].Title)
}
