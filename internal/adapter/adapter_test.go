package adapter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/logger/handlers/slogdiscard"
)

const items = `[{"id":1,"name":"Soap","price":10},{"id":2,"name":"Oil","price":25.5}]`

func TestNormalizeList_ShapesAreEquivalent(t *testing.T) {
	shapes := map[string]string{
		"bare array":     items,
		"success data":   `{"success":true,"data":` + items + `}`,
		"data wrapper":   `{"data":` + items + `}`,
		"nested wrapper": `{"success":true,"data":{"data":` + items + `,"total":2}}`,
	}

	want := NormalizeList([]byte(items))
	require.Len(t, want, 2)

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, NormalizeList([]byte(body)))
		})
	}
}

func TestNormalizeList_Unknown(t *testing.T) {
	for _, body := range []string{`{"message":"ok"}`, `{"data":{"id":1}}`, `not json`, ``, `null`} {
		got := NormalizeList([]byte(body))
		assert.NotNil(t, got)
		assert.Empty(t, got, body)
	}
}

func TestNormalizeList_Order(t *testing.T) {
	// success with an array beats the nested form
	body := `{"success":true,"data":[{"id":1}],"extra":{"data":[{"id":2}]}}`
	got := NormalizeList([]byte(body))
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"id":1}`, string(got[0]))
}

func TestDecodeList(t *testing.T) {
	products, err := DecodeList[models.ProductData]([]byte(`{"data":{"data":` + items + `}}`))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Oil", products[1].Name)

	_, err = DecodeList[models.ProductData]([]byte(`[{"id":"x"}]`))
	assert.Error(t, err)
}

func TestDecodeRecord(t *testing.T) {
	for _, body := range []string{
		`{"id":3,"name":"Soap"}`,
		`{"success":true,"data":{"id":3,"name":"Soap"}}`,
	} {
		p, err := DecodeRecord[models.ProductData]([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.ID)
		assert.Equal(t, "Soap", p.Name)
	}

	_, err := DecodeRecord[models.ProductData]([]byte(`nope`))
	assert.Error(t, err)
}

func TestProductAdapter_Defaults(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := NewProductAdapter(log).Adapt(models.ProductData{
		ID:         7,
		Name:       "Soap",
		Price:      10,
		CategoryID: 2,
		Image:      []string{"a.png", "b.png"},
	})

	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "Soap", p.Title)
	assert.Equal(t, "2", p.Category)
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 0, p.ReviewCount)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.True(t, p.InStock)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "product fields defaulted", entry["msg"])
	assert.ElementsMatch(t, []any{"rating", "reviewCount", "tags"}, entry["fields"])
}

func TestProductAdapter_KeepsBackendValues(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rating, reviews, stock := 4.5, 12, 0
	p := NewProductAdapter(log).Adapt(models.ProductData{
		ID:          1,
		Rating:      &rating,
		ReviewCount: &reviews,
		Tags:        []string{"organic"},
		Stock:       &stock,
	})

	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 12, p.ReviewCount)
	assert.Equal(t, []string{"organic"}, p.Tags)
	assert.False(t, p.InStock)
	assert.NotNil(t, p.Images)
	assert.Zero(t, buf.Len())
}

func TestProductAdapter_AdaptAll(t *testing.T) {
	out := NewProductAdapter(slogdiscard.NewDiscardLogger()).AdaptAll([]models.ProductData{{ID: 1}, {ID: 2}})
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[1].ID)
}

func TestAdaptOrder(t *testing.T) {
	order := models.Order{
		ID:          11,
		UserID:      5,
		TotalAmount: 45,
		Status:      models.OrderShipped,
		OrderItems: []models.OrderItem{
			{ProductID: 1, Quantity: 2, Price: 10, Product: &models.ProductData{Name: "Soap", Image: []string{"soap.png"}}},
			{ProductID: 2, Quantity: 1, Price: 25},
		},
		ShippingAddress: &models.Address{Street: "1 Main St", City: "Pune", State: "MH", ZipCode: "411001", Country: "IN"},
		PaymentMethod:   "COD",
		CreatedAt:       "2024-03-01T10:00:00Z",
	}

	ui := AdaptOrder(order)

	assert.Equal(t, "11", ui.ID)
	assert.Equal(t, "5", ui.UserID)
	assert.Equal(t, 45.0, ui.Subtotal)
	assert.Equal(t, 45.0, ui.Total)
	assert.Equal(t, "shipped", ui.Status)
	require.Len(t, ui.Items, 2)
	assert.Equal(t, models.UIOrderItem{ProductID: "1", Quantity: 2, Price: 10, Title: "Soap", Image: "soap.png"}, ui.Items[0])
	assert.Empty(t, ui.Items[1].Title)
	assert.Equal(t, "411001", ui.ShippingAddress.PostalCode)
	assert.Equal(t, "1 Main St", ui.ShippingAddress.AddressLine1)
	assert.Empty(t, ui.BillingAddress.City)
	assert.Equal(t, "2024-03-06", ui.EstimatedDelivery)
}

func TestNormalizeCart(t *testing.T) {
	cart := `[{"productId":1,"quantity":2,"price":10}]`

	for _, body := range []string{
		cart,
		`{"success":true,"data":` + cart + `}`,
		`{"cartItems":` + cart + `}`,
		`{"success":true,"data":{"cartItems":` + cart + `}}`,
	} {
		items, err := NormalizeCart([]byte(body))
		require.NoError(t, err)
		require.Len(t, items, 1, body)
		assert.Equal(t, int64(1), items[0].ProductID)
	}

	items, err := NormalizeCart([]byte(`{"message":"empty"}`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMergeCart(t *testing.T) {
	server := []models.CartItem{{ID: 1, ProductID: 10, Quantity: 1}}
	guest := []models.CartItem{
		{ProductID: 10, Quantity: 5},
		{ProductID: 20, Quantity: 2},
		{ProductID: 20, Quantity: 3},
	}

	merged := MergeCart(server, guest)

	require.Len(t, merged, 2)
	assert.Equal(t, 1, merged[0].Quantity)
	assert.Equal(t, int64(20), merged[1].ProductID)
	assert.Equal(t, 2, merged[1].Quantity)

	assert.Equal(t, []models.CartItem{{ProductID: 20, Quantity: 2}}, MissingFromServer(server, guest))
	assert.Empty(t, MergeCart(nil, nil))
}
