package adapter

import (
	"strconv"
	"strings"
	"time"

	"pgm_storefront/internal/domain/models"
)

const deliveryDays = 5

// AdaptOrder maps a backend order onto the UI order record.
func AdaptOrder(o models.Order) models.UIOrder {
	userID := strconv.FormatInt(o.UserID, 10)

	items := make([]models.UIOrderItem, 0, len(o.OrderItems))
	var subtotal float64
	for _, oi := range o.OrderItems {
		item := models.UIOrderItem{
			ProductID: strconv.FormatInt(oi.ProductID, 10),
			Quantity:  oi.Quantity,
			Price:     oi.Price,
		}
		if oi.Product != nil {
			item.Title = oi.Product.Name
			if len(oi.Product.Image) > 0 {
				item.Image = oi.Product.Image[0]
			}
		}
		subtotal += oi.Price * float64(oi.Quantity)
		items = append(items, item)
	}

	status := strings.ToLower(string(o.Status))
	if status == "" {
		status = "confirmed"
	}

	return models.UIOrder{
		ID:                strconv.FormatInt(o.ID, 10),
		UserID:            userID,
		Items:             items,
		Subtotal:          subtotal,
		Total:             o.TotalAmount,
		Status:            status,
		ShippingAddress:   flattenAddress(o.ShippingAddress),
		BillingAddress:    flattenAddress(o.BillingAddress),
		PaymentMethod:     o.PaymentMethod,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		EstimatedDelivery: estimateDelivery(o.CreatedAt),
	}
}

func flattenAddress(a *models.Address) models.UIAddress {
	if a == nil {
		return models.UIAddress{IsDefault: true}
	}
	return models.UIAddress{
		FullName:     a.Street,
		AddressLine1: a.Street,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.ZipCode,
		Country:      a.Country,
		IsDefault:    true,
	}
}

func estimateDelivery(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, deliveryDays).Format(time.DateOnly)
}
