package models

type CartItem struct {
	ID        int64        `json:"id,omitempty"`
	UserID    int64        `json:"userId,omitempty"`
	ProductID int64        `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     float64      `json:"price"`
	Product   *ProductData `json:"product,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
}

type CreateCartItemRequest struct {
	UserID    int64   `json:"userId"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type UpdateCartItemRequest struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type CartSummary struct {
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
	Items      []CartItem `json:"items"`
}

type Discount struct {
	DiscountAmount     float64 `json:"discountAmount"`
	TotalAfterDiscount float64 `json:"totalAfterDiscount"`
}
