package request

type AddCartItemRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0,lte=999"`
	Price     float64 `json:"price" validate:"gte=0"`
}
