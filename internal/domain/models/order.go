package models

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type OrderItem struct {
	ID        int64        `json:"id,omitempty"`
	OrderID   int64        `json:"orderId,omitempty"`
	ProductID int64        `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     float64      `json:"price"`
	Product   *ProductData `json:"product,omitempty"`
}

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	OrderItems      []OrderItem `json:"orderItems"`
	ShippingAddress *Address    `json:"shippingAddress,omitempty"`
	BillingAddress  *Address    `json:"billingAddress,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
	PaymentStatus   string      `json:"paymentStatus,omitempty"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	UpdatedAt       string      `json:"updatedAt,omitempty"`
}

type CreateOrderRequest struct {
	UserID          int64       `json:"userId"`
	OrderItems      []OrderItem `json:"orderItems"`
	ShippingAddress Address     `json:"shippingAddress"`
	BillingAddress  *Address    `json:"billingAddress,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
}

type PaymentData struct {
	OrderID        int64   `json:"orderId"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"paymentMethod"`
	PaymentGateway string  `json:"paymentGateway"`
	TransactionID  string  `json:"transactionId,omitempty"`
	Status         string  `json:"status"`
}

type PaymentResult struct {
	PaymentID     string  `json:"paymentId,omitempty"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount,omitempty"`
}

type TrackingEvent struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
}

type OrderTracking struct {
	TrackingNumber    string          `json:"trackingNumber"`
	Status            string          `json:"status"`
	EstimatedDelivery string          `json:"estimatedDelivery"`
	TrackingHistory   []TrackingEvent `json:"trackingHistory"`
}

type ReturnItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type ReturnRequest struct {
	Reason string       `json:"reason"`
	Items  []ReturnItem `json:"items"`
}

type ReturnResult struct {
	ReturnID string `json:"returnId"`
	Status   string `json:"status"`
}

type Invoice struct {
	InvoiceURL    string `json:"invoiceUrl"`
	InvoiceNumber string `json:"invoiceNumber"`
}

// UIAddress is an address flattened for rendering.
type UIAddress struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"isDefault"`
}

type UIOrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
}

// UIOrder is the order record the presentation layer renders.
type UIOrder struct {
	ID                string        `json:"id"`
	UserID            string        `json:"userId"`
	Items             []UIOrderItem `json:"items"`
	Subtotal          float64       `json:"subtotal"`
	Tax               float64       `json:"tax"`
	Shipping          float64       `json:"shipping"`
	Discount          float64       `json:"discount"`
	Total             float64       `json:"total"`
	Status            string        `json:"status"`
	ShippingAddress   UIAddress     `json:"shippingAddress"`
	BillingAddress    UIAddress     `json:"billingAddress"`
	PaymentMethod     string        `json:"paymentMethod"`
	CreatedAt         string        `json:"createdAt"`
	UpdatedAt         string        `json:"updatedAt"`
	EstimatedDelivery string        `json:"estimatedDelivery,omitempty"`
}
