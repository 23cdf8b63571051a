package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Next returns the status that follows s in the progression sequence.
// Delivered and Cancelled are terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusProcessing, true
	case StatusProcessing:
		return StatusShipped, true
	case StatusShipped:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// Terminal reports whether no further transition can leave s.
func (s OrderStatus) Terminal() bool {
	_, ok := s.Next()
	return !ok
}

// Order represents a placed order. Lines are a point-in-time copy of the
// products that were in the cart at checkout.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          int64           `json:"userId" db:"user_id"`
	Lines           []OrderLine     `json:"-"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	ShippingAddress string          `json:"shippingAddress" db:"shipping_address"`
	OrderDate       time.Time       `json:"orderDate" db:"order_date"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty" db:"delivery_date"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderLine represents a frozen line item of an order.
type OrderLine struct {
	ID              uuid.UUID       `json:"-" db:"id"`
	OrderID         uuid.UUID       `json:"-" db:"order_id"`
	ProductID       int64           `json:"productId" db:"product_id"`
	ProductName     string          `json:"productName" db:"product_name"`
	ProductPrice    decimal.Decimal `json:"productPrice" db:"product_price"`
	ProductImageURL string          `json:"productImageUrl" db:"product_image_url"`
	ProductCategory string          `json:"productCategory" db:"product_category"`
	Quantity        int             `json:"quantity" db:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.ProductPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StatusJob is the next pending step of an order's status progression.
type StatusJob struct {
	OrderID        uuid.UUID   `db:"order_id"`
	ExpectedStatus OrderStatus `db:"expected_status"`
	NextStatus     OrderStatus `db:"next_status"`
	DueAt          time.Time   `db:"due_at"`
}

// PaymentInfo carries the card details submitted at checkout. Only a masked
// display string derived from CardNumber is ever persisted.
type PaymentInfo struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// CheckoutRequest represents the request payload for creating an order from the cart.
type CheckoutRequest struct {
	PaymentInfo     PaymentInfo `json:"paymentInfo"`
	ShippingAddress string      `json:"shippingAddress"`
}

// OrderProduct is the product view embedded in an order item response.
type OrderProduct struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Category string          `json:"category"`
}

// OrderItemResponse represents a single line of an order response.
type OrderItemResponse struct {
	Product  OrderProduct `json:"product"`
	Quantity int          `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          int64               `json:"userId"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Status          OrderStatus         `json:"status"`
	PaymentMethod   string              `json:"paymentMethod"`
	ShippingAddress string              `json:"shippingAddress"`
	OrderDate       time.Time           `json:"orderDate"`
	DeliveryDate    *time.Time          `json:"deliveryDate,omitempty"`
}

// NewOrderResponse maps an order and its lines to the API representation.
func NewOrderResponse(o *Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Lines))
	for i, l := range o.Lines {
		items[i] = OrderItemResponse{
			Product: OrderProduct{
				ID:       l.ProductID,
				Name:     l.ProductName,
				Price:    l.ProductPrice,
				ImageURL: l.ProductImageURL,
				Category: l.ProductCategory,
			},
			Quantity: l.Quantity,
		}
	}

	return &OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		DeliveryDate:    o.DeliveryDate,
	}
}

// NewOrderResponses maps a list of orders, preserving order.
func NewOrderResponses(orders []Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = *NewOrderResponse(&orders[i])
	}
	return out
}
