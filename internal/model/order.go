package model

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a customer order.
type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	Phone         string      `json:"phone" db:"phone"`
	Address       string      `json:"address" db:"address"`
	Neighborhood  string      `json:"neighborhood" db:"neighborhood"`
	Complement    *string     `json:"complement" db:"complement"`
	PaymentMethod string      `json:"paymentMethod" db:"payment_method"`
	ChangeFor     *string     `json:"changeFor" db:"change_for"`
	Pickup        bool        `json:"pickup" db:"pickup"`
	Subtotal      float64     `json:"subtotal" db:"subtotal"`
	DeliveryFee   float64     `json:"deliveryFee" db:"delivery_fee"`
	Total         float64     `json:"total" db:"total"`
	Status        OrderStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
	Items         []OrderItem `json:"items"`
}

// ShortID is the last six characters of the order id, printed on receipts.
func (o *Order) ShortID() string {
	s := o.ID.String()
	return s[len(s)-6:]
}

// OrderItem is a snapshot of a menu line at the time the order was placed.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ItemID      string    `json:"itemId" db:"item_id"`
	VariantID   *string   `json:"variantId" db:"variant_id"`
	Name        string    `json:"name" db:"name"`
	VariantName *string   `json:"variantName" db:"variant_name"`
	Price       float64   `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
}

// Order limits. Amounts are stored as NUMERIC(10,2).
const (
	MaxItemQuantity = 999
	MaxOrderAmount  = 99_999_999.99
)

// CashPaymentMethod is the only payment method that carries a change-for amount.
const CashPaymentMethod = "Dinheiro"

// OrderRequest represents the checkout payload.
type OrderRequest struct {
	Name          string             `json:"name"`
	Phone         string             `json:"phone"`
	Address       string             `json:"address"`
	Neighborhood  string             `json:"neighborhood"`
	Complement    *string            `json:"complement,omitempty"`
	PaymentMethod string             `json:"paymentMethod"`
	ChangeFor     *string            `json:"changeFor,omitempty"`
	Pickup        bool               `json:"pickup"`
	Subtotal      *float64           `json:"subtotal,omitempty"`
	DeliveryFee   *float64           `json:"deliveryFee,omitempty"`
	Total         *float64           `json:"total,omitempty"`
	Items         []OrderItemRequest `json:"items"`
}

// OrderItemRequest selects a menu item, optionally through one of its variants.
type OrderItemRequest struct {
	ItemID    string `json:"itemId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// QuoteRequest asks for cart totals without placing an order.
type QuoteRequest struct {
	Items        []OrderItemRequest `json:"items"`
	Neighborhood string             `json:"neighborhood"`
	Pickup       bool               `json:"pickup"`
}

// QuoteLine is one aggregated cart line.
type QuoteLine struct {
	Key         string  `json:"key"`
	ItemID      string  `json:"itemId"`
	VariantID   string  `json:"variantId,omitempty"`
	Name        string  `json:"name"`
	VariantName string  `json:"variantName,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
}

// QuoteResponse carries the cart lines and totals.
type QuoteResponse struct {
	Lines       []QuoteLine `json:"lines"`
	TotalItems  int         `json:"totalItems"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"deliveryFee"`
	Total       float64     `json:"total"`
}

// OrderResponse is returned by checkout.
type OrderResponse struct {
	Order       *Order `json:"order"`
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
}

// DateWindow restricts an order listing by creation date.
type DateWindow string

const (
	DateWindowAll   DateWindow = "todos"
	DateWindowToday DateWindow = "hoje"
	DateWindowWeek  DateWindow = "semana"
)

// OrderQuery is the listing request as received from the admin panel.
type OrderQuery struct {
	Status string
	Date   DateWindow
	Since  *time.Time
	Page   int
	Limit  int
}

// OrderFilter is the repository-level listing filter.
type OrderFilter struct {
	Status       *OrderStatus
	CreatedFrom  *time.Time // inclusive
	CreatedAfter *time.Time // exclusive, used as the polling cursor
	OldestFirst  bool
	Limit        int
	Offset       int
}

// OrderListResponse is a page of orders plus the cursor for the next poll.
type OrderListResponse struct {
	Orders []Order   `json:"orders"`
	Total  int       `json:"total"`
	Cursor time.Time `json:"cursor"`
}

// StatusUpdateRequest changes an order's status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
