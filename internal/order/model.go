package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is the persisted order header. CustomerID is nil for guest checkouts.
type Order struct {
	ID              string          `json:"id"`
	CustomerID      *string         `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Status          Status          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Total           decimal.Decimal `json:"total"`
	Notes           *string         `json:"notes"`
	DeliveryAddress string          `json:"delivery_address"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Line struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"order_id"`
	MenuItemID string          `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CustomerRef struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email"`
}

type MenuItemRef struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

type DetailLine struct {
	ID         string          `json:"id"`
	MenuItemID *string         `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	MenuItem   *MenuItemRef    `json:"menu_items"`
}

// Detail is an order with its customer and lines joined in, the shape the
// order status page reads.
type Detail struct {
	Order
	StatusLabel string       `json:"status_label"`
	Customer    *CustomerRef `json:"customer"`
	Items       []DetailLine `json:"order_items"`
}
