package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

const msgRequiredFields = "Please fill in all required fields"

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes,omitempty"`
}

// DeliveryAddress is "{address}, {city}".
func (c CustomerInfo) DeliveryAddress() string {
	return strings.TrimSpace(c.Address) + ", " + strings.TrimSpace(c.City)
}

// Request is the final cart and pricing state packaged for one submission.
type Request struct {
	Customer       CustomerInfo
	Lines          []cart.Line
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalTotal     decimal.Decimal
}

// NewRequest snapshots c so later cart mutations do not leak into the order.
func NewRequest(info CustomerInfo, c *cart.Cart, totals pricing.Totals) Request {
	return Request{
		Customer:       info,
		Lines:          c.Snapshot(),
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		FinalTotal:     totals.FinalTotal,
	}
}

func (r Request) Validate() error {
	required := []struct{ field, value string }{
		{"name", r.Customer.Name},
		{"phone", r.Customer.Phone},
		{"address", r.Customer.Address},
		{"city", r.Customer.City},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Message: msgRequiredFields}
		}
	}

	if len(r.Lines) == 0 {
		return &ValidationError{Field: "cart", Message: "Your cart is empty"}
	}
	sum := decimal.Zero
	for _, l := range r.Lines {
		if l.ItemID == "" || l.Quantity < 1 || l.UnitPrice.IsNegative() {
			return &ValidationError{Field: "cart", Message: "Cart contains an invalid item"}
		}
		sum = sum.Add(l.Total())
	}

	if !money.Equal(sum, r.Subtotal) {
		return &ValidationError{Field: "subtotal", Message: "Subtotal does not match cart items"}
	}
	if r.DiscountAmount.IsNegative() {
		return &ValidationError{Field: "discountAmount", Message: "Discount cannot be negative"}
	}
	if !money.Equal(r.FinalTotal, pricing.FinalTotal(r.Subtotal, r.DiscountAmount)) {
		return &ValidationError{Field: "finalTotal", Message: "Total does not match subtotal and discount"}
	}
	return nil
}
