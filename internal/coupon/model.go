package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFixed      Kind = "fixed"
)

func (k Kind) Valid() bool {
	return k == KindPercentage || k == KindFixed
}

// Promotion is a discount rule read from the catalog. It is never mutated here.
type Promotion struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Kind           Kind            `json:"type"`
	Value          decimal.Decimal `json:"value"`
	Code           string          `json:"code,omitempty"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	IsActive       bool            `json:"is_active"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
}

// Applied is the coupon currently attached to a cart.
type Applied struct {
	Promotion      Promotion       `json:"promotion"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}
