// Package pricing derives order totals from a cart subtotal and the applied
// coupon. Totals are recomputed on every read and never stored.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/coupon"
)

type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

// Compute returns subtotal, the applied discount (zero without a coupon) and
// their difference, which never goes below zero.
func Compute(subtotal decimal.Decimal, applied *coupon.Applied) Totals {
	discount := decimal.Zero
	if applied != nil {
		discount = applied.DiscountAmount
	}
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		FinalTotal:     FinalTotal(subtotal, discount),
	}
}

func FinalTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	return decimal.Max(subtotal.Sub(discount), decimal.Zero)
}
