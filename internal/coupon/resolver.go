// Package coupon resolves user-entered coupon codes against the active
// promotions and tracks the coupon applied to a cart session.
package coupon

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Apply resolves code against promotions, in the order they were fetched, and
// computes the discount for subtotal.
func Apply(code string, promotions []Promotion, subtotal decimal.Decimal) (*Applied, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyCode
	}

	p, ok := Match(code, promotions)
	if !ok {
		return nil, ErrInvalidCode
	}

	if subtotal.LessThan(p.MinOrderAmount) {
		return nil, &MinimumNotMetError{Required: p.MinOrderAmount}
	}

	return &Applied{Promotion: p, DiscountAmount: Discount(p, subtotal)}, nil
}

// Match returns the first promotion whose name or code equals code, ignoring case.
func Match(code string, promotions []Promotion) (Promotion, bool) {
	for _, p := range promotions {
		if strings.EqualFold(p.Name, code) || (p.Code != "" && strings.EqualFold(p.Code, code)) {
			return p, true
		}
	}
	return Promotion{}, false
}

// Discount is subtotal × value/100 for percentage promotions and the raw value
// for fixed ones, capped at subtotal.
func Discount(p Promotion, subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.Kind {
	case KindPercentage:
		d = subtotal.Mul(p.Value.Div(hundred))
	case KindFixed:
		d = p.Value
	default:
		return decimal.Zero
	}
	return decimal.Min(d, subtotal)
}
