package coupon

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCode   = errors.New("please enter a coupon code")
	ErrInvalidCode = errors.New("invalid coupon code")
)

// MinimumNotMetError is returned when the subtotal is below the promotion's
// minimum order amount.
type MinimumNotMetError struct {
	Required decimal.Decimal
}

func (e *MinimumNotMetError) Error() string {
	return fmt.Sprintf("minimum order amount of %s required", e.Required.String())
}
