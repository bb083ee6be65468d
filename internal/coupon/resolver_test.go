package coupon

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func promotions() []Promotion {
	return []Promotion{
		{ID: "p1", Name: "Welcome", Kind: KindPercentage, Value: d("10"), Code: "SAVE10", MinOrderAmount: d("5000"), IsActive: true},
		{ID: "p2", Name: "FLAT2K", Kind: KindFixed, Value: d("2000"), MinOrderAmount: d("0"), IsActive: true},
		{ID: "p3", Name: "Second welcome", Kind: KindPercentage, Value: d("50"), Code: "save10", MinOrderAmount: d("0"), IsActive: true},
	}
}

func TestApply_PercentageScenario(t *testing.T) {
	a, err := Apply("SAVE10", promotions(), d("10000"))
	require.NoError(t, err)
	assert.Equal(t, "p1", a.Promotion.ID)
	assert.True(t, a.DiscountAmount.Equal(d("1000")), "discount %s", a.DiscountAmount)
}

func TestApply_MatchesNameOrCodeIgnoringCase(t *testing.T) {
	a, err := Apply("welcome", promotions(), d("6000"))
	require.NoError(t, err)
	assert.Equal(t, "p1", a.Promotion.ID)

	a, err = Apply("flat2k", promotions(), d("6000"))
	require.NoError(t, err)
	assert.Equal(t, "p2", a.Promotion.ID)
	assert.True(t, a.DiscountAmount.Equal(d("2000")))
}

func TestApply_FirstMatchWins(t *testing.T) {
	a, err := Apply("Save10", promotions(), d("8000"))
	require.NoError(t, err)
	assert.Equal(t, "p1", a.Promotion.ID)
}

func TestApply_EmptyCode(t *testing.T) {
	for _, code := range []string{"", "   ", "\t\n"} {
		_, err := Apply(code, promotions(), d("100"))
		assert.ErrorIs(t, err, ErrEmptyCode, "code %q", code)
	}
}

func TestApply_InvalidCode(t *testing.T) {
	_, err := Apply("NOPE", promotions(), d("100000"))
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = Apply("SAVE10", nil, d("100000"))
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestApply_MinimumNotMet(t *testing.T) {
	_, err := Apply("SAVE10", promotions(), d("4999.99"))
	var minErr *MinimumNotMetError
	require.True(t, errors.As(err, &minErr))
	assert.True(t, minErr.Required.Equal(d("5000")))
	assert.Contains(t, err.Error(), "5000")
}

func TestApply_MinimumEqualToSubtotalIsAccepted(t *testing.T) {
	a, err := Apply("SAVE10", promotions(), d("5000"))
	require.NoError(t, err)
	assert.True(t, a.DiscountAmount.Equal(d("500")))
}

func TestDiscount(t *testing.T) {
	cases := []struct {
		name     string
		p        Promotion
		subtotal string
		want     string
	}{
		{"percentage", Promotion{Kind: KindPercentage, Value: d("15")}, "2000", "300"},
		{"percentage fraction", Promotion{Kind: KindPercentage, Value: d("12.5")}, "999", "124.875"},
		{"fixed", Promotion{Kind: KindFixed, Value: d("750")}, "2000", "750"},
		{"fixed capped at subtotal", Promotion{Kind: KindFixed, Value: d("3000")}, "2000", "2000"},
		{"percentage over 100 capped", Promotion{Kind: KindPercentage, Value: d("150")}, "2000", "2000"},
		{"unknown kind", Promotion{Kind: "bogo", Value: d("5")}, "2000", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Discount(tc.p, d(tc.subtotal))
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindPercentage.Valid())
	assert.True(t, KindFixed.Valid())
	assert.False(t, Kind("other").Valid())
}
