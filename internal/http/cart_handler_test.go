package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/coupon"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const cartPath = "/api/sessions/s-1/cart"

func save10() coupon.Promotion {
	return coupon.Promotion{
		ID:             "p1",
		Name:           "SAVE10",
		Description:    "10% off everything",
		Kind:           coupon.KindPercentage,
		Value:          decimal.NewFromInt(10),
		MinOrderAmount: decimal.NewFromInt(20000),
		IsActive:       true,
	}
}

func TestNewSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/sessions", nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEmpty(t, decodeBody(t, rr)["sessionId"])
}

func TestGetCart_EmptyOnFirstUse(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, cartPath, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "s-1", body["sessionId"])
	assert.Empty(t, body["items"])
	assert.Equal(t, float64(0), body["totalItems"])
	assert.Equal(t, float64(0), body["finalTotal"])
	assert.Nil(t, body["coupon"])
}

func TestAddItem_IncrementsAndPrices(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})
	rr := env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, float64(2), line["quantity"])
	assert.Equal(t, "Mains", line["category"])
	assert.Equal(t, float64(2), body["totalItems"])
	assert.Equal(t, float64(30000), body["subtotal"])

	formatted := body["formatted"].(map[string]any)
	assert.Equal(t, "30,000 RWF", formatted["finalTotal"])
}

func TestAddItem_Defaults(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "fries"})

	require.Equal(t, http.StatusOK, rr.Code)
	line := decodeBody(t, rr)["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "Uncategorized", line["category"])
	assert.Equal(t, "/placeholder-food.jpg", line["image"])
}

func TestAddItem_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body any
		code int
	}{
		{"missing item id", map[string]string{}, http.StatusBadRequest},
		{"unknown item", map[string]string{"itemId": "nope"}, http.StatusNotFound},
		{"unavailable item", map[string]string{"itemId": "soup"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rr := env.do(t, http.MethodPost, cartPath+"/items", tt.body)

			assert.Equal(t, tt.code, rr.Code)
			assert.Empty(t, env.carts.carts)
		})
	}
}

func TestSetQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})

	rr := env.do(t, http.MethodPut, cartPath+"/items/burger", map[string]int{"quantity": 4})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(4), decodeBody(t, rr)["totalItems"])

	rr = env.do(t, http.MethodPut, cartPath+"/items/burger", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeBody(t, rr)["items"])
}

func TestSetQuantity_RequiresQuantity(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, cartPath+"/items/burger", map[string]string{})

	assertError(t, rr, http.StatusBadRequest, "quantity is required")
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "fries"})

	rr := env.do(t, http.MethodDelete, cartPath+"/items/burger", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	items := decodeBody(t, rr)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "fries", items[0].(map[string]any)["id"])
}

func TestApplyCoupon(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.promotions = []coupon.Promotion{save10()}
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})

	rr := env.do(t, http.MethodPost, cartPath+"/coupon", map[string]string{"code": "save10"})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, "Coupon applied: 10% off everything", body["message"])
	view := body["cart"].(map[string]any)
	assert.Equal(t, float64(3000), view["discountAmount"])
	assert.Equal(t, float64(27000), view["finalTotal"])
	assert.Contains(t, env.coupons.applied, "s-1")
}

func TestApplyCoupon_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		code  string
		want  string
	}{
		{"empty code", []string{"burger", "burger"}, "  ", "Please enter a coupon code"},
		{"unknown code", []string{"burger", "burger"}, "FREEFOOD", "Invalid coupon code"},
		{"minimum not met", []string{"burger"}, "SAVE10", "Minimum order amount of 20,000 RWF required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.catalog.promotions = []coupon.Promotion{save10()}
			for _, id := range tt.items {
				env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": id})
			}

			rr := env.do(t, http.MethodPost, cartPath+"/coupon", map[string]string{"code": tt.code})

			assertError(t, rr, http.StatusBadRequest, tt.want)
			assert.Empty(t, env.coupons.applied)
		})
	}
}

func TestApplyCoupon_FallbackLabel(t *testing.T) {
	env := newTestEnv(t)
	p := save10()
	p.Description = ""
	p.MinOrderAmount = decimal.Zero
	env.catalog.promotions = []coupon.Promotion{p}
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "fries"})

	rr := env.do(t, http.MethodPost, cartPath+"/coupon", map[string]string{"code": "SAVE10"})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Coupon applied: 10% off", decodeBody(t, rr)["message"])
}

func TestRemoveCoupon(t *testing.T) {
	env := newTestEnv(t)
	env.coupons.applied["s-1"] = coupon.Applied{Promotion: save10(), DiscountAmount: decimal.NewFromInt(100)}

	rr := env.do(t, http.MethodDelete, cartPath+"/coupon", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, env.coupons.applied)
	assert.Nil(t, decodeBody(t, rr)["cart"].(map[string]any)["coupon"])
}

func TestClearCart_DropsCoupon(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})
	env.coupons.applied["s-1"] = coupon.Applied{Promotion: save10(), DiscountAmount: decimal.NewFromInt(1500)}

	rr := env.do(t, http.MethodDelete, cartPath, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, env.carts.carts)
	assert.Empty(t, env.coupons.applied)
}

func TestCartTotals_ClampAfterShrink(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "fries"})
	env.coupons.applied["s-1"] = coupon.Applied{Promotion: save10(), DiscountAmount: decimal.NewFromInt(5000)}

	rr := env.do(t, http.MethodGet, cartPath, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(0), decodeBody(t, rr)["finalTotal"])
}

var customerInfo = map[string]string{
	"name":    "Aline",
	"phone":   "0788000000",
	"address": "KN 5 Rd",
	"city":    "Kigali",
	"email":   "aline@example.rw",
}

func TestCheckoutSession(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.promotions = []coupon.Promotion{save10()}
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})
	env.do(t, http.MethodPost, cartPath+"/coupon", map[string]string{"code": "SAVE10"})

	rr := env.do(t, http.MethodPost, cartPath+"/checkout", customerInfo)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "order-1", decodeBody(t, rr)["orderId"])

	require.Len(t, env.submitter.got, 1)
	req := env.submitter.got[0]
	assert.Equal(t, "KN 5 Rd, Kigali", req.Customer.DeliveryAddress())
	assert.True(t, req.Subtotal.Equal(decimal.NewFromInt(30000)))
	assert.True(t, req.DiscountAmount.Equal(decimal.NewFromInt(3000)))
	assert.True(t, req.FinalTotal.Equal(decimal.NewFromInt(27000)))

	assert.Empty(t, env.carts.carts)
	assert.Empty(t, env.coupons.applied)
}

func TestCheckoutSession_EmptyCartKeepsState(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, cartPath+"/checkout", customerInfo)

	assertError(t, rr, http.StatusBadRequest, "Your cart is empty")
}

func TestCheckoutSession_FailureKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, cartPath+"/items", map[string]string{"itemId": "burger"})
	info := map[string]string{"name": "Aline", "phone": "", "address": "KN 5 Rd", "city": "Kigali"}

	rr := env.do(t, http.MethodPost, cartPath+"/checkout", info)

	assertError(t, rr, http.StatusBadRequest, "Please fill in all required fields")
	assert.Contains(t, env.carts.carts, "s-1")
}

func TestReorder(t *testing.T) {
	env := newTestEnv(t)
	burger, soup, gone := "burger", "soup", "gone"
	env.orders.getByIDFunc = func(ctx context.Context, orderID string) (*order.Detail, error) {
		d := pendingDetail(orderID)
		d.Items = []order.DetailLine{
			{ID: "l1", MenuItemID: &burger, Quantity: 3, UnitPrice: decimal.NewFromInt(12000)},
			{ID: "l2", MenuItemID: &soup, Quantity: 1},
			{ID: "l3", MenuItemID: &gone, Quantity: 1},
			{ID: "l4", Quantity: 1},
		}
		return d, nil
	}

	rr := env.do(t, http.MethodPost, cartPath+"/reorder/o-1", nil)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, float64(1), body["added"])
	assert.ElementsMatch(t, []any{"soup", "gone"}, body["skipped"])

	view := body["cart"].(map[string]any)
	assert.Equal(t, float64(1), view["totalItems"])
	assert.Equal(t, float64(15000), view["subtotal"])
}

func TestReorder_OrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, cartPath+"/reorder/missing", nil)

	assertError(t, rr, http.StatusNotFound, "Order not found")
}
