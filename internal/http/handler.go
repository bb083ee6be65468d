package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/coupon"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const defaultTimeout = 3 * time.Second

type OrderSubmitter interface {
	Submit(ctx context.Context, req checkout.Request) (string, error)
}

type Deps struct {
	Catalog  catalog.Repository
	Orders   order.Repository
	Carts    cart.Repository
	Coupons  coupon.Repository
	Checkout OrderSubmitter
	Log      *zap.Logger

	// Timeout bounds each handler's store calls. Zero means three seconds.
	Timeout       time.Duration
	CurrencyLabel string
	Now           func() time.Time
}

type Handler struct {
	catalog  catalog.Repository
	orders   order.Repository
	carts    cart.Repository
	coupons  coupon.Repository
	checkout OrderSubmitter
	log      *zap.Logger
	timeout  time.Duration
	currency string
	now      func() time.Time
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		catalog:  d.Catalog,
		orders:   d.Orders,
		carts:    d.Carts,
		coupons:  d.Coupons,
		checkout: d.Checkout,
		log:      d.Log,
		timeout:  d.Timeout,
		currency: d.CurrencyLabel,
		now:      d.Now,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.timeout <= 0 {
		h.timeout = defaultTimeout
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
