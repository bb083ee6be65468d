package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// NewRouter mounts the storefront API. limiter may be nil, in which case
// checkout is not rate limited.
func NewRouter(h *Handler, log *zap.Logger, allowOrigins []string, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(allowOrigins))

	limited := func(r chi.Router) chi.Router {
		if limiter == nil {
			return r
		}
		return r.With(limiter.Middleware)
	}

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.Menu)
		r.Get("/menu/{itemId}", h.MenuItem)
		r.Get("/promotions", h.Promotions)

		limited(r).Post("/checkout", h.Checkout)

		r.Get("/orders/{orderId}", h.GetOrder)
		r.Patch("/orders/{orderId}/status", h.UpdateOrderStatus)
		r.Get("/customers/{email}/orders", h.CustomerOrders)

		r.Post("/sessions", h.NewSession)
		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddItem)
			r.Put("/cart/items/{itemId}", h.SetQuantity)
			r.Delete("/cart/items/{itemId}", h.RemoveItem)
			r.Post("/cart/coupon", h.ApplyCoupon)
			r.Delete("/cart/coupon", h.RemoveCoupon)
			limited(r).Post("/cart/checkout", h.CheckoutSession)
			r.Post("/cart/reorder/{orderId}", h.Reorder)
		})
	})

	return r
}
