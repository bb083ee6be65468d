package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/coupon"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

const maxSessionIDLen = 128

type formattedTotals struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discountAmount"`
	FinalTotal     string `json:"finalTotal"`
}

type cartView struct {
	SessionID  string      `json:"sessionId"`
	Items      []cart.Line `json:"items"`
	TotalItems int         `json:"totalItems"`
	pricing.Totals
	Coupon    *coupon.Applied `json:"coupon"`
	Formatted formattedTotals `json:"formatted"`
}

// session is one request's view of a cart and its coupon.
type session struct {
	store  *cart.Store
	coupon *coupon.Session
}

func (s *session) totals() pricing.Totals {
	return pricing.Compute(s.store.Cart().TotalPrice(), s.coupon.Applied())
}

func (h *Handler) view(s *session) cartView {
	c := s.store.Cart()
	t := s.totals()
	return cartView{
		SessionID:  c.SessionID,
		Items:      c.Snapshot(),
		TotalItems: c.TotalItems(),
		Totals:     t,
		Coupon:     s.coupon.Applied(),
		Formatted: formattedTotals{
			Subtotal:       money.Format(t.Subtotal, h.currency),
			DiscountAmount: money.Format(t.DiscountAmount, h.currency),
			FinalTotal:     money.Format(t.FinalTotal, h.currency),
		},
	}
}

func sessionID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	return id, id != "" && len(id) <= maxSessionIDLen
}

func (h *Handler) openSession(ctx context.Context, id string) (*session, error) {
	store, err := cart.Open(ctx, h.carts, id)
	if err != nil {
		return nil, err
	}
	cs, err := coupon.OpenSession(ctx, h.coupons, id)
	if err != nil {
		return nil, err
	}
	return &session{store: store, coupon: cs}, nil
}

// withSession resolves the path session and hands the loaded cart to fn.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, s *session)) {
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid sessionId")
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	s, err := h.openSession(ctx, id)
	if err != nil {
		h.log.Error("load cart", zap.String("sessionId", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	fn(ctx, s)
}

// NewSession issues a fresh cart session id.
func (h *Handler) NewSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": uuid.NewString()})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctx context.Context, s *session) {
		writeJSON(w, http.StatusOK, h.view(s))
	})
}

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

// AddItem adds one unit of a catalog item, priced from the catalog.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.ItemID) == "" {
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	h.withSession(w, r, func(ctx context.Context, s *session) {
		item, err := h.catalog.MenuItem(ctx, req.ItemID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Item not found")
				return
			}
			h.log.Error("fetch menu item", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load item")
			return
		}
		if !item.IsAvailable {
			writeError(w, http.StatusConflict, "Item is not available")
			return
		}

		if err := s.store.Add(ctx, item.CartItem()); err != nil {
			h.writeCartError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.view(s))
	})
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	h.withSession(w, r, func(ctx context.Context, s *session) {
		if err := s.store.SetQuantity(ctx, chi.URLParam(r, "itemId"), *req.Quantity); err != nil {
			h.writeCartError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.view(s))
	})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctx context.Context, s *session) {
		if err := s.store.Remove(ctx, chi.URLParam(r, "itemId")); err != nil {
			h.writeCartError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.view(s))
	})
}

// ClearCart empties the cart and drops its coupon.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctx context.Context, s *session) {
		if err := h.clear(ctx, s); err != nil {
			h.writeCartError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.view(s))
	})
}

func (h *Handler) clear(ctx context.Context, s *session) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	return s.coupon.Remove(ctx)
}

func (h *Handler) writeCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrInvalidItem) {
		writeError(w, http.StatusBadRequest, "invalid cart item")
		return
	}
	h.log.Error("save cart", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to save cart")
}

type couponRequest struct {
	Code string `json:"code"`
}

type couponResponse struct {
	Message string   `json:"message"`
	Cart    cartView `json:"cart"`
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h.withSession(w, r, func(ctx context.Context, s *session) {
		promos, err := h.catalog.ActivePromotions(ctx, h.now())
		if err != nil {
			h.log.Error("fetch promotions", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to fetch promotions")
			return
		}

		applied, err := s.coupon.Apply(ctx, req.Code, promos, s.store.Cart().TotalPrice())
		if err != nil {
			var minErr *coupon.MinimumNotMetError
			switch {
			case errors.Is(err, coupon.ErrEmptyCode):
				writeError(w, http.StatusBadRequest, "Please enter a coupon code")
			case errors.Is(err, coupon.ErrInvalidCode):
				writeError(w, http.StatusBadRequest, "Invalid coupon code")
			case errors.As(err, &minErr):
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("Minimum order amount of %s required", money.Format(minErr.Required, h.currency)))
			default:
				h.log.Error("apply coupon", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to apply coupon")
			}
			return
		}

		writeJSON(w, http.StatusOK, couponResponse{
			Message: "Coupon applied: " + couponLabel(applied.Promotion),
			Cart:    h.view(s),
		})
	})
}

func couponLabel(p coupon.Promotion) string {
	if p.Description != "" {
		return p.Description
	}
	return p.Value.String() + "% off"
}

func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctx context.Context, s *session) {
		if err := s.coupon.Remove(ctx); err != nil {
			h.log.Error("remove coupon", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to remove coupon")
			return
		}
		writeJSON(w, http.StatusOK, couponResponse{Message: "Coupon removed", Cart: h.view(s)})
	})
}

// CheckoutSession prices the stored cart, submits it and clears the cart once
// the order exists.
func (h *Handler) CheckoutSession(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateJSONSchema(customerInfoLoader, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var info checkout.CustomerInfo
	if err := json.Unmarshal(body, &info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h.withSession(w, r, func(ctx context.Context, s *session) {
		req := checkout.NewRequest(info, s.store.Cart(), s.totals())
		id, err := h.checkout.Submit(ctx, req)
		if err != nil {
			h.writeCheckoutError(w, err)
			return
		}

		// the order exists; a failed clear must not turn it into an error
		if err := h.clear(ctx, s); err != nil {
			h.log.Warn("clear cart after checkout", zap.String("orderId", id), zap.Error(err))
		}
		writeJSON(w, http.StatusOK, checkoutResponse{Success: true, OrderID: id})
	})
}

type reorderResponse struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped"`
	Cart    cartView `json:"cart"`
}

// Reorder adds one unit of each item from a past order at today's price.
// Items no longer on the menu are reported as skipped.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctx context.Context, s *session) {
		d, err := h.orders.GetByID(ctx, chi.URLParam(r, "orderId"))
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Order not found")
				return
			}
			h.log.Error("fetch order", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to fetch order")
			return
		}

		resp := reorderResponse{Skipped: []string{}}
		for _, l := range d.Items {
			if l.MenuItemID == nil {
				continue
			}
			item, err := h.catalog.MenuItem(ctx, *l.MenuItemID)
			if err != nil && !errors.Is(err, catalog.ErrNotFound) {
				h.log.Error("fetch menu item", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to add items to cart")
				return
			}
			if err != nil || !item.IsAvailable {
				resp.Skipped = append(resp.Skipped, *l.MenuItemID)
				continue
			}
			if err := s.store.Add(ctx, item.CartItem()); err != nil {
				h.writeCartError(w, err)
				return
			}
			resp.Added++
		}

		resp.Cart = h.view(s)
		writeJSON(w, http.StatusOK, resp)
	})
}
