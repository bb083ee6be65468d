package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

type checkoutRequest struct {
	checkout.CustomerInfo
	Cart           []cart.Line     `json:"cart"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

type checkoutResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

// Checkout accepts a client-priced cart, re-checks the totals and places the order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateJSONSchema(checkoutLoader, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req checkoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	id, err := h.checkout.Submit(ctx, checkout.Request{
		Customer:       req.CustomerInfo,
		Lines:          req.Cart,
		Subtotal:       req.Subtotal,
		DiscountAmount: req.DiscountAmount,
		FinalTotal:     req.FinalTotal,
	})
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{Success: true, OrderID: id})
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	var (
		vErr *checkout.ValidationError
		dErr *checkout.DownstreamError
	)
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.As(err, &dErr):
		h.log.Error("checkout failed", zap.String("step", dErr.Step), zap.Error(dErr.Err))
		writeError(w, http.StatusInternalServerError, downstreamMessage(dErr.Step))
	default:
		h.log.Error("checkout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process checkout")
	}
}

func downstreamMessage(step string) string {
	switch step {
	case checkout.StepCustomer:
		return "Failed to create customer"
	case checkout.StepOrder:
		return "Failed to create order"
	case checkout.StepLines:
		return "Failed to create order items"
	}
	return "Failed to process checkout"
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

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
	writeJSON(w, http.StatusOK, map[string]any{"data": d})
}

// CustomerOrders lists a customer's orders, newest first.
func (h *Handler) CustomerOrders(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing email")
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	orders, err := h.orders.ListByCustomerEmail(ctx, email)
	if err != nil {
		h.log.Error("list orders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": orders})
}

type statusRequest struct {
	Status order.Status `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	orderID := chi.URLParam(r, "orderId")
	d, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.log.Error("fetch order", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	if !d.Status.CanTransition(req.Status) {
		writeError(w, http.StatusConflict, order.ErrInvalidTransition.Error()+": "+string(d.Status)+" -> "+string(req.Status))
		return
	}

	if err := h.orders.UpdateStatus(ctx, orderID, req.Status); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.log.Error("update order status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	h.log.Info("order status changed",
		zap.String("orderId", orderID),
		zap.String("from", string(d.Status)),
		zap.String("to", string(req.Status)),
	)
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{
		"id":           orderID,
		"status":       string(req.Status),
		"status_label": req.Status.Label(),
	}})
}
