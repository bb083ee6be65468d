package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// Menu returns active categories by sort order and available items, newest first.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	cats, err := h.catalog.Categories(ctx)
	if err != nil {
		h.log.Error("fetch categories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	items, err := h.catalog.MenuItems(ctx)
	if err != nil {
		h.log.Error("fetch menu items", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch menu items")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
		"menuItems":  items,
	})
}

func (h *Handler) MenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	item, err := h.catalog.MenuItem(ctx, chi.URLParam(r, "itemId"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.log.Error("fetch menu item", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load item details")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": item})
}

func (h *Handler) Promotions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	promos, err := h.catalog.ActivePromotions(ctx, h.now())
	if err != nil {
		h.log.Error("fetch promotions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch promotions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": promos})
}
