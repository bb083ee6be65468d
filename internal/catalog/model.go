package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

const (
	uncategorized    = "Uncategorized"
	placeholderImage = "/placeholder-food.jpg"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

type MenuItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url"`
	CategoryID   *string         `json:"category_id"`
	CategoryName string          `json:"category"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CartItem converts a menu entry into what the cart stores, filling the
// display defaults for a missing category or image.
func (m MenuItem) CartItem() cart.Item {
	category := m.CategoryName
	if category == "" {
		category = uncategorized
	}
	image := m.ImageURL
	if image == "" {
		image = placeholderImage
	}
	return cart.Item{ID: m.ID, Name: m.Name, Price: m.Price, Category: category, Image: image}
}
