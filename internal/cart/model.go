package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
)

var ErrInvalidItem = errors.New("invalid cart item")

// Item is a menu entry offered to the cart. Quantity is owned by the cart.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category,omitempty"`
	Image    string          `json:"image,omitempty"`
}

// Line is one distinct item in the cart. Quantity is always at least 1.
type Line struct {
	ItemID    string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category,omitempty"`
	ImageRef  string          `json:"image,omitempty"`
}

// Total is unitPrice × quantity.
func (l Line) Total() decimal.Decimal {
	return money.LineTotal(l.UnitPrice, l.Quantity)
}

// Cart is an ordered set of lines keyed by item id.
type Cart struct {
	SessionID string    `json:"sessionId"`
	Lines     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []Line{}}
}

// Add increments the line for item.ID, or appends a new line with quantity 1.
func (c *Cart) Add(item Item) error {
	if item.ID == "" || item.Price.IsNegative() {
		return ErrInvalidItem
	}
	if i := c.index(item.ID); i >= 0 {
		c.Lines[i].Quantity++
		return nil
	}
	c.Lines = append(c.Lines, Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		Category:  item.Category,
		ImageRef:  item.Image,
	})
	return nil
}

// Remove deletes the line regardless of its quantity. It reports whether a
// line was removed.
func (c *Cart) Remove(itemID string) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less removes
// the line.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	if i := c.index(itemID); i >= 0 {
		c.Lines[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) Line(itemID string) (Line, bool) {
	if i := c.index(itemID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice sums the line totals without rounding any of them.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Snapshot returns a copy of the lines that later mutations cannot touch.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, len(c.Lines))
	copy(out, c.Lines)
	return out
}

func (c *Cart) index(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
