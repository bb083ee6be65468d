package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	orderPlacedEventName    = "OrderPlaced"
	orderPlacedEventVersion = 1
	orderPlacedSchema       = "schemas/OrderPlaced.v1.schema.json"
)

type OrderPlacedLine struct {
	MenuItemID string          `json:"menuItemId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type OrderPlacedPayload struct {
	OrderID         string            `json:"orderId"`
	CustomerID      *string           `json:"customerId"`
	Status          string            `json:"status"`
	Lines           []OrderPlacedLine `json:"lines"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	DiscountAmount  decimal.Decimal   `json:"discountAmount"`
	Total           decimal.Decimal   `json:"total"`
	DeliveryAddress string            `json:"deliveryAddress"`
	PlacedAt        time.Time         `json:"placedAt"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// partitionKey groups a customer's orders; guest orders stand alone.
func partitionKey(o *order.Order) string {
	if o.CustomerID != nil && *o.CustomerID != "" {
		return "customer:" + *o.CustomerID
	}
	return "order:" + o.ID
}

func BuildOrderPlacedEnvelope(o *order.Order, lines []order.Line, seq int64, correlationID string) OrderPlacedEnvelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	out := make([]OrderPlacedLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderPlacedLine{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.TotalPrice,
		})
	}

	return OrderPlacedEnvelope{
		EventName:     orderPlacedEventName,
		EventVersion:  orderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      producerName,
		PartitionKey:  partitionKey(o),
		Sequence:      &seq,
		OccurredAt:    time.Now().UTC(),
		Schema:        orderPlacedSchema,
		Payload: OrderPlacedPayload{
			OrderID:         o.ID,
			CustomerID:      o.CustomerID,
			Status:          string(o.Status),
			Lines:           out,
			Subtotal:        o.Subtotal,
			DiscountAmount:  o.DiscountAmount,
			Total:           o.Total,
			DeliveryAddress: o.DeliveryAddress,
			PlacedAt:        o.CreatedAt,
		},
	}
}
