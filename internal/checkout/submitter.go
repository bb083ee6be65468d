// Package checkout turns a priced cart into a persisted order.
package checkout

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// Store is the slice of the order repository a submission writes through.
type Store interface {
	FindCustomerByEmail(ctx context.Context, email string) (*order.Customer, error)
	CreateCustomer(ctx context.Context, c *order.Customer) error
	UpdateCustomer(ctx context.Context, c *order.Customer) error
	CreateOrder(ctx context.Context, o *order.Order) error
	CreateOrderLines(ctx context.Context, orderID string, lines []order.Line) error
	DeleteOrder(ctx context.Context, orderID string) error
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order, lines []order.Line) error
}

type Submitter struct {
	store Store
	pub   EventPublisher
	log   *zap.Logger
}

// NewSubmitter wires a submitter. pub may be nil when events are disabled.
func NewSubmitter(store Store, pub EventPublisher, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{store: store, pub: pub, log: log.Named("checkout")}
}

// Submit validates req and writes customer, order and lines in that order.
// A failure writing lines deletes the order created for them.
func (s *Submitter) Submit(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	customerID, err := s.resolveCustomer(ctx, req.Customer)
	if err != nil {
		return "", &DownstreamError{Step: StepCustomer, Err: err}
	}

	info := req.Customer
	o := &order.Order{
		CustomerID:      customerID,
		CustomerName:    strings.TrimSpace(info.Name),
		CustomerPhone:   strings.TrimSpace(info.Phone),
		CustomerAddress: strings.TrimSpace(info.Address),
		Status:          order.StatusPending,
		Subtotal:        req.Subtotal,
		DiscountAmount:  req.DiscountAmount,
		Total:           req.FinalTotal,
		DeliveryAddress: info.DeliveryAddress(),
	}
	if notes := strings.TrimSpace(info.Notes); notes != "" {
		o.Notes = &notes
	}
	if err := s.store.CreateOrder(ctx, o); err != nil {
		return "", &DownstreamError{Step: StepOrder, Err: err}
	}

	lines := make([]order.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, order.Line{
			MenuItemID: l.ItemID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.Total(),
		})
	}
	if err := s.store.CreateOrderLines(ctx, o.ID, lines); err != nil {
		if delErr := s.store.DeleteOrder(ctx, o.ID); delErr != nil {
			s.log.Error("compensating order delete failed",
				zap.String("orderId", o.ID), zap.Error(delErr))
		}
		return "", &DownstreamError{Step: StepLines, Err: err}
	}

	s.log.Info("order placed",
		zap.String("orderId", o.ID),
		zap.Int("lines", len(lines)),
		zap.String("total", o.Total.String()),
		zap.Bool("guest", customerID == nil),
	)

	if s.pub != nil {
		if err := s.pub.PublishOrderPlaced(ctx, o, lines); err != nil {
			s.log.Warn("publish OrderPlaced failed", zap.String("orderId", o.ID), zap.Error(err))
		}
	}
	return o.ID, nil
}

// resolveCustomer returns nil for guest checkouts without an email.
func (s *Submitter) resolveCustomer(ctx context.Context, info CustomerInfo) (*string, error) {
	email := strings.TrimSpace(info.Email)
	if email == "" {
		return nil, nil
	}

	c, err := s.store.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.Name = strings.TrimSpace(info.Name)
		c.Phone = strings.TrimSpace(info.Phone)
		c.Address = strings.TrimSpace(info.Address)
		if err := s.store.UpdateCustomer(ctx, c); err != nil {
			return nil, err
		}
		return &c.ID, nil
	}

	c = &order.Customer{
		Email:   email,
		Name:    strings.TrimSpace(info.Name),
		Phone:   strings.TrimSpace(info.Phone),
		Address: strings.TrimSpace(info.Address),
	}
	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return &c.ID, nil
}
