package order

import "errors"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusOnTheWay  Status = "on_the_way"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid status transition")

var labels = map[Status]string{
	StatusPending:   "Pending",
	StatusConfirmed: "Confirmed",
	StatusPreparing: "Preparing",
	StatusReady:     "Ready",
	StatusOnTheWay:  "On the Way",
	StatusDelivered: "Delivered",
	StatusCancelled: "Cancelled",
}

func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label is the customer-facing name of the status.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order in s may move to next.
func (s Status) CanTransition(next Status) bool {
	return next.Valid() && !s.Terminal() && s != next
}
