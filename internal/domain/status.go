package domain

import "fmt"

// OrderStatus is the lifecycle stage of an order.
type OrderStatus string

const (
	StatusCanceled       OrderStatus = "canceled"
	StatusOrdering       OrderStatus = "ordering"
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusWaiting        OrderStatus = "waiting"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusBeingDelivered OrderStatus = "being_delivered"
	StatusDelivered      OrderStatus = "delivered"
)

// statusRank fixes the forward order of the normal flow. Canceled ranks below
// everything so that "no going backwards, except to cancel" reduces to one
// rank comparison plus one special case.
var statusRank = map[OrderStatus]int{
	StatusCanceled:       -1,
	StatusOrdering:       0,
	StatusPendingPayment: 1,
	StatusWaiting:        2,
	StatusPreparing:      3,
	StatusReady:          4,
	StatusBeingDelivered: 5,
	StatusDelivered:      6,
}

// statusNext is the single-step transition table. Terminal statuses have no
// entry. Kept as an explicit table so inserting a status never silently
// changes the flow.
var statusNext = map[OrderStatus]OrderStatus{
	StatusOrdering:       StatusPendingPayment,
	StatusPendingPayment: StatusWaiting,
	StatusWaiting:        StatusPreparing,
	StatusPreparing:      StatusReady,
	StatusReady:          StatusBeingDelivered,
	StatusBeingDelivered: StatusDelivered,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCanceled || s == StatusDelivered
}

// Cancelable reports whether an order in this status may still be canceled
// without operational fallout. Cancellation itself is permitted from any
// non-terminal status; this is the advisory cutoff used by front-of-house:
// once the food is ready, canceling is a dispute, not a button.
func (s OrderStatus) Cancelable() bool {
	return !s.Terminal() && statusRank[s] < statusRank[StatusReady]
}

// next returns the successor status, if any.
func (s OrderStatus) next() (OrderStatus, bool) {
	n, ok := statusNext[s]
	return n, ok
}

// ParseStatus converts a wire/database string into an OrderStatus.
func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}
