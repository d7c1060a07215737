package domain

import "errors"

// Sentinel errors for the core engine. Callers classify failures with
// errors.Is; messages carry the context via fmt.Errorf wrapping at the
// failure site.
var (
	// ErrInvalidTransition is returned when a status change would move an
	// order backwards without being a cancellation.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTerminalState is returned when an order in a terminal status
	// (canceled or delivered) is asked to move again.
	ErrTerminalState = errors.New("order is in a terminal state")

	// ErrCapacityExceeded is returned when the kitchen has no free capacity
	// to start another order.
	ErrCapacityExceeded = errors.New("kitchen at full capacity")

	// ErrEmptyQueue is returned when the kitchen queue has no order to start.
	ErrEmptyQueue = errors.New("no orders in queue")

	// ErrNotFound is returned when a referenced entity is absent from the
	// collection that was expected to hold it.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds is returned when a customer's balance cannot
	// cover a debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidState is returned when an entity is not in the status or
	// shape an operation requires.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidAmount is returned for non-positive monetary amounts and
	// out-of-range discounts.
	ErrInvalidAmount = errors.New("invalid amount")
)
