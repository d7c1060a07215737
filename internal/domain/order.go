package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MenuItem is anything that can be put on a menu and into an order.
// Products and combos both satisfy it.
type MenuItem interface {
	ID() uuid.UUID
	Name() string
	Price() float64
}

// Optional capabilities a menu item may expose. Aggregations probe for these
// instead of requiring every item to carry kitchen metadata.
type prepTimer interface {
	TimeToPrepare() int
}

type calorieCounter interface {
	Calories() int
}

// LineItem is one entry in an order: the item plus the unit price captured at
// the moment it was added. Later price changes on the product never reprice
// an existing order.
type LineItem struct {
	Item      MenuItem
	UnitPrice float64
}

// Order is a customer's order moving through the status lifecycle.
type Order struct {
	mu      sync.Mutex
	id      uuid.UUID
	created time.Time
	items   []LineItem
	total   float64
	status  OrderStatus
}

// NewOrder returns an empty order in the ordering status.
func NewOrder() *Order {
	return &Order{
		id:      uuid.New(),
		created: time.Now(),
		status:  StatusOrdering,
	}
}

// ID returns the order's identifier.
func (o *Order) ID() uuid.UUID { return o.id }

// CreatedAt returns the order's creation time.
func (o *Order) CreatedAt() time.Time { return o.created }

// Status returns the current lifecycle status.
func (o *Order) Status() OrderStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Total returns the running total of the order.
func (o *Order) Total() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.total
}

// ItemCount returns the number of line items.
func (o *Order) ItemCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]LineItem, len(o.items))
	copy(out, o.items)
	return out
}

// AddItem appends a menu item to the order, capturing its current price.
// Items may only be added while the order is still being composed.
func (o *Order) AddItem(item MenuItem) error {
	price := item.Price()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != StatusOrdering {
		return fmt.Errorf("add item to order in status %q: %w", o.status, ErrInvalidState)
	}
	o.items = append(o.items, LineItem{Item: item, UnitPrice: price})
	o.total += price
	return nil
}

// RemoveItem removes the first line item matching the given item's ID and
// subtracts the price that was captured when it was added.
func (o *Order) RemoveItem(item MenuItem) error {
	id := item.ID()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != StatusOrdering {
		return fmt.Errorf("remove item from order in status %q: %w", o.status, ErrInvalidState)
	}
	for i, li := range o.items {
		if li.Item.ID() == id {
			o.total -= li.UnitPrice
			o.items = append(o.items[:i], o.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %q not in order: %w", item.Name(), ErrNotFound)
}

// ChangeStatus moves the order to the given status. Terminal orders refuse
// any change; moving backwards is only allowed to canceled; an empty order
// cannot enter pending_payment.
func (o *Order) ChangeStatus(next OrderStatus) error {
	if !next.Valid() {
		return fmt.Errorf("change status to %q: %w", next, ErrInvalidTransition)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.changeStatusLocked(next)
}

// AdvanceStatus moves the order one step forward along the normal flow.
func (o *Order) AdvanceStatus() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.Terminal() {
		return fmt.Errorf("advance order from %q: %w", o.status, ErrTerminalState)
	}
	next, ok := o.status.next()
	if !ok {
		return fmt.Errorf("order status %q has no successor: %w", o.status, ErrInvalidTransition)
	}
	return o.changeStatusLocked(next)
}

func (o *Order) changeStatusLocked(next OrderStatus) error {
	if o.status.Terminal() {
		return fmt.Errorf("order is %q: %w", o.status, ErrTerminalState)
	}
	if next != StatusCanceled && statusRank[next] < statusRank[o.status] {
		return fmt.Errorf("cannot move order from %q back to %q: %w", o.status, next, ErrInvalidTransition)
	}
	if next == StatusPendingPayment && len(o.items) == 0 {
		return fmt.Errorf("empty order cannot await payment: %w", ErrInvalidState)
	}
	o.status = next
	return nil
}

// CanBeCanceled reports whether the order is still before the point where
// cancellation becomes an operational problem.
func (o *Order) CanBeCanceled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status.Cancelable()
}

// EstimatedPrepTime sums preparation minutes over items that report one.
func (o *Order) EstimatedPrepTime() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := 0
	for _, li := range o.items {
		if pt, ok := li.Item.(prepTimer); ok {
			total += pt.TimeToPrepare()
		}
	}
	return total
}

// TotalCalories sums calories over items that report them.
func (o *Order) TotalCalories() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := 0
	for _, li := range o.items {
		if cc, ok := li.Item.(calorieCounter); ok {
			total += cc.Calories()
		}
	}
	return total
}
