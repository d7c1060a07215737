package domain

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// defaultPrepMinutes is assumed for orders whose items carry no preparation
// time.
const defaultPrepMinutes = 15

// Kitchen schedules paid orders through preparation with a fixed capacity of
// concurrently prepared orders. Orders move queue → in-progress → ready; each
// order lives in at most one of the three sets.
type Kitchen struct {
	mu         sync.Mutex
	queue      []*Order
	inProgress map[uuid.UUID]*Order
	ready      map[uuid.UUID]*Order
	capacity   int
}

// NewKitchen creates a kitchen that prepares at most capacity orders at once.
func NewKitchen(capacity int) (*Kitchen, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("kitchen capacity %d: %w", capacity, ErrInvalidState)
	}
	return &Kitchen{
		inProgress: make(map[uuid.UUID]*Order),
		ready:      make(map[uuid.UUID]*Order),
		capacity:   capacity,
	}, nil
}

// Enqueue appends a paid order to the back of the queue.
func (k *Kitchen) Enqueue(o *Order) error {
	return k.enqueue(o, false)
}

// EnqueuePriority inserts a paid order at the front of the queue.
func (k *Kitchen) EnqueuePriority(o *Order) error {
	return k.enqueue(o, true)
}

func (k *Kitchen) enqueue(o *Order, front bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if st := o.Status(); st != StatusPendingPayment {
		return fmt.Errorf("enqueue order %s in status %q: %w", o.ID(), st, ErrInvalidState)
	}
	if err := o.ChangeStatus(StatusWaiting); err != nil {
		return fmt.Errorf("order %s: %w", o.ID(), err)
	}
	if front {
		k.queue = append([]*Order{o}, k.queue...)
	} else {
		k.queue = append(k.queue, o)
	}
	return nil
}

// StartNext pops the head of the queue and begins preparing it.
func (k *Kitchen) StartNext() (*Order, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.inProgress) >= k.capacity {
		return nil, fmt.Errorf("%d orders in preparation: %w", len(k.inProgress), ErrCapacityExceeded)
	}
	if len(k.queue) == 0 {
		return nil, ErrEmptyQueue
	}
	o := k.queue[0]
	k.queue = k.queue[1:]
	if err := o.AdvanceStatus(); err != nil {
		// An order canceled while queued surfaces here. It stays popped;
		// the caller retries and gets the next live order.
		return nil, fmt.Errorf("order %s: %w", o.ID(), err)
	}
	k.inProgress[o.ID()] = o
	return o, nil
}

// Complete marks an in-progress order as ready for handoff. Completing an
// order that is not in preparation is an error, including a second Complete.
// The capacity slot is freed before the status moves, so an order canceled
// mid-preparation cannot pin a slot forever.
func (k *Kitchen) Complete(o *Order) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	id := o.ID()
	if _, ok := k.inProgress[id]; !ok {
		return fmt.Errorf("order %s is not in preparation: %w", id, ErrNotFound)
	}
	delete(k.inProgress, id)
	if err := o.AdvanceStatus(); err != nil {
		return fmt.Errorf("order %s: %w", id, err)
	}
	k.ready[id] = o
	return nil
}

// Deliver hands a ready order to delivery and releases it from the kitchen.
// As with Complete, the order leaves the ready set even when the advance
// fails on a canceled order.
func (k *Kitchen) Deliver(o *Order) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	id := o.ID()
	if _, ok := k.ready[id]; !ok {
		return fmt.Errorf("order %s is not ready: %w", id, ErrNotFound)
	}
	delete(k.ready, id)
	if err := o.AdvanceStatus(); err != nil {
		return fmt.Errorf("order %s: %w", id, err)
	}
	return nil
}

// QueueSize returns the number of queued orders.
func (k *Kitchen) QueueSize() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.queue)
}

// InProgressCount returns the number of orders being prepared.
func (k *Kitchen) InProgressCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.inProgress)
}

// ReadyCount returns the number of orders awaiting handoff.
func (k *Kitchen) ReadyCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.ready)
}

// Capacity returns the configured concurrency limit.
func (k *Kitchen) Capacity() int { return k.capacity }

// AvailableCapacity returns how many more orders could start right now.
func (k *Kitchen) AvailableCapacity() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.capacity - len(k.inProgress)
}

// AtCapacity reports whether no further order can start.
func (k *Kitchen) AtCapacity() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.inProgress) >= k.capacity
}

// KitchenSnapshot is a point-in-time view of the kitchen's load.
type KitchenSnapshot struct {
	QueueSize  int  `json:"queue_size"`
	InProgress int  `json:"in_progress"`
	Ready      int  `json:"ready"`
	Capacity   int  `json:"capacity"`
	Available  int  `json:"available"`
	AtCapacity bool `json:"at_capacity"`
}

// Snapshot returns a consistent view of all three sets.
func (k *Kitchen) Snapshot() KitchenSnapshot {
	k.mu.Lock()
	defer k.mu.Unlock()
	return KitchenSnapshot{
		QueueSize:  len(k.queue),
		InProgress: len(k.inProgress),
		Ready:      len(k.ready),
		Capacity:   k.capacity,
		Available:  k.capacity - len(k.inProgress),
		AtCapacity: len(k.inProgress) >= k.capacity,
	}
}

// EstimatedWaitTime estimates, in minutes, how long a newly queued order
// would wait: the queued orders' preparation times spread over the kitchen's
// capacity.
func (k *Kitchen) EstimatedWaitTime() int {
	k.mu.Lock()
	queued := append([]*Order(nil), k.queue...)
	capacity := k.capacity
	k.mu.Unlock()

	total := 0
	for _, o := range queued {
		prep := o.EstimatedPrepTime()
		if prep <= 0 {
			prep = defaultPrepMinutes
		}
		total += prep
	}
	return total / capacity
}
