package domain

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Customer holds a balance, an active cart, and dietary restrictions. Every
// customer gets a fresh cart at construction; carts are never shared.
type Customer struct {
	mu           sync.Mutex
	id           uuid.UUID
	name         string
	address      string
	balance      float64
	cart         *Order
	restrictions map[DietaryRestriction]struct{}
}

// NewCustomer registers a customer with a starting balance.
func NewCustomer(name string, balance float64) (*Customer, error) {
	if name == "" {
		return nil, fmt.Errorf("customer name is empty: %w", ErrInvalidState)
	}
	if balance < 0 {
		return nil, fmt.Errorf("starting balance %.2f: %w", balance, ErrInvalidAmount)
	}
	return &Customer{
		id:           uuid.New(),
		name:         name,
		balance:      balance,
		cart:         NewOrder(),
		restrictions: make(map[DietaryRestriction]struct{}),
	}, nil
}

// ID returns the customer's identifier.
func (c *Customer) ID() uuid.UUID { return c.id }

// Name returns the customer's name.
func (c *Customer) Name() string { return c.name }

// Address returns the delivery address.
func (c *Customer) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

// SetAddress replaces the delivery address.
func (c *Customer) SetAddress(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.address = addr
}

// Balance returns the current balance.
func (c *Customer) Balance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// Cart returns the customer's active cart.
func (c *Customer) Cart() *Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

// AddFunds credits the balance. The amount must be positive.
func (c *Customer) AddFunds(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("add funds %.2f: %w", amount, ErrInvalidAmount)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance += amount
	return nil
}

// RemoveFunds debits the balance. The amount must be positive and covered.
func (c *Customer) RemoveFunds(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("remove funds %.2f: %w", amount, ErrInvalidAmount)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if amount > c.balance {
		return fmt.Errorf("remove %.2f from balance %.2f: %w", amount, c.balance, ErrInsufficientFunds)
	}
	c.balance -= amount
	return nil
}

// AddRestriction records a dietary restriction. Duplicates are rejected.
func (c *Customer) AddRestriction(r DietaryRestriction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.restrictions[r]; ok {
		return fmt.Errorf("restriction %q already set: %w", r, ErrInvalidState)
	}
	c.restrictions[r] = struct{}{}
	return nil
}

// RemoveRestriction drops a recorded restriction.
func (c *Customer) RemoveRestriction(r DietaryRestriction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.restrictions[r]; !ok {
		return fmt.Errorf("restriction %q not set: %w", r, ErrNotFound)
	}
	delete(c.restrictions, r)
	return nil
}

// ClearRestrictions drops all recorded restrictions.
func (c *Customer) ClearRestrictions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restrictions = make(map[DietaryRestriction]struct{})
}

// Restrictions returns the customer's restrictions in sorted order.
func (c *Customer) Restrictions() []DietaryRestriction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]DietaryRestriction, 0, len(c.restrictions))
	for r := range c.restrictions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanConsume reports whether the customer can eat the item: false when the
// item is tagged with any restriction the customer observes. Untagged items
// (non-food, plain products) are always permitted.
func (c *Customer) CanConsume(item MenuItem) bool {
	type restricted interface {
		Restrictions() []DietaryRestriction
	}
	rr, ok := item.(restricted)
	if !ok {
		return true
	}
	violated := rr.Restrictions()

	c.mu.Lock()
	defer c.mu.Unlock()
	for observed := range c.restrictions {
		if containsRestriction(violated, observed) {
			return false
		}
	}
	return true
}

// checkout settles the active cart in one critical section: verify the cart
// is still being composed, verify funds, advance it to pending_payment, debit
// the balance, and swap in a fresh cart. Returns the detached order and the
// amount charged. On any error nothing changes.
func (c *Customer) checkout() (*Order, float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cart := c.cart
	if cart.Status() != StatusOrdering {
		return nil, 0, fmt.Errorf("cart in status %q: %w", cart.Status(), ErrInvalidState)
	}
	amount := cart.Total()
	if amount > c.balance {
		return nil, 0, fmt.Errorf("order total %.2f exceeds balance %.2f: %w", amount, c.balance, ErrInsufficientFunds)
	}
	// Fails on an empty cart, before any money moves.
	if err := cart.AdvanceStatus(); err != nil {
		return nil, 0, fmt.Errorf("cart %s: %w", cart.ID(), err)
	}
	c.balance -= amount
	c.cart = NewOrder()
	return cart, amount, nil
}
