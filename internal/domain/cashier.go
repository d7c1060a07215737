package domain

import (
	"fmt"
	"sync"
)

// Cashier settles customer payments and accumulates revenue.
type Cashier struct {
	mu      sync.Mutex
	revenue float64
}

// NewCashier creates a cashier with an optional opening float.
func NewCashier(initialCash float64) (*Cashier, error) {
	if initialCash < 0 {
		return nil, fmt.Errorf("opening cash %.2f: %w", initialCash, ErrInvalidAmount)
	}
	return &Cashier{revenue: initialCash}, nil
}

// TotalRevenue returns the accumulated revenue.
func (ca *Cashier) TotalRevenue() float64 {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return ca.revenue
}

// ProcessPayment settles the customer's active cart. On success the paid
// order is detached from the customer and returned to the caller; losing the
// return value loses the order.
func (ca *Cashier) ProcessPayment(c *Customer) (*Order, float64, error) {
	order, amount, err := c.checkout()
	if err != nil {
		return nil, 0, err
	}
	ca.mu.Lock()
	ca.revenue += amount
	ca.mu.Unlock()
	return order, amount, nil
}
