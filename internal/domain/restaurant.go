package domain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Restaurant ties the menu, the customers, the cashier, and the kitchen
// together and keeps a registry of paid orders so they stay reachable after
// checkout detaches them from their customers.
type Restaurant struct {
	mu        sync.Mutex
	name      string
	menu      []MenuItem
	customers []*Customer
	orders    map[uuid.UUID]*Order
	cashier   *Cashier
	kitchen   *Kitchen
}

// NewRestaurant creates a restaurant with an opening cash float and a kitchen
// of the given capacity.
func NewRestaurant(name string, initialCash float64, kitchenCapacity int) (*Restaurant, error) {
	if name == "" {
		return nil, fmt.Errorf("restaurant name is empty: %w", ErrInvalidState)
	}
	cashier, err := NewCashier(initialCash)
	if err != nil {
		return nil, err
	}
	kitchen, err := NewKitchen(kitchenCapacity)
	if err != nil {
		return nil, err
	}
	return &Restaurant{
		name:    name,
		orders:  make(map[uuid.UUID]*Order),
		cashier: cashier,
		kitchen: kitchen,
	}, nil
}

// Name returns the restaurant's name.
func (r *Restaurant) Name() string { return r.name }

// Cashier returns the restaurant's cashier.
func (r *Restaurant) Cashier() *Cashier { return r.cashier }

// Kitchen returns the restaurant's kitchen.
func (r *Restaurant) Kitchen() *Kitchen { return r.kitchen }

// AddToMenu lists a menu item. Listing the same item twice is an error.
func (r *Restaurant) AddToMenu(item MenuItem) error {
	id := item.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.menu {
		if existing.ID() == id {
			return fmt.Errorf("item %q already on the menu: %w", item.Name(), ErrInvalidState)
		}
	}
	r.menu = append(r.menu, item)
	return nil
}

// RemoveFromMenu delists a menu item.
func (r *Restaurant) RemoveFromMenu(item MenuItem) error {
	id := item.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.menu {
		if existing.ID() == id {
			r.menu = append(r.menu[:i], r.menu[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %q not on the menu: %w", item.Name(), ErrNotFound)
}

// Menu returns a copy of the menu.
func (r *Restaurant) Menu() []MenuItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MenuItem(nil), r.menu...)
}

// MenuSize returns the number of listed items.
func (r *Restaurant) MenuSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.menu)
}

// MenuItemByID looks a menu item up by identifier.
func (r *Restaurant) MenuItemByID(id uuid.UUID) (MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.menu {
		if item.ID() == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
}

// MenuItemByName looks a menu item up by name, case-insensitively.
func (r *Restaurant) MenuItemByName(name string) (MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.menu {
		if strings.EqualFold(item.Name(), name) {
			return item, nil
		}
	}
	return nil, fmt.Errorf("menu item %q: %w", name, ErrNotFound)
}

// RegisterCustomer adds a customer to the restaurant.
func (r *Restaurant) RegisterCustomer(c *Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = append(r.customers, c)
}

// CustomerByID looks a registered customer up by identifier.
func (r *Restaurant) CustomerByID(id uuid.UUID) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
}

// CustomerByName looks a registered customer up by name, case-insensitively.
func (r *Restaurant) CustomerByName(name string) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("customer %q: %w", name, ErrNotFound)
}

// CustomerCount returns the number of registered customers.
func (r *Restaurant) CustomerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.customers)
}

// Checkout settles the customer's cart through the cashier and registers the
// paid order so it stays reachable by ID.
func (r *Restaurant) Checkout(customerID uuid.UUID) (*Order, float64, error) {
	c, err := r.CustomerByID(customerID)
	if err != nil {
		return nil, 0, err
	}
	order, amount, err := r.cashier.ProcessPayment(c)
	if err != nil {
		return nil, 0, err
	}
	r.mu.Lock()
	r.orders[order.ID()] = order
	r.mu.Unlock()
	return order, amount, nil
}

// OrderByID looks a paid order up by identifier.
func (r *Restaurant) OrderByID(id uuid.UUID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o, nil
}

// SubmitOrder sends a paid order to the kitchen, optionally jumping the
// queue.
func (r *Restaurant) SubmitOrder(orderID uuid.UUID, priority bool) error {
	o, err := r.OrderByID(orderID)
	if err != nil {
		return err
	}
	if priority {
		return r.kitchen.EnqueuePriority(o)
	}
	return r.kitchen.Enqueue(o)
}
