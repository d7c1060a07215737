package domain

import (
	"errors"
	"testing"
)

func newTestRestaurant(t *testing.T) *Restaurant {
	t.Helper()
	r, err := NewRestaurant("Trattoria", 100, 2)
	if err != nil {
		t.Fatalf("NewRestaurant: %v", err)
	}
	return r
}

func TestRestaurantMenuManagement(t *testing.T) {
	r := newTestRestaurant(t)
	pizza := mustProduct(t, "Margherita", 12.50)

	if err := r.AddToMenu(pizza); err != nil {
		t.Fatalf("AddToMenu: %v", err)
	}
	if err := r.AddToMenu(pizza); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("duplicate AddToMenu = %v, want ErrInvalidState", err)
	}
	if got := r.MenuSize(); got != 1 {
		t.Fatalf("MenuSize = %d, want 1", got)
	}

	if _, err := r.MenuItemByName("MARGHERITA"); err != nil {
		t.Fatalf("case-insensitive name lookup: %v", err)
	}
	if _, err := r.MenuItemByID(pizza.ID()); err != nil {
		t.Fatalf("ID lookup: %v", err)
	}
	if _, err := r.MenuItemByName("Calzone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup of absent item = %v, want ErrNotFound", err)
	}

	if err := r.RemoveFromMenu(pizza); err != nil {
		t.Fatalf("RemoveFromMenu: %v", err)
	}
	if err := r.RemoveFromMenu(pizza); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second RemoveFromMenu = %v, want ErrNotFound", err)
	}
}

func TestRestaurantCustomerLookup(t *testing.T) {
	r := newTestRestaurant(t)
	alice, _ := NewCustomer("Alice", 50)
	r.RegisterCustomer(alice)

	if got := r.CustomerCount(); got != 1 {
		t.Fatalf("CustomerCount = %d, want 1", got)
	}
	if _, err := r.CustomerByID(alice.ID()); err != nil {
		t.Fatalf("CustomerByID: %v", err)
	}
	if _, err := r.CustomerByName("alice"); err != nil {
		t.Fatalf("case-insensitive CustomerByName: %v", err)
	}
	if _, err := r.CustomerByName("Mallory"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("absent customer = %v, want ErrNotFound", err)
	}
}

func TestRestaurantCheckoutAndSubmit(t *testing.T) {
	r := newTestRestaurant(t)
	alice, _ := NewCustomer("Alice", 50)
	r.RegisterCustomer(alice)
	if err := alice.Cart().AddItem(mustProduct(t, "Margherita", 12.50)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	order, amount, err := r.Checkout(alice.ID())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if amount != 12.50 {
		t.Fatalf("amount = %.2f, want 12.50", amount)
	}
	// The detached order stays reachable through the registry.
	got, err := r.OrderByID(order.ID())
	if err != nil || got != order {
		t.Fatalf("OrderByID = %v, %v", got, err)
	}
	if got := r.Cashier().TotalRevenue(); got != 112.50 {
		t.Fatalf("revenue = %.2f, want 112.50", got)
	}

	if err := r.SubmitOrder(order.ID(), false); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if got := order.Status(); got != StatusWaiting {
		t.Fatalf("submitted order status = %q, want waiting", got)
	}
	if got := r.Kitchen().QueueSize(); got != 1 {
		t.Fatalf("QueueSize = %d, want 1", got)
	}
}

func TestRestaurantCheckoutUnknownCustomer(t *testing.T) {
	r := newTestRestaurant(t)
	ghost, _ := NewCustomer("Ghost", 10)
	if _, _, err := r.Checkout(ghost.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Checkout of unregistered customer = %v, want ErrNotFound", err)
	}
	if err := r.SubmitOrder(ghost.Cart().ID(), false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SubmitOrder of unknown order = %v, want ErrNotFound", err)
	}
}
