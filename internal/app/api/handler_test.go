package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-platform/internal/domain"
	"restaurant-platform/internal/logger"
)

func newTestServer(t *testing.T, kitchenCapacity int) *httptest.Server {
	t.Helper()
	rest, err := domain.NewRestaurant("Trattoria", 0, kitchenCapacity)
	if err != nil {
		t.Fatalf("NewRestaurant: %v", err)
	}
	log := logger.New("api-test")
	service := NewService(rest, nil, nil, log)
	srv := httptest.NewServer(NewHandler(service, log).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, wantStatus int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		var raw json.RawMessage
		_ = json.NewDecoder(resp.Body).Decode(&raw)
		t.Fatalf("%s %s = %d, want %d (body: %s)", method, url, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t, 1)

	var pizza MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name:  "Margherita",
		Price: 12.50,
		Food:  &FoodDetailsRequest{Calories: 900, TimeToPrepare: 15},
	}, http.StatusCreated, &pizza)

	var alice CustomerView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
		Name: "Alice", Balance: 20,
	}, http.StatusCreated, &alice)

	var cart OrderView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+alice.ID+"/cart/items",
		CartItemRequest{ItemID: pizza.ID}, http.StatusOK, &cart)
	if cart.Total != 12.50 {
		t.Fatalf("cart total = %.2f, want 12.50", cart.Total)
	}

	var checkout CheckoutResponse
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+alice.ID+"/checkout",
		nil, http.StatusOK, &checkout)
	if checkout.Amount != 12.50 {
		t.Fatalf("amount charged = %.2f, want 12.50", checkout.Amount)
	}
	if checkout.Order.Status != "pending_payment" {
		t.Fatalf("paid order status = %q, want pending_payment", checkout.Order.Status)
	}

	orderID := checkout.Order.ID
	var submitted OrderView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/queue",
		SubmitOrderRequest{OrderID: orderID}, http.StatusAccepted, &submitted)
	if submitted.Status != "waiting" {
		t.Fatalf("submitted status = %q, want waiting", submitted.Status)
	}

	var started OrderView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/start", nil, http.StatusOK, &started)
	if started.ID != orderID || started.Status != "preparing" {
		t.Fatalf("started = %+v", started)
	}

	var completed OrderView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/orders/"+orderID+"/complete",
		nil, http.StatusOK, &completed)
	if completed.Status != "ready" {
		t.Fatalf("completed status = %q, want ready", completed.Status)
	}

	var delivered OrderView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/orders/"+orderID+"/deliver",
		nil, http.StatusOK, &delivered)
	if delivered.Status != "being_delivered" {
		t.Fatalf("delivered status = %q, want being_delivered", delivered.Status)
	}

	var final OrderView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders/"+orderID+"/advance",
		nil, http.StatusOK, &final)
	if final.Status != "delivered" {
		t.Fatalf("final status = %q, want delivered", final.Status)
	}

	// Terminal order refuses further changes.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders/"+orderID+"/cancel",
		nil, http.StatusConflict, nil)
}

func TestCheckoutWithInsufficientFunds(t *testing.T) {
	srv := newTestServer(t, 1)

	var pizza MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Margherita", Price: 12.50,
	}, http.StatusCreated, &pizza)

	var bob CustomerView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
		Name: "Bob", Balance: 5,
	}, http.StatusCreated, &bob)

	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+bob.ID+"/cart/items",
		CartItemRequest{ItemID: pizza.ID}, http.StatusOK, nil)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+bob.ID+"/checkout",
		nil, http.StatusConflict, nil)

	// Balance is untouched and the cart survives.
	var after CustomerView
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers/"+bob.ID, nil, http.StatusOK, &after)
	if after.Balance != 5 {
		t.Fatalf("balance = %.2f, want 5.00", after.Balance)
	}
	if len(after.Cart.Items) != 1 {
		t.Fatalf("cart items = %d, want 1", len(after.Cart.Items))
	}
}

func TestKitchenCapacityOverHTTP(t *testing.T) {
	srv := newTestServer(t, 1)

	var pizza MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Margherita", Price: 10,
	}, http.StatusCreated, &pizza)

	submit := func(name string) string {
		var c CustomerView
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
			Name: name, Balance: 50,
		}, http.StatusCreated, &c)
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+c.ID+"/cart/items",
			CartItemRequest{ItemID: pizza.ID}, http.StatusOK, nil)
		var co CheckoutResponse
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+c.ID+"/checkout",
			nil, http.StatusOK, &co)
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/queue",
			SubmitOrderRequest{OrderID: co.Order.ID}, http.StatusAccepted, nil)
		return co.Order.ID
	}
	submit("Alice")
	submit("Bob")

	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/start", nil, http.StatusOK, nil)
	// Capacity 1: the second start is refused.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/start", nil, http.StatusConflict, nil)

	var status KitchenStatusView
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/kitchen/status", nil, http.StatusOK, &status)
	if !status.AtCapacity || status.QueueSize != 1 || status.InProgress != 1 {
		t.Fatalf("kitchen status = %+v", status)
	}
}

func TestDietaryRestrictionBlocksCartItem(t *testing.T) {
	srv := newTestServer(t, 1)

	var burger, soup MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Burger", Price: 9,
		Food: &FoodDetailsRequest{Calories: 800, Restrictions: []string{"vegan"}},
	}, http.StatusCreated, &burger)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Soup", Price: 5,
		Food: &FoodDetailsRequest{Calories: 200},
	}, http.StatusCreated, &soup)

	var vegan CustomerView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
		Name: "Vera", Balance: 50, Restrictions: []string{"vegan"},
	}, http.StatusCreated, &vegan)

	// A burger violates vegan; untagged soup is fine.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+vegan.ID+"/cart/items",
		CartItemRequest{ItemID: burger.ID}, http.StatusConflict, nil)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+vegan.ID+"/cart/items",
		CartItemRequest{ItemID: soup.ID}, http.StatusOK, nil)
}

func TestValidationAndLookupFailures(t *testing.T) {
	srv := newTestServer(t, 1)

	// Missing name fails validation.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
		Balance: 10,
	}, http.StatusBadRequest, nil)

	// Unknown IDs map to 404.
	ghost := "00000000-0000-0000-0000-000000000001"
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers/"+ghost, nil, http.StatusNotFound, nil)
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders/"+ghost, nil, http.StatusNotFound, nil)

	// Malformed path IDs map to 400.
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers/not-a-uuid", nil, http.StatusBadRequest, nil)

	// Starting with an empty queue is a conflict.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/start", nil, http.StatusConflict, nil)

	// Negative funds fail validation before reaching the domain.
	var alice CustomerView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
		Name: "Alice", Balance: 10,
	}, http.StatusCreated, &alice)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+alice.ID+"/funds",
		map[string]any{"amount": -3}, http.StatusBadRequest, nil)
}

func TestComboOverHTTP(t *testing.T) {
	srv := newTestServer(t, 1)

	var burger, fries MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Burger", Price: 9,
		Food: &FoodDetailsRequest{Calories: 800, TimeToPrepare: 12},
	}, http.StatusCreated, &burger)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Fries", Price: 4,
		Food: &FoodDetailsRequest{Calories: 400, TimeToPrepare: 6},
	}, http.StatusCreated, &fries)

	var combo MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/combos", CreateComboRequest{
		Name: "Lunch deal", ItemIDs: []string{burger.ID, fries.ID},
	}, http.StatusCreated, &combo)
	if combo.Price != 13 || combo.Kind != "combo" {
		t.Fatalf("combo = %+v", combo)
	}
	if combo.PrepTime != 18 || combo.Calories != 1200 {
		t.Fatalf("combo aggregation = %+v", combo)
	}

	var menu []MenuItemView
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/menu", nil, http.StatusOK, &menu)
	if len(menu) != 3 {
		t.Fatalf("menu size = %d, want 3", len(menu))
	}
}

func TestAdvanceOnlyFromDelivery(t *testing.T) {
	srv := newTestServer(t, 1)

	var pizza MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Margherita", Price: 10,
	}, http.StatusCreated, &pizza)

	var alice CustomerView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
		Name: "Alice", Balance: 50,
	}, http.StatusCreated, &alice)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+alice.ID+"/cart/items",
		CartItemRequest{ItemID: pizza.ID}, http.StatusOK, nil)
	var co CheckoutResponse
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+alice.ID+"/checkout",
		nil, http.StatusOK, &co)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/queue",
		SubmitOrderRequest{OrderID: co.Order.ID}, http.StatusAccepted, nil)

	// A queued order belongs to the kitchen; the delivery endpoint refuses
	// it and its status is untouched.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders/"+co.Order.ID+"/advance",
		nil, http.StatusConflict, nil)
	var view OrderView
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders/"+co.Order.ID, nil, http.StatusOK, &view)
	if view.Status != "waiting" {
		t.Fatalf("status after refused advance = %q, want waiting", view.Status)
	}
}

func TestCancelFromPreparing(t *testing.T) {
	srv := newTestServer(t, 1)

	var pizza MenuItemView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/menu/products", CreateProductRequest{
		Name: "Margherita", Price: 10,
	}, http.StatusCreated, &pizza)

	var alice CustomerView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", RegisterCustomerRequest{
		Name: "Alice", Balance: 50,
	}, http.StatusCreated, &alice)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+alice.ID+"/cart/items",
		CartItemRequest{ItemID: pizza.ID}, http.StatusOK, nil)
	var co CheckoutResponse
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers/"+alice.ID+"/checkout",
		nil, http.StatusOK, &co)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/queue",
		SubmitOrderRequest{OrderID: co.Order.ID}, http.StatusAccepted, nil)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/start", nil, http.StatusOK, nil)

	var canceled OrderView
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders/"+co.Order.ID+"/cancel",
		nil, http.StatusOK, &canceled)
	if canceled.Status != "canceled" {
		t.Fatalf("status = %q, want canceled", canceled.Status)
	}

	// The kitchen cannot complete a canceled order, but completing it
	// releases the capacity slot.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/kitchen/orders/"+co.Order.ID+"/complete",
		nil, http.StatusConflict, nil)
	var status KitchenStatusView
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/kitchen/status", nil, http.StatusOK, &status)
	if status.InProgress != 0 || status.AtCapacity {
		t.Fatalf("kitchen did not release the canceled order's slot: %+v", status)
	}

	doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders/"+co.Order.ID+"/advance",
		nil, http.StatusConflict, nil)
}
