package api

import (
	"context"
	"fmt"
	"time"

	"restaurant-platform/internal/domain"
	"restaurant-platform/internal/history"
	"restaurant-platform/internal/logger"

	"github.com/google/uuid"
)

// HistoryStore is the audit-trail dependency. Nil disables recording.
type HistoryStore interface {
	Append(ctx context.Context, e history.Entry) error
	Timeline(ctx context.Context, orderID uuid.UUID, limit, offset int) ([]history.Entry, error)
}

// EventPublisher is the notification dependency. Nil disables publishing.
type EventPublisher interface {
	PublishStatusChange(ctx context.Context, orderID uuid.UUID, oldStatus, newStatus, changedBy string) error
}

// Service wires the restaurant core to the audit trail and the event
// publisher. All status changes go through it so the side channels see every
// transition.
type Service struct {
	rest    *domain.Restaurant
	history HistoryStore
	events  EventPublisher
	log     *logger.Logger
}

func NewService(rest *domain.Restaurant, hs HistoryStore, events EventPublisher, log *logger.Logger) *Service {
	return &Service{rest: rest, history: hs, events: events, log: log}
}

// recordChange appends to the audit trail and publishes the event. Both are
// best effort: the status change already happened in the core and must not
// be rolled back because a side channel is down.
func (s *Service) recordChange(ctx context.Context, orderID uuid.UUID, oldStatus, newStatus domain.OrderStatus, changedBy string) {
	if s.history != nil {
		err := s.history.Append(ctx, history.Entry{
			OrderID:    orderID,
			FromStatus: string(oldStatus),
			ToStatus:   string(newStatus),
			ChangedBy:  changedBy,
			ChangedAt:  time.Now().UTC(),
		})
		if err != nil {
			s.log.Error("status_log_append_failed", err, map[string]any{"order_id": orderID.String()})
		}
	}
	if s.events != nil {
		err := s.events.PublishStatusChange(ctx, orderID, string(oldStatus), string(newStatus), changedBy)
		if err != nil {
			s.log.Error("status_event_publish_failed", err, map[string]any{"order_id": orderID.String()})
		}
	}
}

// Menu.

func (s *Service) CreateProduct(req CreateProductRequest) (MenuItemView, error) {
	var (
		p   *domain.Product
		err error
	)
	if req.Food != nil {
		restrictions := make([]domain.DietaryRestriction, 0, len(req.Food.Restrictions))
		for _, r := range req.Food.Restrictions {
			restrictions = append(restrictions, domain.DietaryRestriction(r))
		}
		p, err = domain.NewFoodProduct(req.Name, req.Price, domain.FoodDetails{
			ExpirationDate: req.Food.ExpirationDate,
			Calories:       req.Food.Calories,
			TimeToPrepare:  req.Food.TimeToPrepare,
			PersonsServed:  req.Food.PersonsServed,
			VolumeML:       req.Food.VolumeML,
			Alcoholic:      req.Food.Alcoholic,
			IsIngredient:   req.Food.IsIngredient,
			Restrictions:   restrictions,
		})
	} else {
		p, err = domain.NewProduct(req.Name, req.Price)
	}
	if err != nil {
		return MenuItemView{}, err
	}
	if err := s.rest.AddToMenu(p); err != nil {
		return MenuItemView{}, err
	}
	return menuItemView(p), nil
}

func (s *Service) CreateCombo(req CreateComboRequest) (MenuItemView, error) {
	items := make([]domain.MenuItem, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return MenuItemView{}, fmt.Errorf("item id %q: %w", raw, domain.ErrInvalidState)
		}
		item, err := s.rest.MenuItemByID(id)
		if err != nil {
			return MenuItemView{}, err
		}
		items = append(items, item)
	}
	combo, err := domain.NewCombo(req.Name, items...)
	if err != nil {
		return MenuItemView{}, err
	}
	if err := s.rest.AddToMenu(combo); err != nil {
		return MenuItemView{}, err
	}
	return menuItemView(combo), nil
}

func (s *Service) Menu() []MenuItemView {
	items := s.rest.Menu()
	out := make([]MenuItemView, 0, len(items))
	for _, item := range items {
		out = append(out, menuItemView(item))
	}
	return out
}

// Customers.

func (s *Service) RegisterCustomer(req RegisterCustomerRequest) (CustomerView, error) {
	c, err := domain.NewCustomer(req.Name, req.Balance)
	if err != nil {
		return CustomerView{}, err
	}
	c.SetAddress(req.Address)
	for _, r := range req.Restrictions {
		if err := c.AddRestriction(domain.DietaryRestriction(r)); err != nil {
			return CustomerView{}, err
		}
	}
	s.rest.RegisterCustomer(c)
	return customerView(c), nil
}

func (s *Service) Customer(id uuid.UUID) (CustomerView, error) {
	c, err := s.rest.CustomerByID(id)
	if err != nil {
		return CustomerView{}, err
	}
	return customerView(c), nil
}

func (s *Service) AddFunds(id uuid.UUID, amount float64) (CustomerView, error) {
	c, err := s.rest.CustomerByID(id)
	if err != nil {
		return CustomerView{}, err
	}
	if err := c.AddFunds(amount); err != nil {
		return CustomerView{}, err
	}
	return customerView(c), nil
}

func (s *Service) AddCartItem(customerID, itemID uuid.UUID) (OrderView, error) {
	c, err := s.rest.CustomerByID(customerID)
	if err != nil {
		return OrderView{}, err
	}
	item, err := s.rest.MenuItemByID(itemID)
	if err != nil {
		return OrderView{}, err
	}
	if !c.CanConsume(item) {
		return OrderView{}, fmt.Errorf("item %q conflicts with dietary restrictions: %w", item.Name(), domain.ErrInvalidState)
	}
	if err := c.Cart().AddItem(item); err != nil {
		return OrderView{}, err
	}
	return orderView(c.Cart()), nil
}

func (s *Service) RemoveCartItem(customerID, itemID uuid.UUID) (OrderView, error) {
	c, err := s.rest.CustomerByID(customerID)
	if err != nil {
		return OrderView{}, err
	}
	item, err := s.rest.MenuItemByID(itemID)
	if err != nil {
		return OrderView{}, err
	}
	if err := c.Cart().RemoveItem(item); err != nil {
		return OrderView{}, err
	}
	return orderView(c.Cart()), nil
}

// Checkout settles the cart and records the ordering → pending_payment
// transition.
func (s *Service) Checkout(ctx context.Context, customerID uuid.UUID) (CheckoutResponse, error) {
	order, amount, err := s.rest.Checkout(customerID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	s.recordChange(ctx, order.ID(), domain.StatusOrdering, order.Status(), "cashier")
	s.log.Info("order_paid", map[string]any{
		"order_id": order.ID().String(),
		"customer": customerID.String(),
		"amount":   amount,
	})
	return CheckoutResponse{Order: orderView(order), Amount: amount}, nil
}

// Kitchen.

func (s *Service) SubmitToKitchen(ctx context.Context, req SubmitOrderRequest) (OrderView, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return OrderView{}, fmt.Errorf("order id %q: %w", req.OrderID, domain.ErrInvalidState)
	}
	order, err := s.rest.OrderByID(orderID)
	if err != nil {
		return OrderView{}, err
	}
	old := order.Status()
	if err := s.rest.SubmitOrder(orderID, req.Priority); err != nil {
		return OrderView{}, err
	}
	s.recordChange(ctx, orderID, old, order.Status(), "kitchen")
	return orderView(order), nil
}

func (s *Service) StartNextOrder(ctx context.Context) (OrderView, error) {
	order, err := s.rest.Kitchen().StartNext()
	if err != nil {
		return OrderView{}, err
	}
	s.recordChange(ctx, order.ID(), domain.StatusWaiting, order.Status(), "kitchen")
	return orderView(order), nil
}

func (s *Service) CompleteOrder(ctx context.Context, orderID uuid.UUID) (OrderView, error) {
	order, err := s.rest.OrderByID(orderID)
	if err != nil {
		return OrderView{}, err
	}
	old := order.Status()
	if err := s.rest.Kitchen().Complete(order); err != nil {
		return OrderView{}, err
	}
	s.recordChange(ctx, orderID, old, order.Status(), "kitchen")
	return orderView(order), nil
}

func (s *Service) DeliverOrder(ctx context.Context, orderID uuid.UUID) (OrderView, error) {
	order, err := s.rest.OrderByID(orderID)
	if err != nil {
		return OrderView{}, err
	}
	old := order.Status()
	if err := s.rest.Kitchen().Deliver(order); err != nil {
		return OrderView{}, err
	}
	s.recordChange(ctx, orderID, old, order.Status(), "kitchen")
	return orderView(order), nil
}

func (s *Service) KitchenStatus() KitchenStatusView {
	k := s.rest.Kitchen()
	return KitchenStatusView{
		KitchenSnapshot:      k.Snapshot(),
		EstimatedWaitMinutes: k.EstimatedWaitTime(),
	}
}

// Orders.

func (s *Service) Order(orderID uuid.UUID) (OrderView, error) {
	order, err := s.rest.OrderByID(orderID)
	if err != nil {
		return OrderView{}, err
	}
	return orderView(order), nil
}

func (s *Service) CancelOrder(ctx context.Context, orderID uuid.UUID) (OrderView, error) {
	order, err := s.rest.OrderByID(orderID)
	if err != nil {
		return OrderView{}, err
	}
	old := order.Status()
	if err := order.ChangeStatus(domain.StatusCanceled); err != nil {
		return OrderView{}, err
	}
	s.recordChange(ctx, orderID, old, domain.StatusCanceled, "customer")
	return orderView(order), nil
}

// AdvanceOrder drives the delivery tail (being_delivered → delivered).
// Earlier stages belong to the kitchen endpoints; advancing an order the
// kitchen still holds would desynchronize its queue/in-progress/ready sets
// from the order's status.
func (s *Service) AdvanceOrder(ctx context.Context, orderID uuid.UUID) (OrderView, error) {
	order, err := s.rest.OrderByID(orderID)
	if err != nil {
		return OrderView{}, err
	}
	old := order.Status()
	if old != domain.StatusBeingDelivered {
		return OrderView{}, fmt.Errorf("order %s in status %q is not out for delivery: %w", orderID, old, domain.ErrInvalidState)
	}
	if err := order.AdvanceStatus(); err != nil {
		return OrderView{}, err
	}
	s.recordChange(ctx, orderID, old, order.Status(), "delivery")
	return orderView(order), nil
}

func (s *Service) Timeline(ctx context.Context, orderID uuid.UUID, limit, offset int) ([]history.Entry, error) {
	if s.history == nil {
		return nil, fmt.Errorf("order history is not enabled: %w", domain.ErrInvalidState)
	}
	return s.history.Timeline(ctx, orderID, limit, offset)
}
