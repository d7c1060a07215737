package api

import (
	"time"

	"restaurant-platform/internal/domain"
)

// Requests. Validation tags are enforced by the handler before any domain
// call.

type FoodDetailsRequest struct {
	ExpirationDate string   `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Calories       int      `json:"calories" validate:"gte=0"`
	TimeToPrepare  int      `json:"time_to_prepare" validate:"gte=0"`
	PersonsServed  int      `json:"persons_served" validate:"gte=0"`
	VolumeML       int      `json:"volume_ml" validate:"gte=0"`
	Alcoholic      bool     `json:"alcoholic"`
	IsIngredient   bool     `json:"is_ingredient"`
	Restrictions   []string `json:"restrictions" validate:"dive,oneof=vegetarian vegan gluten_free nut_allergy dairy_free halal kosher"`
}

type CreateProductRequest struct {
	Name  string              `json:"name" validate:"required"`
	Price float64             `json:"price" validate:"gte=0"`
	Food  *FoodDetailsRequest `json:"food,omitempty"`
}

type CreateComboRequest struct {
	Name    string   `json:"name" validate:"required"`
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
}

type RegisterCustomerRequest struct {
	Name         string   `json:"name" validate:"required"`
	Balance      float64  `json:"balance" validate:"gte=0"`
	Address      string   `json:"address,omitempty"`
	Restrictions []string `json:"restrictions" validate:"dive,oneof=vegetarian vegan gluten_free nut_allergy dairy_free halal kosher"`
}

type AddFundsRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type CartItemRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

type SubmitOrderRequest struct {
	OrderID  string `json:"order_id" validate:"required,uuid"`
	Priority bool   `json:"priority"`
}

// Views.

type MenuItemView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Kind      string   `json:"kind"` // product | combo
	Available *bool    `json:"available,omitempty"`
	Calories  int      `json:"calories,omitempty"`
	PrepTime  int      `json:"time_to_prepare,omitempty"`
	Dietary   []string `json:"restrictions,omitempty"`
}

type LineItemView struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderView struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Total         float64        `json:"total"`
	Items         []LineItemView `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
	PrepMinutes   int            `json:"estimated_prep_minutes"`
	TotalCalories int            `json:"total_calories"`
	CanBeCanceled bool           `json:"can_be_canceled"`
}

type CustomerView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Balance      float64   `json:"balance"`
	Address      string    `json:"address,omitempty"`
	Restrictions []string  `json:"restrictions"`
	Cart         OrderView `json:"cart"`
}

type CheckoutResponse struct {
	Order  OrderView `json:"order"`
	Amount float64   `json:"amount_charged"`
}

type KitchenStatusView struct {
	domain.KitchenSnapshot
	EstimatedWaitMinutes int `json:"estimated_wait_minutes"`
}

func menuItemView(item domain.MenuItem) MenuItemView {
	v := MenuItemView{
		ID:    item.ID().String(),
		Name:  item.Name(),
		Price: item.Price(),
		Kind:  "combo",
	}
	if p, ok := item.(*domain.Product); ok {
		v.Kind = "product"
		avail := p.Available()
		v.Available = &avail
		v.Calories = p.Calories()
		v.PrepTime = p.TimeToPrepare()
		v.Dietary = restrictionsToStrings(p.Restrictions())
	}
	if c, ok := item.(*domain.Combo); ok {
		v.Calories = c.Calories()
		v.PrepTime = c.TimeToPrepare()
		v.Dietary = restrictionsToStrings(c.Restrictions())
	}
	return v
}

func orderView(o *domain.Order) OrderView {
	items := o.Items()
	views := make([]LineItemView, 0, len(items))
	for _, li := range items {
		views = append(views, LineItemView{
			ItemID:    li.Item.ID().String(),
			Name:      li.Item.Name(),
			UnitPrice: li.UnitPrice,
		})
	}
	return OrderView{
		ID:            o.ID().String(),
		Status:        string(o.Status()),
		Total:         o.Total(),
		Items:         views,
		CreatedAt:     o.CreatedAt(),
		PrepMinutes:   o.EstimatedPrepTime(),
		TotalCalories: o.TotalCalories(),
		CanBeCanceled: o.CanBeCanceled(),
	}
}

func customerView(c *domain.Customer) CustomerView {
	return CustomerView{
		ID:           c.ID().String(),
		Name:         c.Name(),
		Balance:      c.Balance(),
		Address:      c.Address(),
		Restrictions: restrictionsToStrings(c.Restrictions()),
		Cart:         orderView(c.Cart()),
	}
}

func restrictionsToStrings(rs []domain.DietaryRestriction) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, string(r))
	}
	return out
}
