package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DietaryRestriction labels a dietary constraint. On a customer it marks
// what they observe; on a food item it marks what the item violates.
type DietaryRestriction string

const (
	RestrictionVegetarian DietaryRestriction = "vegetarian"
	RestrictionVegan      DietaryRestriction = "vegan"
	RestrictionGlutenFree DietaryRestriction = "gluten_free"
	RestrictionNutAllergy DietaryRestriction = "nut_allergy"
	RestrictionDairyFree  DietaryRestriction = "dairy_free"
	RestrictionHalal      DietaryRestriction = "halal"
	RestrictionKosher     DietaryRestriction = "kosher"
)

const expirationLayout = "2006-01-02"

// FoodDetails extends a product with edible-specific attributes. A product
// without FoodDetails is a non-food item (merchandise, delivery fee, etc).
type FoodDetails struct {
	ExpirationDate string // YYYY-MM-DD, empty means no expiry
	Calories       int
	TimeToPrepare  int // minutes
	PersonsServed  int // dishes
	VolumeML       int // drinks
	Alcoholic      bool
	IsIngredient   bool
	Restrictions   []DietaryRestriction // constraints this food violates
}

// Product is a single catalog entry. Food products additionally carry
// FoodDetails and may be composed from ingredient products.
type Product struct {
	mu          sync.Mutex
	id          uuid.UUID
	name        string
	price       float64
	available   bool
	food        *FoodDetails
	ingredients []*Product
}

// NewProduct creates a non-food product.
func NewProduct(name string, price float64) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is empty: %w", ErrInvalidState)
	}
	if price < 0 {
		return nil, fmt.Errorf("product price %.2f: %w", price, ErrInvalidAmount)
	}
	return &Product{
		id:        uuid.New(),
		name:      name,
		price:     price,
		available: true,
	}, nil
}

// NewFoodProduct creates a product carrying food details. The details are
// copied so every product owns its own restriction list.
func NewFoodProduct(name string, price float64, details FoodDetails) (*Product, error) {
	p, err := NewProduct(name, price)
	if err != nil {
		return nil, err
	}
	d := details
	d.Restrictions = append([]DietaryRestriction(nil), details.Restrictions...)
	p.food = &d
	return p, nil
}

// ID returns the product's identifier.
func (p *Product) ID() uuid.UUID { return p.id }

// Name returns the product's name.
func (p *Product) Name() string { return p.name }

// Price returns the current unit price.
func (p *Product) Price() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.price
}

// SetPrice replaces the unit price.
func (p *Product) SetPrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("price %.2f: %w", price, ErrInvalidAmount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price = price
	return nil
}

// ApplyDiscount reduces the price by the given fraction in (0, 1].
func (p *Product) ApplyDiscount(fraction float64) error {
	if fraction <= 0 || fraction > 1 {
		return fmt.Errorf("discount fraction %.2f: %w", fraction, ErrInvalidAmount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price -= p.price * fraction
	return nil
}

// Available reports whether the product can currently be ordered.
func (p *Product) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// SetAvailable toggles the product's availability.
func (p *Product) SetAvailable(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = v
}

// IsFood reports whether the product carries food details.
func (p *Product) IsFood() bool { return p.food != nil }

// Food returns a copy of the food details, if any.
func (p *Product) Food() (FoodDetails, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.food == nil {
		return FoodDetails{}, false
	}
	d := *p.food
	d.Restrictions = append([]DietaryRestriction(nil), p.food.Restrictions...)
	return d, true
}

// Calories returns the food calories, or 0 for non-food products.
func (p *Product) Calories() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.food == nil {
		return 0
	}
	return p.food.Calories
}

// TimeToPrepare returns the preparation minutes, or 0 for non-food products.
func (p *Product) TimeToPrepare() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.food == nil {
		return 0
	}
	return p.food.TimeToPrepare
}

// Restrictions returns the dietary restrictions the product violates.
func (p *Product) Restrictions() []DietaryRestriction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.food == nil {
		return nil
	}
	return append([]DietaryRestriction(nil), p.food.Restrictions...)
}

// IsExpired reports whether the product's expiration date is strictly before
// the given date. Products without food details or without an expiry never
// expire.
func (p *Product) IsExpired(date time.Time) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.food == nil || p.food.ExpirationDate == "" {
		return false, nil
	}
	exp, err := time.Parse(expirationLayout, p.food.ExpirationDate)
	if err != nil {
		return false, fmt.Errorf("parse expiration date %q: %w", p.food.ExpirationDate, err)
	}
	return exp.Before(date), nil
}

// AddIngredient composes an ingredient-flagged food product into this
// product, aggregating its calories and dietary restrictions.
func (p *Product) AddIngredient(ing *Product) error {
	if ing == nil {
		return fmt.Errorf("nil ingredient: %w", ErrInvalidState)
	}
	// Snapshot the ingredient before locking the receiver so two products
	// never hold each other's locks.
	ingFood, ingIsFood := ing.Food()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.food == nil {
		return fmt.Errorf("product %q is not food: %w", p.name, ErrInvalidState)
	}
	if p.food.IsIngredient {
		return fmt.Errorf("ingredient %q cannot have ingredients: %w", p.name, ErrInvalidState)
	}
	if !ingIsFood || !ingFood.IsIngredient {
		return fmt.Errorf("product %q is not an ingredient: %w", ing.name, ErrInvalidState)
	}
	for _, existing := range p.ingredients {
		if existing.id == ing.id {
			return fmt.Errorf("ingredient %q already added: %w", ing.name, ErrInvalidState)
		}
	}
	p.ingredients = append(p.ingredients, ing)
	p.food.Calories += ingFood.Calories
	for _, r := range ingFood.Restrictions {
		if !containsRestriction(p.food.Restrictions, r) {
			p.food.Restrictions = append(p.food.Restrictions, r)
		}
	}
	return nil
}

// RemoveIngredient removes a previously added ingredient, subtracting its
// calories and stripping the restrictions it contributed.
func (p *Product) RemoveIngredient(ing *Product) error {
	if ing == nil {
		return fmt.Errorf("nil ingredient: %w", ErrNotFound)
	}
	ingFood, _ := ing.Food()

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.ingredients {
		if existing.id == ing.id {
			p.ingredients = append(p.ingredients[:i], p.ingredients[i+1:]...)
			if p.food != nil {
				p.food.Calories -= ingFood.Calories
				p.food.Restrictions = removeRestrictions(p.food.Restrictions, ingFood.Restrictions)
			}
			return nil
		}
	}
	return fmt.Errorf("ingredient %q not in product %q: %w", ing.name, p.name, ErrNotFound)
}

// Ingredients returns a copy of the ingredient list.
func (p *Product) Ingredients() []*Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Product(nil), p.ingredients...)
}

func containsRestriction(list []DietaryRestriction, r DietaryRestriction) bool {
	for _, have := range list {
		if have == r {
			return true
		}
	}
	return false
}

func removeRestrictions(list, drop []DietaryRestriction) []DietaryRestriction {
	out := list[:0]
	for _, have := range list {
		if !containsRestriction(drop, have) {
			out = append(out, have)
		}
	}
	return out
}

// Combo groups menu items sold together at a discountable bundle price.
type Combo struct {
	mu    sync.Mutex
	id    uuid.UUID
	name  string
	items []MenuItem
	price float64
}

// NewCombo creates a combo from at least one menu item. The initial price is
// the sum of the members' current prices.
func NewCombo(name string, items ...MenuItem) (*Combo, error) {
	if name == "" {
		return nil, fmt.Errorf("combo name is empty: %w", ErrInvalidState)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("combo %q needs at least one item: %w", name, ErrInvalidState)
	}
	c := &Combo{
		id:    uuid.New(),
		name:  name,
		items: append([]MenuItem(nil), items...),
	}
	for _, it := range c.items {
		c.price += it.Price()
	}
	return c, nil
}

// ID returns the combo's identifier.
func (c *Combo) ID() uuid.UUID { return c.id }

// Name returns the combo's name.
func (c *Combo) Name() string { return c.name }

// Price returns the current bundle price.
func (c *Combo) Price() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.price
}

// ApplyDiscount reduces the bundle price by the given fraction in (0, 1].
func (c *Combo) ApplyDiscount(fraction float64) error {
	if fraction <= 0 || fraction > 1 {
		return fmt.Errorf("discount fraction %.2f: %w", fraction, ErrInvalidAmount)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.price -= c.price * fraction
	return nil
}

// AddItem adds another menu item to the combo and raises the price by the
// item's current price.
func (c *Combo) AddItem(item MenuItem) error {
	price := item.Price()
	id := item.ID()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.items {
		if existing.ID() == id {
			return fmt.Errorf("item %q already in combo: %w", item.Name(), ErrInvalidState)
		}
	}
	c.items = append(c.items, item)
	c.price += price
	return nil
}

// RemoveItem removes a member item. A combo always keeps at least one item.
func (c *Combo) RemoveItem(item MenuItem) error {
	price := item.Price()
	id := item.ID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) <= 1 {
		return fmt.Errorf("combo %q cannot drop its last item: %w", c.name, ErrInvalidState)
	}
	for i, existing := range c.items {
		if existing.ID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.price -= price
			return nil
		}
	}
	return fmt.Errorf("item %q not in combo %q: %w", item.Name(), c.name, ErrNotFound)
}

// Items returns a copy of the combo's members.
func (c *Combo) Items() []MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]MenuItem(nil), c.items...)
}

// TimeToPrepare sums preparation minutes over members that report one.
func (c *Combo) TimeToPrepare() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, it := range c.items {
		if pt, ok := it.(prepTimer); ok {
			total += pt.TimeToPrepare()
		}
	}
	return total
}

// Calories sums calories over members that report them.
func (c *Combo) Calories() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, it := range c.items {
		if cc, ok := it.(calorieCounter); ok {
			total += cc.Calories()
		}
	}
	return total
}

// Restrictions returns the union of the restrictions the member items
// violate.
func (c *Combo) Restrictions() []DietaryRestriction {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []DietaryRestriction
	for _, it := range c.items {
		type restricted interface {
			Restrictions() []DietaryRestriction
		}
		if rr, ok := it.(restricted); ok {
			for _, r := range rr.Restrictions() {
				if !containsRestriction(out, r) {
					out = append(out, r)
				}
			}
		}
	}
	return out
}
