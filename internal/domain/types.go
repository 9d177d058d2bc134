package domain

import "time"

// Category classifies a catalog food item.
type Category string

const (
	CategoryVegetable Category = "Vegetable"
	CategoryFruit     Category = "Fruit"
	CategoryMeat      Category = "Meat"
	CategoryProtein   Category = "Protein"
	CategoryDairy     Category = "Dairy"
	CategoryGrain     Category = "Grain"
	CategoryDrinks    Category = "Drinks"
	CategorySnacks    Category = "Snacks"
	CategoryFastFood  Category = "Fast_Food"
	CategoryOther     Category = "Other"
)

var categories = map[Category]bool{
	CategoryVegetable: true,
	CategoryFruit:     true,
	CategoryMeat:      true,
	CategoryProtein:   true,
	CategoryDairy:     true,
	CategoryGrain:     true,
	CategoryDrinks:    true,
	CategorySnacks:    true,
	CategoryFastFood:  true,
	CategoryOther:     true,
}

func (c Category) Valid() bool {
	return categories[c]
}

// LotStatus is the lifecycle state of an inventory lot. Available is the
// only non-terminal state; every other status accepts no further mutation.
type LotStatus string

const (
	StatusAvailable LotStatus = "Available"
	StatusConsumed  LotStatus = "Consumed"
	StatusExpired   LotStatus = "Expired"
	StatusRemoved   LotStatus = "Removed"
)

// Terminal reports whether the status accepts no further transitions.
func (s LotStatus) Terminal() bool {
	switch s {
	case StatusConsumed, StatusExpired, StatusRemoved:
		return true
	}
	return false
}

// Action is the kind of lifecycle event recorded against a lot.
type Action string

const (
	ActionAdded            Action = "Added"
	ActionQuantityAdjusted Action = "QuantityAdjusted"
	ActionConsumed         Action = "Consumed"
	ActionExpired          Action = "Expired"
	ActionRemoved          Action = "Removed"
)

// FoodItem is a catalog definition. It is referenced by lots and must not
// be deleted while an Available lot points at it.
type FoodItem struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	Category              Category  `json:"category"`
	DefaultExpirationDays int       `json:"default_expiration_days"`
	CostPerUnit           float64   `json:"cost_per_unit"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Lot is a discrete purchased batch of a food item. Status and Quantity are
// a materialized projection of the lot's event stream; Version guards
// concurrent writers (compare-and-swap on update).
type Lot struct {
	ID          int64     `json:"id"`
	FoodItemID  int64     `json:"food_item_id"`
	Quantity    int       `json:"quantity"`
	PurchasedAt time.Time `json:"purchased_at"`
	ExpiryAt    time.Time `json:"expiry_at"`
	Status      LotStatus `json:"status"`
	Notes       string    `json:"notes"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event is one immutable log entry. The ordered sequence of a lot's events
// is the system of record for its state.
type Event struct {
	ID            int64     `json:"id"`
	LotID         int64     `json:"lot_id"`
	Action        Action    `json:"action"`
	QuantityDelta int       `json:"quantity_delta"`
	OccurredAt    time.Time `json:"occurred_at"`
	Actor         string    `json:"actor"`
}

// ActivityEntry is an event joined with its lot's food item name, for the
// activity feed.
type ActivityEntry struct {
	Event
	FoodItemName string `json:"food_item_name"`
}
