package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type ItemType string

const (
	ItemTypeDish  ItemType = "dish"
	ItemTypeCombo ItemType = "combo"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeDish || t == ItemTypeCombo
}

// ItemRef points at exactly one dish or one combo.
type ItemRef struct {
	ItemType ItemType `json:"item_type"`
	ItemID   int      `json:"item_id"`
}

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsEnabled   bool      `json:"is_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Canteen struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	IsEnabled bool      `json:"is_enabled"`
	CreatedAt time.Time `json:"created_at"`
}

type Dish struct {
	ID           int             `json:"id"`
	CategoryID   int             `json:"category_id"`
	CanteenID    *int            `json:"canteen_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url"`
	Flavors      []string        `json:"flavors"`
	IsAvailable  bool            `json:"is_available"`
	CategoryName string          `json:"category_name,omitempty"`
	CanteenName  string          `json:"canteen_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ComboDish struct {
	DishID      int             `json:"dish_id"`
	Quantity    int             `json:"quantity"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
	Missing     bool            `json:"-"`
}

type Combo struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsEnabled   bool            `json:"is_enabled"`
	Dishes      []ComboDish     `json:"dishes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Orderable reports whether a customer may buy the combo: it must be enabled
// and every constituent dish must exist and be available.
func (c *Combo) Orderable() bool {
	if !c.IsEnabled || len(c.Dishes) == 0 {
		return false
	}
	for _, d := range c.Dishes {
		if d.Missing || !d.IsAvailable {
			return false
		}
	}
	return true
}

// CatalogItem is the live, priced view of a dish or combo used by the cart
// and by checkout.
type CatalogItem struct {
	ItemRef
	Name      string
	Price     decimal.Decimal
	ImageURL  string
	Available bool
}

// DishFilter narrows dish listings. Zero values mean "any".
type DishFilter struct {
	CategoryID    int
	CanteenID     int
	AvailableOnly bool
}

type DishInput struct {
	CategoryID  *int             `json:"category_id"`
	CanteenID   *int             `json:"canteen_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Flavors     []string         `json:"flavors"`
	IsAvailable *bool            `json:"is_available"`
}

type ComboDishInput struct {
	DishID   int `json:"dish_id" validate:"required,gt=0"`
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type ComboInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	IsEnabled   *bool            `json:"is_enabled"`
	Dishes      []ComboDishInput `json:"dishes" validate:"omitempty,dive"`
}

type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsEnabled   *bool   `json:"is_enabled"`
}
