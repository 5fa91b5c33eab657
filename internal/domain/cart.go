package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID int `json:"id"`
	ItemRef
	UserID    int       `json:"user_id"`
	Quantity  int       `json:"quantity"`
	Flavors   []string  `json:"selected_flavors"`
	FlavorKey string    `json:"flavor_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItemView struct {
	CartItemID      int             `json:"cart_item_id"`
	ItemID          int             `json:"item_id"`
	ItemType        ItemType        `json:"item_type"`
	Quantity        int             `json:"quantity"`
	SelectedFlavors []string        `json:"selected_flavors"`
	ItemName        string          `json:"item_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ItemImageURL    string          `json:"item_image_url"`
	SubTotal        decimal.Decimal `json:"sub_total"`
	IsAvailable     bool            `json:"is_available"`
}

type CartView struct {
	Items       []CartItemView  `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type AddCartItem struct {
	ItemID          int      `json:"item_id"`
	ItemType        ItemType `json:"item_type"`
	Quantity        int      `json:"quantity"`
	SelectedFlavors []string `json:"selected_flavors"`
}

type UpdateCartItem struct {
	Quantity        *int      `json:"quantity"`
	SelectedFlavors *[]string `json:"selected_flavors"`
}

// NormalizeFlavors trims, drops blanks and duplicates, and sorts the names so
// that equal selections compare equal regardless of input order.
func NormalizeFlavors(flavors []string) []string {
	seen := make(map[string]struct{}, len(flavors))
	out := make([]string, 0, len(flavors))
	for _, f := range flavors {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// FlavorKey is the canonical encoding of an already normalized flavor set.
func FlavorKey(normalized []string) string {
	if len(normalized) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(normalized)
	return string(b)
}
