package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type HotItem struct {
	ItemID            int             `json:"item_id"`
	ItemType          ItemType        `json:"item_type"`
	ItemName          string          `json:"item_name"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

type TurnoverBucket struct {
	Date          string          `json:"date"`
	TotalTurnover decimal.Decimal `json:"total_turnover"`
	OrderCount    int             `json:"order_count"`
}

type Overview struct {
	TodayTurnover          decimal.Decimal `json:"today_turnover"`
	TodayOrdersCount       int             `json:"today_orders_count"`
	PendingOrdersCount     int             `json:"pending_orders_count"`
	AvailableItemsCount    int             `json:"available_items_count"`
	AvailableDishesCount   int             `json:"available_dishes_count"`
	EnabledCategoriesCount int             `json:"enabled_categories_count"`
}

// SoldLine is one paid order line as read by the statistics aggregator.
// UnitPrice is the current catalog price, SubTotal the snapshot line amount.
type SoldLine struct {
	ItemRef
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
	SubTotal  decimal.Decimal
}

// PaidOrder is the header of a paid order as read by the statistics aggregator.
type PaidOrder struct {
	ID          int
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
}

type Recommendation struct {
	RecommendationText string            `json:"recommendationText"`
	ActionableItems    []RecommendedItem `json:"actionableItems"`
}

type RecommendedItem struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Type ItemType `json:"type"`
}
