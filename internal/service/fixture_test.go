package service_test

import (
	"context"
	"testing"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *storage.FileStore
	user    *domain.User
	address *domain.Address
	dish    *domain.Dish
	side    *domain.Dish
	combo   *domain.Combo
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// newFixture seeds one customer with a default address and a small menu:
// a 10.00 dish, a 2.00 side and a 25.00 combo made of both.
func newFixture(t *testing.T, balance string) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := storage.OpenFileStore(t.TempDir())
	require.NoError(t, err)

	user := &domain.User{
		Username:     "alice",
		PasswordHash: "hash",
		Role:         domain.RoleCustomer,
		IsActive:     true,
		Balance:      money(balance),
		FoodTags:     []string{},
	}
	require.NoError(t, store.CreateUser(ctx, user))

	category := &domain.Category{Name: "热菜", IsEnabled: true}
	require.NoError(t, store.CreateCategory(ctx, category))

	dish := &domain.Dish{
		CategoryID:  category.ID,
		Name:        "宫保鸡丁",
		Price:       money("10.00"),
		Flavors:     []string{"微辣", "特辣"},
		IsAvailable: true,
	}
	require.NoError(t, store.CreateDish(ctx, dish))

	side := &domain.Dish{CategoryID: category.ID, Name: "米饭", Price: money("2.00"), Flavors: []string{}, IsAvailable: true}
	require.NoError(t, store.CreateDish(ctx, side))

	combo := &domain.Combo{
		Name:      "午餐套餐",
		Price:     money("25.00"),
		IsEnabled: true,
		Dishes: []domain.ComboDish{
			{DishID: dish.ID, Quantity: 1},
			{DishID: side.ID, Quantity: 1},
		},
	}
	require.NoError(t, store.CreateCombo(ctx, combo))

	address := &domain.Address{
		UserID:        user.ID,
		RecipientName: "Alice",
		PhoneNumber:   "13800000000",
		BuildingName:  "3号楼",
		RoomDetails:   "301",
		IsDefault:     true,
	}
	require.NoError(t, store.CreateAddress(ctx, address))

	return &fixture{store: store, user: user, address: address, dish: dish, side: side, combo: combo}
}

// fillCart puts two of the dish and one combo in the cart, 45.00 in total.
func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.UpsertCartLine(ctx, &domain.CartLine{
		ItemRef:   domain.ItemRef{ItemType: domain.ItemTypeDish, ItemID: f.dish.ID},
		UserID:    f.user.ID,
		Quantity:  2,
		Flavors:   []string{},
		FlavorKey: domain.FlavorKey(nil),
	}))
	require.NoError(t, f.store.UpsertCartLine(ctx, &domain.CartLine{
		ItemRef:   domain.ItemRef{ItemType: domain.ItemTypeCombo, ItemID: f.combo.ID},
		UserID:    f.user.ID,
		Quantity:  1,
		Flavors:   []string{},
		FlavorKey: domain.FlavorKey(nil),
	}))
}

func (f *fixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	return u.Balance
}
