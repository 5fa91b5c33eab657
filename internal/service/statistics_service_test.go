package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/mocks"
	"kungfu-delivery/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService_HotItemsCountPaidOrdersOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "50.00")
	orders := service.NewOrderService(f.store, nil, nil, nil)

	f.fillCart(t)
	_, err := orders.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
	require.NoError(t, err)

	f.fillCart(t)
	_, err = orders.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "wechat"})
	require.NoError(t, err)

	svc := service.NewStatisticsService(f.store, nil, time.UTC)
	dishes, err := svc.HotItems(ctx, domain.ItemTypeDish, 0)
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, f.dish.ID, dishes[0].ItemID)
	assert.Equal(t, 2, dishes[0].TotalQuantitySold)
	assert.True(t, money("20.00").Equal(dishes[0].TotalRevenue))

	combos, err := svc.HotItems(ctx, domain.ItemTypeCombo, 5)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, 1, combos[0].TotalQuantitySold)
}

func TestStatisticsService_HotItemsRanking(t *testing.T) {
	lines := []domain.SoldLine{
		{ItemRef: domain.ItemRef{ItemType: domain.ItemTypeDish, ItemID: 1}, ItemName: "A", Quantity: 1, UnitPrice: money("8"), SubTotal: money("8")},
		{ItemRef: domain.ItemRef{ItemType: domain.ItemTypeDish, ItemID: 2}, ItemName: "B", Quantity: 3, UnitPrice: money("5"), SubTotal: money("15")},
		{ItemRef: domain.ItemRef{ItemType: domain.ItemTypeDish, ItemID: 3}, ItemName: "C", Quantity: 1, UnitPrice: money("0"), SubTotal: money("9.5")},
		{ItemRef: domain.ItemRef{ItemType: domain.ItemTypeDish, ItemID: 1}, ItemName: "A", Quantity: 1, UnitPrice: money("8"), SubTotal: money("7.5")},
	}

	tests := []struct {
		name    string
		limit   int
		wantIDs []int
	}{
		{name: "default limit", limit: 0, wantIDs: []int{2, 1, 3}},
		{name: "limit truncates", limit: 2, wantIDs: []int{2, 1}},
		{name: "oversized limit is capped", limit: 500, wantIDs: []int{2, 1, 3}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewStatsRepository(t)
			repo.On("PaidOrderLines", mock.Anything, domain.ItemTypeDish).Return(lines, nil).Once()
			svc := service.NewStatisticsService(repo, nil, time.UTC)

			items, err := svc.HotItems(context.Background(), domain.ItemTypeDish, testCase.limit)
			require.NoError(t, err)

			ids := make([]int, 0, len(items))
			for _, item := range items {
				ids = append(ids, item.ItemID)
			}
			assert.Equal(t, testCase.wantIDs, ids)
			assert.True(t, money("15.5").Equal(items[1].TotalRevenue))
		})
	}
}

func TestStatisticsService_HotItemsCache(t *testing.T) {
	cached := []domain.HotItem{{ItemID: 9, ItemType: domain.ItemTypeCombo, ItemName: "cached"}}

	t.Run("hit skips the repository", func(t *testing.T) {
		repo := mocks.NewStatsRepository(t)
		cache := mocks.NewStatsCache(t)
		cache.On("GetHotItems", mock.Anything, domain.ItemTypeCombo, 10).Return(cached, true, nil).Once()

		items, err := service.NewStatisticsService(repo, cache, time.UTC).HotItems(context.Background(), domain.ItemTypeCombo, 0)
		require.NoError(t, err)
		assert.Equal(t, cached, items)
	})

	t.Run("miss and broken cache still answer", func(t *testing.T) {
		repo := mocks.NewStatsRepository(t)
		repo.On("PaidOrderLines", mock.Anything, domain.ItemTypeCombo).Return([]domain.SoldLine{}, nil).Once()
		cache := mocks.NewStatsCache(t)
		cache.On("GetHotItems", mock.Anything, domain.ItemTypeCombo, 3).Return(nil, false, errors.New("redis down")).Once()
		cache.On("SetHotItems", mock.Anything, domain.ItemTypeCombo, 3, []domain.HotItem{}).Return(errors.New("redis down")).Once()

		items, err := service.NewStatisticsService(repo, cache, time.UTC).HotItems(context.Background(), domain.ItemTypeCombo, 3)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := service.NewStatisticsService(mocks.NewStatsRepository(t), nil, time.UTC).HotItems(context.Background(), "drink", 3)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestStatisticsService_TurnoverCustomRange(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)

	repo := mocks.NewStatsRepository(t)
	repo.On("PaidOrders", mock.Anything, from, to).Return([]domain.PaidOrder{
		{ID: 1, TotalAmount: money("20.00"), Status: domain.StatusCompleted, CreatedAt: from.Add(9 * time.Hour)},
		{ID: 2, TotalAmount: money("35.00"), Status: domain.StatusPreparing, CreatedAt: from.Add(18 * time.Hour)},
	}, nil).Once()

	svc := service.NewStatisticsService(repo, nil, loc)
	buckets, err := svc.Turnover(context.Background(), "custom", "2024-01-01", "2024-01-01")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-01-01", buckets[0].Date)
	assert.True(t, money("55.00").Equal(buckets[0].TotalTurnover))
	assert.Equal(t, 2, buckets[0].OrderCount)
}

func TestStatisticsService_TurnoverBuckets(t *testing.T) {
	loc := time.UTC
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, loc)
	paid := []domain.PaidOrder{
		{ID: 1, TotalAmount: money("10"), CreatedAt: day.Add(8 * time.Hour)},
		{ID: 2, TotalAmount: money("12.5"), CreatedAt: day.Add(8*time.Hour + 30*time.Minute)},
		{ID: 3, TotalAmount: money("7"), CreatedAt: day.Add(12 * time.Hour)},
	}

	tests := []struct {
		name      string
		period    string
		start     string
		end       string
		wantDates []string
	}{
		{name: "single day groups by hour", period: "daily", start: "2024-03-05", end: "2024-03-05", wantDates: []string{"2024-03-05 08:00", "2024-03-05 12:00"}},
		{name: "weekly groups by day", period: "weekly", start: "2024-03-01", end: "2024-03-07", wantDates: []string{"2024-03-05"}},
		{name: "yearly groups by month", period: "YEARLY", start: "2024-01-01", end: "2024-12-31", wantDates: []string{"2024-03"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewStatsRepository(t)
			repo.On("PaidOrders", mock.Anything, mock.Anything, mock.Anything).Return(paid, nil).Once()

			buckets, err := service.NewStatisticsService(repo, nil, loc).Turnover(context.Background(), testCase.period, testCase.start, testCase.end)
			require.NoError(t, err)

			dates := make([]string, 0, len(buckets))
			for _, b := range buckets {
				dates = append(dates, b.Date)
			}
			assert.Equal(t, testCase.wantDates, dates)
		})
	}
}

func TestStatisticsService_TurnoverValidation(t *testing.T) {
	tests := []struct {
		name   string
		period string
		start  string
		end    string
	}{
		{name: "unknown period", period: "hourly"},
		{name: "custom without range", period: "custom"},
		{name: "half range", period: "daily", start: "2024-01-01"},
		{name: "bad date", period: "daily", start: "2024/01/01", end: "2024-01-02"},
		{name: "inverted range", period: "weekly", start: "2024-01-05", end: "2024-01-01"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc := service.NewStatisticsService(mocks.NewStatsRepository(t), nil, time.UTC)
			_, err := svc.Turnover(context.Background(), testCase.period, testCase.start, testCase.end)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestStatisticsService_Overview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "50.00")
	f.fillCart(t)

	orders := service.NewOrderService(f.store, nil, nil, nil)
	_, err := orders.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
	require.NoError(t, err)

	overview, err := service.NewStatisticsService(f.store, nil, time.UTC).Overview(ctx)
	require.NoError(t, err)
	assert.True(t, money("45.00").Equal(overview.TodayTurnover))
	assert.Equal(t, 1, overview.TodayOrdersCount)
	assert.Equal(t, 1, overview.PendingOrdersCount)
	assert.Equal(t, 2, overview.AvailableDishesCount)
	assert.Equal(t, 3, overview.AvailableItemsCount)
	assert.Equal(t, 1, overview.EnabledCategoriesCount)
}
