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

func eventOfType(kind domain.OrderEventType) any {
	return mock.MatchedBy(func(e domain.OrderEvent) bool { return e.Type == kind })
}

func TestOrderService_CreateWithBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "50.00")
	f.fillCart(t)

	publisher := mocks.NewEventPublisher(t)
	publisher.On("PublishOrderEvent", mock.Anything, eventOfType(domain.EventOrderCreated)).Return(nil).Once()

	qr := mocks.NewQRGenerator(t)
	qr.On("Generate", mock.AnythingOfType("int")).Return([]byte("png"), nil).Once()

	svc := service.NewOrderService(f.store, qr, publisher, nil)
	placed, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
	require.NoError(t, err)

	assert.True(t, money("45.00").Equal(placed.TotalAmount), "total %s", placed.TotalAmount)
	assert.Equal(t, domain.StatusPreparing, placed.Status)
	assert.Equal(t, domain.PaymentPaid, placed.PaymentStatus)
	assert.True(t, money("5.00").Equal(f.balance(t)))

	lines, err := f.store.ListCartLines(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	order, err := svc.Detail(ctx, f.user.ID, placed.OrderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.True(t, money("20.00").Equal(order.Items[0].SubTotal))
	assert.True(t, money("25.00").Equal(order.Items[1].SubTotal))
	assert.Equal(t, "/api/orders/1/qrcode", order.QRCodeURL)

	stored, err := svc.QRCode(ctx, f.user.ID, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), stored)

	_, err = svc.PaySuccess(ctx, f.user.ID, placed.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestOrderService_CreateRollsBackOnShortBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "44.99")
	f.fillCart(t)

	svc := service.NewOrderService(f.store, nil, nil, nil)
	_, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientFunds))

	assert.True(t, money("44.99").Equal(f.balance(t)))
	lines, err := f.store.ListCartLines(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	orders, err := f.store.ListOrdersByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_CreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		input    func(f *fixture) domain.CreateOrder
		fill     bool
		wantKind apperr.Kind
	}{
		{
			name:     "missing payment method",
			input:    func(f *fixture) domain.CreateOrder { return domain.CreateOrder{AddressID: f.address.ID} },
			fill:     true,
			wantKind: apperr.KindValidation,
		},
		{
			name:     "foreign address",
			input:    func(f *fixture) domain.CreateOrder { return domain.CreateOrder{AddressID: 999, PaymentMethod: "wechat"} },
			fill:     true,
			wantKind: apperr.KindValidation,
		},
		{
			name: "empty cart",
			input: func(f *fixture) domain.CreateOrder {
				return domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "wechat"}
			},
			wantKind: apperr.KindValidation,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, "0")
			if testCase.fill {
				f.fillCart(t)
			}
			svc := service.NewOrderService(f.store, nil, nil, nil)

			_, err := svc.Create(context.Background(), f.user.ID, testCase.input(f))
			assert.Equal(t, testCase.wantKind, apperr.KindOf(err))
		})
	}
}

func TestOrderService_CreateRejectsUnavailableItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "0")
	f.fillCart(t)

	f.side.IsAvailable = false
	require.NoError(t, f.store.UpdateDish(ctx, f.side))

	svc := service.NewOrderService(f.store, nil, nil, nil)
	_, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "wechat"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "午餐套餐")
}

func TestOrderService_PayFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "0")
	f.fillCart(t)

	publisher := mocks.NewEventPublisher(t)
	publisher.On("PublishOrderEvent", mock.Anything, eventOfType(domain.EventOrderCreated)).Return(nil).Once()
	publisher.On("PublishOrderEvent", mock.Anything, eventOfType(domain.EventOrderPaid)).
		Return(errors.New("broker down")).Once()

	svc := service.NewOrderService(f.store, nil, publisher, nil)
	placed, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "wechat", Remark: " 少放辣 "})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, placed.Status)
	assert.Equal(t, domain.PaymentUnpaid, placed.PaymentStatus)

	_, err = svc.PaySuccess(ctx, f.user.ID+1, placed.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	failed, err := svc.PayFailure(ctx, f.user.ID, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, failed.Status)
	assert.Equal(t, domain.PaymentFailed, failed.PaymentStatus)

	paid, err := svc.PaySuccess(ctx, f.user.ID, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, paid.Status)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)

	order, err := f.store.GetOrder(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "少放辣", order.Remark)
	assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name        string
		policy      service.TransitionPolicy
		payment     string
		target      string
		wantKind    apperr.Kind
		wantPayment domain.PaymentStatus
		wantBalance string
	}{
		{
			name:        "refund balance order credits the wallet",
			payment:     "balance",
			target:      "refunded",
			wantPayment: domain.PaymentRefunded,
			wantBalance: "50.00",
		},
		{
			name:        "complete keeps payment",
			payment:     "balance",
			target:      "completed",
			wantPayment: domain.PaymentPaid,
			wantBalance: "5.00",
		},
		{
			name:     "unknown status",
			payment:  "balance",
			target:   "lost",
			wantKind: apperr.KindValidation,
		},
		{
			name:     "strict policy rejects going back to pending",
			policy:   service.PolicyFor("strict"),
			payment:  "balance",
			target:   "pending",
			wantKind: apperr.KindConflict,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, "50.00")
			f.fillCart(t)

			svc := service.NewOrderService(f.store, nil, nil, testCase.policy)
			placed, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: testCase.payment})
			require.NoError(t, err)

			order, err := svc.UpdateStatus(ctx, placed.OrderID, testCase.target)
			if testCase.wantKind != "" {
				assert.Equal(t, testCase.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatus(testCase.target), order.Status)
			assert.Equal(t, testCase.wantPayment, order.PaymentStatus)
			assert.True(t, money(testCase.wantBalance).Equal(f.balance(t)), "balance %s", f.balance(t))
		})
	}
}

func TestOrderService_AdminListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "50.00")
	f.fillCart(t)

	svc := service.NewOrderService(f.store, nil, nil, nil)
	placed, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
	require.NoError(t, err)

	orders, err := svc.ListAll(ctx, "preparing")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice", orders[0].CustomerUsername)
	require.NotNil(t, orders[0].ShippingAddress)
	assert.Equal(t, "3号楼", orders[0].ShippingAddress.BuildingName)

	orders, err = svc.ListAll(ctx, "pending")
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = svc.ListAll(ctx, "unknown")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, svc.Delete(ctx, placed.OrderID))
	assert.True(t, apperr.Is(svc.Delete(ctx, placed.OrderID), apperr.KindNotFound))
}

func TestOrderService_SnapshotSurvivesPriceEdit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "50.00")
	f.fillCart(t)

	svc := service.NewOrderService(f.store, nil, nil, nil)
	placed, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
	require.NoError(t, err)

	newPrice := money("99.00")
	_, err = service.NewCatalogService(f.store, nil).UpdateDish(ctx, f.dish.ID, domain.DishInput{Price: &newPrice})
	require.NoError(t, err)

	order, err := svc.Detail(ctx, f.user.ID, placed.OrderID)
	require.NoError(t, err)
	assert.True(t, money("45.00").Equal(order.TotalAmount), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, f.dish.ID, order.Items[0].ItemID)
	assert.True(t, money("10.00").Equal(order.Items[0].UnitPrice), "unit price %s", order.Items[0].UnitPrice)
	assert.True(t, money("20.00").Equal(order.Items[0].SubTotal))

	hot, err := service.NewStatisticsService(f.store, nil, time.UTC).HotItems(ctx, domain.ItemTypeDish, 10)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.Equal(t, 2, hot[0].TotalQuantitySold)
	assert.True(t, money("99.00").Equal(hot[0].UnitPrice), "ranking shows the current price")
	assert.True(t, money("20.00").Equal(hot[0].TotalRevenue), "revenue %s", hot[0].TotalRevenue)
}

func TestOrderService_InvalidatesStatsWithoutPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("no publisher", func(t *testing.T) {
		f := newFixture(t, "50.00")
		f.fillCart(t)

		cache := mocks.NewStatsCache(t)
		cache.On("Invalidate", mock.Anything).Return(nil).Once()
		cache.On("Invalidate", mock.Anything).Return(errors.New("redis down")).Once()

		svc := service.NewOrderService(f.store, nil, nil, nil).WithStatsCache(cache)
		placed, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
		require.NoError(t, err)
		assert.NoError(t, svc.Delete(ctx, placed.OrderID))
	})

	t.Run("publisher wired", func(t *testing.T) {
		f := newFixture(t, "50.00")
		f.fillCart(t)

		publisher := mocks.NewEventPublisher(t)
		publisher.On("PublishOrderEvent", mock.Anything, eventOfType(domain.EventOrderCreated)).Return(nil).Once()
		cache := mocks.NewStatsCache(t)

		svc := service.NewOrderService(f.store, nil, publisher, nil).WithStatsCache(cache)
		_, err := svc.Create(ctx, f.user.ID, domain.CreateOrder{AddressID: f.address.ID, PaymentMethod: "balance"})
		require.NoError(t, err)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})
}
