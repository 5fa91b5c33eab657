package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_ResolveCombo(t *testing.T) {
	tests := []struct {
		name          string
		enabled       bool
		total         int
		available     int
		wantAvailable bool
	}{
		{name: "all dishes available", enabled: true, total: 2, available: 2, wantAvailable: true},
		{name: "one dish off sale", enabled: true, total: 2, available: 1},
		{name: "no dishes", enabled: true},
		{name: "disabled", total: 1, available: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store, mock := setupPostgres(t)
			mock.ExpectQuery("FROM combos c").
				WithArgs(3).
				WillReturnRows(sqlmock.NewRows([]string{"name", "price", "image_url", "is_enabled", "total", "available"}).
					AddRow("午餐套餐", "25.00", "", testCase.enabled, testCase.total, testCase.available))

			item, err := store.ResolveItem(context.Background(), domain.ItemRef{ItemType: domain.ItemTypeCombo, ItemID: 3})
			require.NoError(t, err)
			assert.Equal(t, testCase.wantAvailable, item.Available)
			assert.True(t, decimal.RequireFromString("25").Equal(item.Price))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_ResolveMissingDish(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("FROM dishes WHERE id").WithArgs(9).WillReturnError(sql.ErrNoRows)

	_, err := store.ResolveItem(context.Background(), domain.ItemRef{ItemType: domain.ItemTypeDish, ItemID: 9})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateUserDuplicate(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	err := store.CreateUser(context.Background(), &domain.User{Username: "bob", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InTxDebitRollsBack(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET balance = balance - $1")).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.InTx(context.Background(), func(tx service.OrderTx) error {
		return tx.DebitBalance(context.Background(), 1, decimal.NewFromInt(45))
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InTxSettlesPayment(t *testing.T) {
	store, mock := setupPostgres(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "address_id", "total_amount", "status", "payment_status", "payment_method", "remark", "created_at", "updated_at",
		}).AddRow(7, 1, 2, "45.00", "pending", "unpaid", "wechat", "", now, now))
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.StatusConfirmed, domain.PaymentPaid, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.InTx(context.Background(), func(tx service.OrderTx) error {
		order, err := tx.LockOrder(context.Background(), 7)
		if err != nil {
			return err
		}
		assert.Equal(t, domain.StatusPending, order.Status)
		return tx.UpdateOrderState(context.Background(), order.ID, domain.StatusConfirmed, domain.PaymentPaid)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetOrderNotFound(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("FROM orders o").WithArgs(9).WillReturnError(sql.ErrNoRows)

	_, err := store.GetOrder(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_StatsQueries(t *testing.T) {
	ctx := context.Background()
	store, mock := setupPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items oi")).
		WithArgs(domain.ItemTypeDish).
		WillReturnRows(sqlmock.NewRows([]string{"item_type", "item_id", "name", "quantity", "price", "sub_total"}).
			AddRow("dish", 1, "宫保鸡丁", 2, "10.00", "20.00").
			AddRow("dish", 5, "已删除", 1, "0", "9.00"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("FROM dishes WHERE is_available").
		WillReturnRows(sqlmock.NewRows([]string{"dishes", "combos", "categories"}).AddRow(6, 2, 3))

	lines, err := store.PaidOrderLines(ctx, domain.ItemTypeDish)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "宫保鸡丁", lines[0].ItemName)
	assert.True(t, lines[1].UnitPrice.IsZero())

	n, err := store.CountPaidInFlight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	counts, err := store.CatalogCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.CatalogCounts{AvailableDishes: 6, EnabledCombos: 2, EnabledCategories: 3}, counts)

	_, err = store.PaidOrderLines(ctx, "drink")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAddressKeepsDefault(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM addresses WHERE id = $1 AND user_id = $2 AND NOT is_default")).
		WithArgs(3, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE addresses SET is_default").
		WithArgs(1, 3).
		WillReturnError(errors.New("conn reset"))

	rows, err := store.DeleteAddress(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Zero(t, rows)

	_, err = store.SetDefaultAddress(context.Background(), 1, 3)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
