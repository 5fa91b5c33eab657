package storage

import (
	"context"
	"fmt"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// InTx runs fn inside one database transaction. Any error from fn rolls back
// every write made through the OrderTx, balance debits included.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx service.OrderTx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgOrderTx{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgOrderTx struct {
	q querier
}

func (t *pgOrderTx) ResolveItem(ctx context.Context, ref domain.ItemRef) (*domain.CatalogItem, error) {
	return resolveItem(ctx, t.q, ref)
}

func (t *pgOrderTx) GetAddress(ctx context.Context, userID, id int) (*domain.Address, error) {
	return getAddress(ctx, t.q, userID, id)
}

func (t *pgOrderTx) ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error) {
	return listCartLines(ctx, t.q, userID)
}

func (t *pgOrderTx) ClearCart(ctx context.Context, userID int) error {
	return clearCart(ctx, t.q, userID)
}

// DebitBalance only touches the row when the balance covers the amount, so
// concurrent checkouts can never drive it negative.
func (t *pgOrderTx) DebitBalance(ctx context.Context, userID int, amount decimal.Decimal) error {
	result, err := t.q.ExecContext(ctx,
		"UPDATE users SET balance = balance - $1, updated_at = NOW() WHERE id = $2 AND balance >= $1",
		amount, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (t *pgOrderTx) CreditBalance(ctx context.Context, userID int, amount decimal.Decimal) error {
	_, err := creditBalance(ctx, t.q, userID, amount)
	return err
}

func (t *pgOrderTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	if err := t.q.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, address_id, total_amount, status, payment_status, payment_method, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		o.UserID, o.AddressID, o.TotalAmount, o.Status, o.PaymentStatus, o.PaymentMethod, o.Remark).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		if err := t.q.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, item_type, item_id, item_name, quantity, unit_price, sub_total, selected_flavors)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			o.ID, item.ItemType, item.ItemID, item.ItemName, item.Quantity, item.UnitPrice, item.SubTotal,
			encodeStrings(item.SelectedFlavors)).
			Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgOrderTx) LockOrder(ctx context.Context, id int) (*domain.Order, error) {
	var o domain.Order
	err := t.q.QueryRowContext(ctx, `
		SELECT id, user_id, COALESCE(address_id, 0), total_amount, status, payment_status, payment_method,
		       COALESCE(remark, ''), created_at, updated_at
		FROM orders WHERE id = $1 FOR UPDATE`, id).
		Scan(&o.ID, &o.UserID, &o.AddressID, &o.TotalAmount, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
			&o.Remark, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (t *pgOrderTx) UpdateOrderState(ctx context.Context, id int, status domain.OrderStatus, payment domain.PaymentStatus) error {
	result, err := t.q.ExecContext(ctx,
		"UPDATE orders SET status = $1, payment_status = $2, updated_at = NOW() WHERE id = $3",
		status, payment, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const orderSelect = `
	SELECT o.id, o.user_id, COALESCE(o.address_id, 0), o.total_amount, o.status, o.payment_status,
	       o.payment_method, COALESCE(o.remark, ''), o.created_at, o.updated_at,
	       COALESCE(u.username, ''),
	       COALESCE(a.id, 0), COALESCE(a.recipient_name, ''), COALESCE(a.phone_number, ''),
	       COALESCE(a.building_name, ''), COALESCE(a.room_details, '')
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id
	LEFT JOIN addresses a ON a.id = o.address_id`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var a domain.Address
	if err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&o.PaymentMethod, &o.Remark, &o.CreatedAt, &o.UpdatedAt, &o.CustomerUsername,
		&a.ID, &a.RecipientName, &a.PhoneNumber, &a.BuildingName, &a.RoomDetails); err != nil {
		return nil, err
	}
	if a.ID != 0 {
		a.UserID = o.UserID
		o.ShippingAddress = &a
	}
	o.Items = []domain.OrderLine{}
	return &o, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	o, err := scanOrder(s.DB.QueryRowContext(ctx, orderSelect+" WHERE o.id = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	lines, err := s.orderLines(ctx, []int64{int64(id)})
	if err != nil {
		return nil, err
	}
	if items, ok := lines[id]; ok {
		o.Items = items
	}
	return o, nil
}

func (s *PostgresStore) ListOrdersByUser(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.listOrders(ctx, orderSelect+" WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC", userID)
}

func (s *PostgresStore) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status == "" {
		return s.listOrders(ctx, orderSelect+" ORDER BY o.created_at DESC, o.id DESC")
	}
	return s.listOrders(ctx, orderSelect+" WHERE o.status = $1 ORDER BY o.created_at DESC, o.id DESC", status)
}

func (s *PostgresStore) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, int64(o.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lines, err := s.orderLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if items, ok := lines[orders[i].ID]; ok {
			orders[i].Items = items
		}
	}
	return orders, nil
}

func (s *PostgresStore) orderLines(ctx context.Context, orderIDs []int64) (map[int][]domain.OrderLine, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, order_id, item_type, item_id, item_name, quantity, unit_price, sub_total, selected_flavors
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id`, pq.Int64Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]domain.OrderLine{}
	for rows.Next() {
		var l domain.OrderLine
		var flavors []byte
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemType, &l.ItemID, &l.ItemName, &l.Quantity,
			&l.UnitPrice, &l.SubTotal, &flavors); err != nil {
			return nil, err
		}
		l.SelectedFlavors = decodeStrings(flavors)
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id int) (int64, error) {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *PostgresStore) SaveQRCode(ctx context.Context, id int, qr []byte) error {
	_, err := s.DB.ExecContext(ctx, "UPDATE orders SET qr_code = $1 WHERE id = $2", qr, id)
	return err
}

func (s *PostgresStore) GetQRCode(ctx context.Context, id int) ([]byte, error) {
	var qr []byte
	if err := s.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", id).Scan(&qr); err != nil {
		return nil, notFound(err)
	}
	return qr, nil
}
