package storage

import (
	"context"
	"fmt"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/lib/pq"
)

var catalogTables = map[domain.ItemType]struct {
	table     string
	available string
}{
	domain.ItemTypeDish:  {table: "dishes", available: "is_available"},
	domain.ItemTypeCombo: {table: "combos", available: "is_enabled"},
}

var inFlightStatuses = []string{
	string(domain.StatusPending), string(domain.StatusConfirmed),
	string(domain.StatusPreparing), string(domain.StatusDelivering),
}

func (s *PostgresStore) PaidOrderLines(ctx context.Context, kind domain.ItemType) ([]domain.SoldLine, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown item type %q", kind)
	}
	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT oi.item_type, oi.item_id, COALESCE(c.name, oi.item_name), oi.quantity, COALESCE(c.price, 0), oi.sub_total
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN %s c ON c.id = oi.item_id
		WHERE o.payment_status = 'paid' AND oi.item_type = $1
		ORDER BY oi.id`, t.table), kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.SoldLine{}
	for rows.Next() {
		var l domain.SoldLine
		if err := rows.Scan(&l.ItemType, &l.ItemID, &l.ItemName, &l.Quantity, &l.UnitPrice, &l.SubTotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *PostgresStore) PaidOrders(ctx context.Context, from, to time.Time) ([]domain.PaidOrder, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, total_amount, status, created_at
		FROM orders
		WHERE payment_status = 'paid' AND created_at >= $1 AND created_at < $2
		ORDER BY created_at, id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.PaidOrder{}
	for rows.Next() {
		var o domain.PaidOrder
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) CountPaidInFlight(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE payment_status = 'paid' AND status = ANY($1)",
		pq.Array(inFlightStatuses)).Scan(&n)
	return n, err
}

func (s *PostgresStore) CatalogCounts(ctx context.Context) (service.CatalogCounts, error) {
	var c service.CatalogCounts
	err := s.DB.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM dishes WHERE is_available),
		       (SELECT COUNT(*) FROM combos WHERE is_enabled),
		       (SELECT COUNT(*) FROM categories WHERE is_enabled)`).
		Scan(&c.AvailableDishes, &c.EnabledCombos, &c.EnabledCategories)
	return c, err
}

func (s *PostgresStore) RecentPaidItems(ctx context.Context, userID, orders int) ([]service.HistoryItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT oi.item_name, oi.quantity, oi.selected_flavors
		FROM order_items oi
		WHERE oi.order_id IN (
			SELECT id FROM orders
			WHERE user_id = $1 AND payment_status = 'paid'
			ORDER BY created_at DESC
			LIMIT $2
		)
		ORDER BY oi.id`, userID, orders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []service.HistoryItem{}
	for rows.Next() {
		var h service.HistoryItem
		var flavors []byte
		if err := rows.Scan(&h.Name, &h.Quantity, &flavors); err != nil {
			return nil, err
		}
		h.Flavors = decodeStrings(flavors)
		items = append(items, h)
	}
	return items, rows.Err()
}

func (s *PostgresStore) AvailableItemNames(ctx context.Context, kind domain.ItemType) ([]string, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown item type %q", kind)
	}
	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf("SELECT name FROM %s WHERE %s ORDER BY name", t.table, t.available))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FindAvailableByName returns domain.ErrNotFound unless the named item can be
// ordered right now.
func (s *PostgresStore) FindAvailableByName(ctx context.Context, kind domain.ItemType, name string) (*domain.CatalogItem, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var id int
	err := s.DB.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE name = $1 AND %s ORDER BY id LIMIT 1", t.table, t.available), name).
		Scan(&id)
	if err != nil {
		return nil, notFound(err)
	}

	item, err := resolveItem(ctx, s.DB, domain.ItemRef{ItemType: kind, ItemID: id})
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
