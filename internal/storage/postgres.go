package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/lib/pq"
)

// PostgresStore is the relational adapter for every repository the services use.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx so reads can be shared by
// the plain store and the order unit of work.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(values)
	return string(b)
}

func decodeStrings(raw []byte) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

func (s *PostgresStore) ResolveItem(ctx context.Context, ref domain.ItemRef) (*domain.CatalogItem, error) {
	return resolveItem(ctx, s.DB, ref)
}

// resolveItem reads the live price and availability of a dish or combo. A
// combo is available only when it is enabled and all its dishes exist and
// are available.
func resolveItem(ctx context.Context, q querier, ref domain.ItemRef) (*domain.CatalogItem, error) {
	item := &domain.CatalogItem{ItemRef: ref}
	switch ref.ItemType {
	case domain.ItemTypeDish:
		err := q.QueryRowContext(ctx, `
			SELECT name, price, COALESCE(image_url, ''), is_available
			FROM dishes WHERE id = $1`, ref.ItemID).
			Scan(&item.Name, &item.Price, &item.ImageURL, &item.Available)
		if err != nil {
			return nil, notFound(err)
		}
	case domain.ItemTypeCombo:
		var enabled bool
		var total, available int
		err := q.QueryRowContext(ctx, `
			SELECT c.name, c.price, COALESCE(c.image_url, ''), c.is_enabled,
			       COUNT(cd.dish_id), COUNT(d.id) FILTER (WHERE d.is_available)
			FROM combos c
			LEFT JOIN combo_dishes cd ON cd.combo_id = c.id
			LEFT JOIN dishes d ON d.id = cd.dish_id
			WHERE c.id = $1
			GROUP BY c.id`, ref.ItemID).
			Scan(&item.Name, &item.Price, &item.ImageURL, &enabled, &total, &available)
		if err != nil {
			return nil, notFound(err)
		}
		item.Available = enabled && total > 0 && available == total
	default:
		return nil, domain.ErrNotFound
	}
	return item, nil
}

var _ service.Store = (*PostgresStore)(nil)
