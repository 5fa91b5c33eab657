package storage

import (
	"context"

	"kungfu-delivery/internal/domain"
)

const cartSelect = `
	SELECT id, user_id, item_type, item_id, quantity, selected_flavors, flavor_key, created_at, updated_at
	FROM cart_items`

func scanCartLine(row rowScanner) (*domain.CartLine, error) {
	var l domain.CartLine
	var flavors []byte
	if err := row.Scan(&l.ID, &l.UserID, &l.ItemType, &l.ItemID, &l.Quantity, &flavors,
		&l.FlavorKey, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Flavors = decodeStrings(flavors)
	return &l, nil
}

func (s *PostgresStore) ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error) {
	return listCartLines(ctx, s.DB, userID)
}

func listCartLines(ctx context.Context, q querier, userID int) ([]domain.CartLine, error) {
	rows, err := q.QueryContext(ctx, cartSelect+" WHERE user_id = $1 ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}

func (s *PostgresStore) GetCartLine(ctx context.Context, userID, lineID int) (*domain.CartLine, error) {
	l, err := scanCartLine(s.DB.QueryRowContext(ctx, cartSelect+" WHERE id = $1 AND user_id = $2", lineID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (s *PostgresStore) FindCartLine(ctx context.Context, userID int, ref domain.ItemRef, flavorKey string) (*domain.CartLine, error) {
	l, err := scanCartLine(s.DB.QueryRowContext(ctx,
		cartSelect+" WHERE user_id = $1 AND item_type = $2 AND item_id = $3 AND flavor_key = $4",
		userID, ref.ItemType, ref.ItemID, flavorKey))
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (s *PostgresStore) UpsertCartLine(ctx context.Context, l *domain.CartLine) error {
	return s.DB.QueryRowContext(ctx, `
		INSERT INTO cart_items (user_id, item_type, item_id, quantity, selected_flavors, flavor_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, item_type, item_id, flavor_key)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at`,
		l.UserID, l.ItemType, l.ItemID, l.Quantity, encodeStrings(l.Flavors), l.FlavorKey).
		Scan(&l.ID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
}

func (s *PostgresStore) UpdateCartLine(ctx context.Context, l *domain.CartLine) error {
	err := s.DB.QueryRowContext(ctx, `
		UPDATE cart_items SET quantity = $1, selected_flavors = $2, flavor_key = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5 RETURNING updated_at`,
		l.Quantity, encodeStrings(l.Flavors), l.FlavorKey, l.ID, l.UserID).
		Scan(&l.UpdatedAt)
	return notFound(err)
}

func (s *PostgresStore) DeleteCartLine(ctx context.Context, userID, lineID int) (int64, error) {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1 AND user_id = $2", lineID, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *PostgresStore) ClearCart(ctx context.Context, userID int) error {
	return clearCart(ctx, s.DB, userID)
}

func clearCart(ctx context.Context, q querier, userID int) error {
	_, err := q.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}
