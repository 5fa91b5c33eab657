package storage

import (
	"context"

	"kungfu-delivery/internal/domain"
)

const addressSelect = `
	SELECT id, user_id, recipient_name, phone_number, building_name, room_details, is_default, created_at, updated_at
	FROM addresses`

func scanAddress(row rowScanner) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.RecipientName, &a.PhoneNumber, &a.BuildingName,
		&a.RoomDetails, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) ListAddresses(ctx context.Context, userID int) ([]domain.Address, error) {
	rows, err := s.DB.QueryContext(ctx, addressSelect+" WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *a)
	}
	return addresses, rows.Err()
}

func (s *PostgresStore) GetAddress(ctx context.Context, userID, id int) (*domain.Address, error) {
	return getAddress(ctx, s.DB, userID, id)
}

func getAddress(ctx context.Context, q querier, userID, id int) (*domain.Address, error) {
	a, err := scanAddress(q.QueryRowContext(ctx, addressSelect+" WHERE id = $1 AND user_id = $2", id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *PostgresStore) CountAddresses(ctx context.Context, userID int) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM addresses WHERE user_id = $1", userID).Scan(&n)
	return n, err
}

// CreateAddress clears the other defaults with a CTE so the insert and the
// reset are one statement.
func (s *PostgresStore) CreateAddress(ctx context.Context, a *domain.Address) error {
	return s.DB.QueryRowContext(ctx, `
		WITH cleared AS (
			UPDATE addresses SET is_default = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND $6 AND is_default
		)
		INSERT INTO addresses (user_id, recipient_name, phone_number, building_name, room_details, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		a.UserID, a.RecipientName, a.PhoneNumber, a.BuildingName, a.RoomDetails, a.IsDefault).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *PostgresStore) UpdateAddress(ctx context.Context, a *domain.Address) error {
	err := s.DB.QueryRowContext(ctx, `
		UPDATE addresses SET recipient_name = $1, phone_number = $2, building_name = $3, room_details = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6 RETURNING updated_at`,
		a.RecipientName, a.PhoneNumber, a.BuildingName, a.RoomDetails, a.ID, a.UserID).
		Scan(&a.UpdatedAt)
	return notFound(err)
}

func (s *PostgresStore) DeleteAddress(ctx context.Context, userID, id int) (int64, error) {
	result, err := s.DB.ExecContext(ctx,
		"DELETE FROM addresses WHERE id = $1 AND user_id = $2 AND NOT is_default", id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *PostgresStore) SetDefaultAddress(ctx context.Context, userID, id int) (int64, error) {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE addresses SET is_default = (id = $2), updated_at = NOW()
		WHERE user_id = $1 AND EXISTS (SELECT 1 FROM addresses WHERE id = $2 AND user_id = $1)`,
		userID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
