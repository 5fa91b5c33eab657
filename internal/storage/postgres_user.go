package storage

import (
	"context"

	"kungfu-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

const userSelect = `
	SELECT id, username, password_hash, role, COALESCE(phone_number, ''), COALESCE(email, ''), is_active,
	       balance, COALESCE(gender, ''), COALESCE(birth_date, ''), COALESCE(bio, ''), food_tags, created_at, updated_at
	FROM users`

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var tags []byte
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.PhoneNumber, &u.Email,
		&u.IsActive, &u.Balance, &u.Gender, &u.BirthDate, &u.Bio, &tags, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.FoodTags = decodeStrings(tags)
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, role, phone_number, email, is_active, balance, food_tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		u.Username, u.PasswordHash, u.Role, u.PhoneNumber, u.Email, u.IsActive, u.Balance, encodeStrings(u.FoodTags)).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (s *PostgresStore) GetUser(ctx context.Context, id int) (*domain.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx, userSelect+" WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx, userSelect+" WHERE username = $1", username))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, u *domain.User) error {
	err := s.DB.QueryRowContext(ctx, `
		UPDATE users SET phone_number = $1, email = $2, gender = $3, birth_date = $4, bio = $5, food_tags = $6, updated_at = NOW()
		WHERE id = $7 RETURNING updated_at`,
		u.PhoneNumber, u.Email, u.Gender, u.BirthDate, u.Bio, encodeStrings(u.FoodTags), u.ID).
		Scan(&u.UpdatedAt)
	return notFound(err)
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, id int, hash string) error {
	result, err := s.DB.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2", hash, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreditBalance(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	return creditBalance(ctx, s.DB, id, amount)
}

func creditBalance(ctx context.Context, q querier, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRowContext(ctx,
		"UPDATE users SET balance = balance + $1, updated_at = NOW() WHERE id = $2 RETURNING balance",
		amount, id).Scan(&balance)
	if err != nil {
		return decimal.Zero, notFound(err)
	}
	return balance, nil
}
