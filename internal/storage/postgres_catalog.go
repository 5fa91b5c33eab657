package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kungfu-delivery/internal/domain"

	"github.com/lib/pq"
)

func (s *PostgresStore) ListCategories(ctx context.Context, enabledOnly bool) ([]domain.Category, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), is_enabled, created_at, updated_at
		FROM categories`
	if enabledOnly {
		query += " WHERE is_enabled"
	}
	query += " ORDER BY id"

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsEnabled, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	var c domain.Category
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), is_enabled, created_at, updated_at
		FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.IsEnabled, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := s.DB.QueryRowContext(ctx,
		"INSERT INTO categories (name, description, is_enabled) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at",
		c.Name, c.Description, c.IsEnabled).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, c *domain.Category) error {
	err := s.DB.QueryRowContext(ctx, `
		UPDATE categories SET name = $1, description = $2, is_enabled = $3, updated_at = NOW()
		WHERE id = $4 RETURNING updated_at`,
		c.Name, c.Description, c.IsEnabled, c.ID).
		Scan(&c.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return notFound(err)
}

func (s *PostgresStore) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, name, is_enabled, created_at FROM canteens WHERE is_enabled ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	canteens := []domain.Canteen{}
	for rows.Next() {
		var c domain.Canteen
		if err := rows.Scan(&c.ID, &c.Name, &c.IsEnabled, &c.CreatedAt); err != nil {
			return nil, err
		}
		canteens = append(canteens, c)
	}
	return canteens, rows.Err()
}

const dishSelect = `
	SELECT d.id, d.category_id, d.canteen_id, d.name, COALESCE(d.description, ''), d.price,
	       COALESCE(d.image_url, ''), d.flavors, d.is_available,
	       COALESCE(c.name, ''), COALESCE(t.name, ''), d.created_at, d.updated_at
	FROM dishes d
	LEFT JOIN categories c ON c.id = d.category_id
	LEFT JOIN canteens t ON t.id = d.canteen_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDish(row rowScanner) (*domain.Dish, error) {
	var d domain.Dish
	var canteenID sql.NullInt64
	var flavors []byte
	if err := row.Scan(&d.ID, &d.CategoryID, &canteenID, &d.Name, &d.Description, &d.Price,
		&d.ImageURL, &flavors, &d.IsAvailable, &d.CategoryName, &d.CanteenName,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if canteenID.Valid {
		id := int(canteenID.Int64)
		d.CanteenID = &id
	}
	d.Flavors = decodeStrings(flavors)
	return &d, nil
}

func (s *PostgresStore) ListDishes(ctx context.Context, filter domain.DishFilter) ([]domain.Dish, error) {
	var where []string
	var args []any
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("d.category_id = $%d", len(args)))
	}
	if filter.CanteenID > 0 {
		args = append(args, filter.CanteenID)
		where = append(where, fmt.Sprintf("d.canteen_id = $%d", len(args)))
	}
	if filter.AvailableOnly {
		where = append(where, "d.is_available")
	}

	query := dishSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY d.id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

func (s *PostgresStore) GetDish(ctx context.Context, id int) (*domain.Dish, error) {
	d, err := scanDish(s.DB.QueryRowContext(ctx, dishSelect+" WHERE d.id = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *PostgresStore) CreateDish(ctx context.Context, d *domain.Dish) error {
	return s.DB.QueryRowContext(ctx, `
		INSERT INTO dishes (category_id, canteen_id, name, description, price, image_url, flavors, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		d.CategoryID, d.CanteenID, d.Name, d.Description, d.Price, d.ImageURL, encodeStrings(d.Flavors), d.IsAvailable).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (s *PostgresStore) UpdateDish(ctx context.Context, d *domain.Dish) error {
	err := s.DB.QueryRowContext(ctx, `
		UPDATE dishes
		SET category_id = $1, canteen_id = $2, name = $3, description = $4, price = $5,
		    image_url = $6, flavors = $7, is_available = $8, updated_at = NOW()
		WHERE id = $9 RETURNING updated_at`,
		d.CategoryID, d.CanteenID, d.Name, d.Description, d.Price, d.ImageURL,
		encodeStrings(d.Flavors), d.IsAvailable, d.ID).
		Scan(&d.UpdatedAt)
	return notFound(err)
}

func (s *PostgresStore) DeleteDish(ctx context.Context, id int) (int64, error) {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM dishes WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *PostgresStore) DishInCombos(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM combo_dishes WHERE dish_id = $1)", id).Scan(&exists)
	return exists, err
}

const comboSelect = `
	SELECT id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), is_enabled, created_at, updated_at
	FROM combos`

func scanCombo(row rowScanner) (*domain.Combo, error) {
	var c domain.Combo
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.ImageURL, &c.IsEnabled,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Dishes = []domain.ComboDish{}
	return &c, nil
}

func (s *PostgresStore) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	rows, err := s.DB.QueryContext(ctx, comboSelect+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	combos := []domain.Combo{}
	var ids []int64
	for rows.Next() {
		c, err := scanCombo(rows)
		if err != nil {
			return nil, err
		}
		combos = append(combos, *c)
		ids = append(ids, int64(c.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(combos) == 0 {
		return combos, nil
	}

	byCombo, err := s.comboDishes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range combos {
		if dishes, ok := byCombo[combos[i].ID]; ok {
			combos[i].Dishes = dishes
		}
	}
	return combos, nil
}

func (s *PostgresStore) GetCombo(ctx context.Context, id int) (*domain.Combo, error) {
	c, err := scanCombo(s.DB.QueryRowContext(ctx, comboSelect+" WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	byCombo, err := s.comboDishes(ctx, []int64{int64(id)})
	if err != nil {
		return nil, err
	}
	if dishes, ok := byCombo[id]; ok {
		c.Dishes = dishes
	}
	return c, nil
}

// comboDishes loads constituents for the given combos. Dishes that no longer
// exist come back with Missing set.
func (s *PostgresStore) comboDishes(ctx context.Context, comboIDs []int64) (map[int][]domain.ComboDish, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT cd.combo_id, cd.dish_id, cd.quantity, d.id IS NULL,
		       COALESCE(d.name, ''), COALESCE(d.price, 0), COALESCE(d.image_url, ''), COALESCE(d.is_available, FALSE)
		FROM combo_dishes cd
		LEFT JOIN dishes d ON d.id = cd.dish_id
		WHERE cd.combo_id = ANY($1)
		ORDER BY cd.combo_id, cd.dish_id`, pq.Int64Array(comboIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]domain.ComboDish{}
	for rows.Next() {
		var comboID int
		var cd domain.ComboDish
		if err := rows.Scan(&comboID, &cd.DishID, &cd.Quantity, &cd.Missing,
			&cd.Name, &cd.Price, &cd.ImageURL, &cd.IsAvailable); err != nil {
			return nil, err
		}
		out[comboID] = append(out[comboID], cd)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ComboNameTaken(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM combos WHERE name = $1 AND id <> $2)", name, excludeID).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) CreateCombo(ctx context.Context, c *domain.Combo) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO combos (name, description, price, image_url, is_enabled)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.Price, c.ImageURL, c.IsEnabled).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if err := insertComboDishes(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) UpdateCombo(ctx context.Context, c *domain.Combo) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE combos SET name = $1, description = $2, price = $3, image_url = $4, is_enabled = $5, updated_at = NOW()
		WHERE id = $6 RETURNING updated_at`,
		c.Name, c.Description, c.Price, c.ImageURL, c.IsEnabled, c.ID).
		Scan(&c.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return notFound(err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM combo_dishes WHERE combo_id = $1", c.ID); err != nil {
		return err
	}
	if err := insertComboDishes(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func insertComboDishes(ctx context.Context, q querier, c *domain.Combo) error {
	for _, d := range c.Dishes {
		if _, err := q.ExecContext(ctx,
			"INSERT INTO combo_dishes (combo_id, dish_id, quantity) VALUES ($1, $2, $3)",
			c.ID, d.DishID, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) DeleteCombo(ctx context.Context, id int) (int64, error) {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM combos WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
