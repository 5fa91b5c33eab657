package storage

import (
	"context"
	"fmt"
)

// DefaultCanteens are seeded on every schema run and never duplicated.
var DefaultCanteens = []string{"学子楼", "学士楼", "学苑楼", "紫丁香餐厅", "回味斋"}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'customer',
		phone_number TEXT,
		email TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		gender TEXT,
		birth_date TEXT,
		bio TEXT,
		food_tags JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS canteens (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS dishes (
		id SERIAL PRIMARY KEY,
		category_id INT NOT NULL REFERENCES categories(id),
		canteen_id INT REFERENCES canteens(id),
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		image_url TEXT,
		flavors JSONB NOT NULL DEFAULT '[]',
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS combos (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		image_url TEXT,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS combo_dishes (
		combo_id INT NOT NULL REFERENCES combos(id) ON DELETE CASCADE,
		dish_id INT NOT NULL,
		quantity INT NOT NULL CHECK (quantity >= 1),
		PRIMARY KEY (combo_id, dish_id)
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipient_name TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		building_name TEXT NOT NULL,
		room_details TEXT NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item_type TEXT NOT NULL CHECK (item_type IN ('dish', 'combo')),
		item_id INT NOT NULL,
		quantity INT NOT NULL CHECK (quantity >= 1),
		selected_flavors JSONB NOT NULL DEFAULT '[]',
		flavor_key TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, item_type, item_id, flavor_key)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		address_id INT,
		total_amount NUMERIC(12,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_status TEXT NOT NULL DEFAULT 'unpaid',
		payment_method TEXT NOT NULL,
		remark TEXT,
		qr_code BYTEA,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		item_type TEXT NOT NULL,
		item_id INT NOT NULL,
		item_name TEXT NOT NULL,
		quantity INT NOT NULL,
		unit_price NUMERIC(10,2) NOT NULL,
		sub_total NUMERIC(12,2) NOT NULL,
		selected_flavors JSONB NOT NULL DEFAULT '[]'
	)`,
	"CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS orders_paid_created_idx ON orders (created_at) WHERE payment_status = 'paid'",
	"CREATE INDEX IF NOT EXISTS order_items_item_idx ON order_items (item_type, item_id)",
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	for _, name := range DefaultCanteens {
		if _, err := s.DB.ExecContext(ctx,
			"INSERT INTO canteens (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
			return fmt.Errorf("seed canteen %q: %w", name, err)
		}
	}
	return nil
}
