package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		category    TEXT NOT NULL DEFAULT 'Other',
		in_stock    INT NOT NULL DEFAULT 0 CHECK (in_stock >= 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           BIGSERIAL PRIMARY KEY,
		client_name  TEXT NOT NULL,
		client_email TEXT NOT NULL,
		client_phone TEXT NOT NULL DEFAULT '',
		total_amount DOUBLE PRECISION NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity   INT NOT NULL CHECK (quantity >= 1),
		price      DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
}

// Migrate creates the store tables if they do not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type seedProduct struct {
	name, description, category string
	price                       float64
	inStock                     int
}

var seedProducts = []seedProduct{
	{"Samsung Galaxy smartphone", `6.5" display smartphone`, "Smartphones", 25000, 15},
	{"ASUS laptop", `15.6" laptop, Intel Core i5`, "Laptops", 45000, 8},
	{"Sony headphones", "Wireless headphones", "Accessories", 5000, 25},
	{"iPad tablet", `10.2" tablet`, "Tablets", 30000, 12},
	{"Logitech mouse", "Wireless mouse", "Accessories", 1500, 30},
}

// Seed inserts the demo catalog, but only into an empty products table.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, p := range seedProducts {
		_, err := db.Exec(ctx, `
			INSERT INTO products (name, description, price, category, in_stock)
			VALUES ($1, $2, $3, $4, $5)`,
			p.name, p.description, p.price, p.category, p.inStock)
		if err != nil {
			return err
		}
	}
	return nil
}
