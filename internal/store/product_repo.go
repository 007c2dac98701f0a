package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo struct{ DB *pgxpool.Pool }

// NewProductInput is the create-product payload. Name and a positive price
// are required; the rest falls back to defaults.
type NewProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     int     `json:"inStock"`
}

func (r *ProductRepo) List(ctx context.Context, category string) ([]Product, error) {
	q := `SELECT id, name, description, price, category, in_stock, created_at FROM products`
	args := []any{}
	if category != "" {
		q += ` WHERE category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY id`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.InStock, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, description, price, category, in_stock, created_at
		FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.InStock, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, in NewProductInput) (int64, error) {
	if in.Name == "" || in.Price <= 0 {
		return 0, &ValidationError{Reason: "name and price are required"}
	}
	if in.Category == "" {
		in.Category = "Other"
	}
	if in.InStock < 0 {
		in.InStock = 0
	}
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category, in_stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		in.Name, in.Description, in.Price, in.Category, in.InStock).Scan(&id)
	return id, err
}

// Categories returns the distinct non-empty product categories.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT DISTINCT category FROM products
		WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
