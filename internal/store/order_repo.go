package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo struct{ DB *pgxpool.Pool }

// PlaceOrderInput is the create-order payload.
type PlaceOrderInput struct {
	ClientName  string      `json:"clientName"`
	ClientEmail string      `json:"clientEmail"`
	ClientPhone string      `json:"clientPhone"`
	Items       []ItemInput `json:"items"`
}

// Place validates the requested items against current stock and commits the
// order, its line items, and the stock decrements in one transaction.
//
// Each distinct product row is locked with FOR UPDATE before its stock is
// checked, so two concurrent placements cannot both pass validation against
// the same stale stock figure. Quantities are aggregated per product id
// before the check: repeated lines for one product must fit the stock
// together, not individually. Any failure leaves the catalog and the order
// ledger untouched.
func (r *OrderRepo) Place(ctx context.Context, in PlaceOrderInput) (orderID int64, total float64, err error) {
	if in.ClientName == "" || in.ClientEmail == "" {
		return 0, 0, &ValidationError{Reason: "clientName and clientEmail are required"}
	}
	if err := ValidateItems(in.Items); err != nil {
		return 0, 0, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock and validate per distinct product, in request order.
	prices := make(map[int64]float64)
	for _, it := range AggregateItems(in.Items) {
		var price float64
		var stock int
		err := tx.QueryRow(ctx, `SELECT price, in_stock FROM products WHERE id = $1 FOR UPDATE`,
			it.ProductID).Scan(&price, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, &ProductNotFoundError{ProductID: it.ProductID}
		}
		if err != nil {
			return 0, 0, err
		}
		if stock < it.Quantity {
			return 0, 0, &InsufficientStockError{
				ProductID: it.ProductID,
				Requested: it.Quantity,
				Available: stock,
			}
		}
		prices[it.ProductID] = price
		total += price * float64(it.Quantity)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (client_name, client_email, client_phone, total_amount, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id`,
		in.ClientName, in.ClientEmail, in.ClientPhone, total).Scan(&orderID)
	if err != nil {
		return 0, 0, err
	}

	// One order_items row per requested line, with the price snapshotted
	// at placement time.
	for _, it := range in.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			orderID, it.ProductID, it.Quantity, prices[it.ProductID])
		if err != nil {
			return 0, 0, err
		}
	}

	for _, it := range AggregateItems(in.Items) {
		_, err = tx.Exec(ctx, `UPDATE products SET in_stock = in_stock - $2 WHERE id = $1`,
			it.ProductID, it.Quantity)
		if err != nil {
			return 0, 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return orderID, total, nil
}

// List returns all orders newest-first, each with a flattened
// "productId:quantity:price" summary of its items.
func (r *OrderRepo) List(ctx context.Context) ([]OrderSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.client_name, o.client_email, o.client_phone,
		       o.total_amount, o.status, o.created_at,
		       COALESCE(string_agg(oi.product_id || ':' || oi.quantity || ':' || oi.price, ','), '')
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderSummary{}
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.ID, &s.ClientName, &s.ClientEmail, &s.ClientPhone,
			&s.TotalAmount, &s.Status, &s.CreatedAt, &s.Items); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns one order with its items, each resolved to the product's
// current name. Item prices stay as snapshotted at placement time.
func (r *OrderRepo) Get(ctx context.Context, id int64) (OrderDetail, error) {
	var d OrderDetail
	err := r.DB.QueryRow(ctx, `
		SELECT id, client_name, client_email, client_phone, total_amount, status, created_at
		FROM orders WHERE id = $1`, id).
		Scan(&d.ID, &d.ClientName, &d.ClientEmail, &d.ClientPhone,
			&d.TotalAmount, &d.Status, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return OrderDetail{}, ErrNotFound
	}
	if err != nil {
		return OrderDetail{}, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, id)
	if err != nil {
		return OrderDetail{}, err
	}
	defer rows.Close()

	d.Items = []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return OrderDetail{}, err
		}
		d.Items = append(d.Items, it)
	}
	return d, rows.Err()
}
