package orders

import (
	"context"
	"errors"
	"fmt"

	"foodstore/internal/checkout"
	"foodstore/internal/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q   dbx.Querier
	gen *OrderNumberGenerator
}

func NewRepository(q dbx.Querier, gen *OrderNumberGenerator) *Repository {
	if gen == nil {
		panic("orders: OrderNumberGenerator is nil")
	}
	return &Repository{
		q:   q,
		gen: gen,
	}
}

// Create stores the order row and its detail rows in one transaction.
func (r *Repository) Create(ctx context.Context, cashierID int64, req checkout.OrderRequest) (*Order, error) {
	o := NewOrder(cashierID, r.gen.Generate(cashierID), req)

	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO orders (order_number, cashier_id, name, cash, sub_total, tax, total, change)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at`,
			o.OrderNumber, o.CashierID, o.Name, o.Cash, o.SubTotal, o.Tax, o.Total, o.Change,
		).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range o.Details {
			d := &o.Details[i]
			d.OrderID = o.ID
			err := tx.QueryRow(ctx, `
INSERT INTO order_details (order_id, position, name, quantity, price, line_total)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`,
				o.ID, i, d.Name, d.Quantity, d.Price, d.LineTotal,
			).Scan(&d.ID)
			if err != nil {
				return fmt.Errorf("insert order detail %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}

// GetByID returns the order with its details if it belongs to cashierID.
func (r *Repository) GetByID(ctx context.Context, cashierID, orderID int64) (*Order, error) {
	var o Order
	err := r.q.QueryRow(ctx, `
SELECT id, order_number, cashier_id, name, cash, sub_total, tax, total, change, created_at
FROM orders WHERE id=$1 AND cashier_id=$2`, orderID, cashierID).
		Scan(&o.ID, &o.OrderNumber, &o.CashierID, &o.Name, &o.Cash, &o.SubTotal, &o.Tax,
			&o.Total, &o.Change, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
SELECT id, order_id, name, quantity, price, line_total
FROM order_details WHERE order_id=$1 ORDER BY position`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Details = []OrderItem{}
	for rows.Next() {
		var d OrderItem
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Name, &d.Quantity, &d.Price, &d.LineTotal); err != nil {
			return nil, err
		}
		o.Details = append(o.Details, d)
	}

	return &o, rows.Err()
}

// ListByCashier returns one page of the cashier's orders, newest first, and
// the total number of orders they have.
func (r *Repository) ListByCashier(ctx context.Context, cashierID int64, limit, offset int) ([]Order, int, error) {
	rows, err := r.q.Query(ctx, `
SELECT id, order_number, cashier_id, name, cash, sub_total, tax, total, change, created_at,
       COUNT(*) OVER() AS total_count
FROM orders
WHERE cashier_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, cashierID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Order{}
	total := 0
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CashierID, &o.Name, &o.Cash, &o.SubTotal,
			&o.Tax, &o.Total, &o.Change, &o.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(out) == 0 && offset > 0 {
		if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE cashier_id=$1`, cashierID).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	return out, total, nil
}
