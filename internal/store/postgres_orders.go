package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateOrder inserts the order row and its line items atomically.
func (s *Postgres) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	var created domain.Order

	err := s.WithinTx(ctx, func(tx Store) error {
		pg := tx.(*Postgres)

		err := pg.db.QueryRow(ctx,
			`INSERT INTO orders (customer_id, total, paid, status)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			o.CustomerID, decimalToNumeric(o.Total), decimalToNumeric(o.Paid), o.Status,
		).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("insert order: %w", ErrNotFound)
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for i, item := range o.Items {
			_, err := pg.db.Exec(ctx,
				`INSERT INTO order_items (order_id, service_id, position, service_name, quantity, unit_price, subtotal)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				o.ID, item.ServiceID, i, item.ServiceName,
				decimalToNumeric(item.Quantity), decimalToNumeric(item.UnitPrice), decimalToNumeric(item.Subtotal))
			if err != nil {
				return fmt.Errorf("insert order item[%d]: %w", i, err)
			}
		}

		created, err = pg.GetOrder(ctx, o.ID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (s *Postgres) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row := s.db.QueryRow(ctx,
		`SELECT o.id, o.customer_id, c.name, o.total, o.paid, o.status, o.created_at
		 FROM orders o
		 JOIN customers c ON c.id = o.customer_id
		 WHERE o.id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("get order: %w", ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	items, err := s.listOrderItems(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

// ListOrders returns orders most-recent-first. Line items are not loaded;
// callers needing them fetch the order individually.
func (s *Postgres) ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	var status pgtype.Text
	if f.Status != "" {
		status = pgtype.Text{String: f.Status, Valid: true}
	}

	rows, err := s.db.Query(ctx,
		`SELECT o.id, o.customer_id, c.name, o.total, o.paid, o.status, o.created_at
		 FROM orders o
		 JOIN customers c ON c.id = o.customer_id
		 WHERE $1::text IS NULL OR o.status = $1
		 ORDER BY o.created_at DESC
		 LIMIT $2 OFFSET $3`,
		status, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Postgres) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (domain.Order, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Order{}, fmt.Errorf("update order status: %w", ErrNotFound)
	}
	return s.GetOrder(ctx, id)
}

// ApplyPayment persists the recomputed paid balance and status in a
// single statement.
func (s *Postgres) ApplyPayment(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status string) (domain.Order, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE orders SET paid = $2, status = $3 WHERE id = $1`,
		id, decimalToNumeric(paid), status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("apply payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Order{}, fmt.Errorf("apply payment: %w", ErrNotFound)
	}
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes the order's payments, its line items, and the order
// row in one transaction so a partial failure never strands payment rows.
func (s *Postgres) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.WithinTx(ctx, func(tx Store) error {
		pg := tx.(*Postgres)

		if _, err := pg.db.Exec(ctx, `DELETE FROM payments WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("delete payments: %w", err)
		}
		if _, err := pg.db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}

		tag, err := pg.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("delete order: %w", ErrNotFound)
		}
		return nil
	})
}

func (s *Postgres) CountOrdersByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (s *Postgres) listOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.LineItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT service_id, service_name, quantity, unit_price, subtotal
		 FROM order_items WHERE order_id = $1
		 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		var (
			item                      domain.LineItem
			qty, unitPrice, subtotal pgtype.Numeric
		)
		if err := rows.Scan(&item.ServiceID, &item.ServiceName, &qty, &unitPrice, &subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.Quantity = numericToDecimal(qty)
		item.UnitPrice = numericToDecimal(unitPrice)
		item.Subtotal = numericToDecimal(subtotal)
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o           domain.Order
		total, paid pgtype.Numeric
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &total, &paid, &o.Status, &o.CreatedAt); err != nil {
		return domain.Order{}, err
	}
	o.Total = numericToDecimal(total)
	o.Paid = numericToDecimal(paid)
	return o, nil
}
