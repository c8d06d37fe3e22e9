package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *Postgres) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO payments (order_id, amount, method)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.OrderID, decimalToNumeric(p.Amount), p.Method,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Payment{}, fmt.Errorf("create payment: %w", ErrNotFound)
		}
		return domain.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

func (s *Postgres) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.queryPayments(ctx,
		`SELECT id, order_id, amount, method, created_at
		 FROM payments ORDER BY created_at DESC`)
}

func (s *Postgres) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error) {
	return s.queryPayments(ctx,
		`SELECT id, order_id, amount, method, created_at
		 FROM payments WHERE order_id = $1 ORDER BY created_at DESC`, orderID)
}

func (s *Postgres) SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE order_id = $1`, orderID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return numericToDecimal(sum), nil
}

func (s *Postgres) queryPayments(ctx context.Context, sql string, args ...any) ([]domain.Payment, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var (
		p      domain.Payment
		amount pgtype.Numeric
	)
	if err := row.Scan(&p.ID, &p.OrderID, &amount, &p.Method, &p.CreatedAt); err != nil {
		return domain.Payment{}, err
	}
	p.Amount = numericToDecimal(amount)
	return p, nil
}

// --- Reports ---

func (s *Postgres) GetSummary(ctx context.Context) (Summary, error) {
	summary := Summary{
		OrdersByStatus: map[string]int64{},
		TotalBilled:    decimal.Zero,
		TotalCollected: decimal.Zero,
		Outstanding:    decimal.Zero,
	}

	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("summary statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("summary statuses: %w", err)
		}
		summary.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("summary statuses: %w", err)
	}

	var billed, collected, outstanding pgtype.Numeric
	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0),
		        COALESCE(SUM(paid), 0),
		        COALESCE(SUM(GREATEST(total - paid, 0)) FILTER (WHERE status <> 'CANCELLED'), 0)
		 FROM orders`,
	).Scan(&billed, &collected, &outstanding)
	if err != nil {
		return Summary{}, fmt.Errorf("summary totals: %w", err)
	}

	summary.TotalBilled = numericToDecimal(billed)
	summary.TotalCollected = numericToDecimal(collected)
	summary.Outstanding = numericToDecimal(outstanding)
	return summary, nil
}
