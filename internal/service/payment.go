package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/lavanderia-pos/api/internal/store"
	"github.com/shopspring/decimal"
)

// RecordPaymentResult is a recorded payment with the order it updated.
// Overpaid is a warning, not an error: the payment has been committed.
type RecordPaymentResult struct {
	Payment  domain.Payment
	Order    domain.Order
	Overpaid bool
}

// PaymentService handles payment recording and listing.
type PaymentService struct {
	store store.Store
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(st store.Store) *PaymentService {
	return &PaymentService{store: st}
}

// RecordPayment inserts the payment row and folds it into the order's paid
// total and status in a single transaction. Amounts exceeding the balance
// are accepted and flagged; rejecting them is the caller's decision.
func (s *PaymentService) RecordPayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, method string) (*RecordPaymentResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(2)) {
		return nil, ErrAmountPrecision
	}
	if !enum.IsValidPaymentMethod(method) {
		return nil, ErrInvalidMethod
	}

	var result RecordPaymentResult
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("get order: %w", err)
		}

		payment, err := tx.CreatePayment(ctx, domain.Payment{
			OrderID: orderID,
			Amount:  amount,
			Method:  method,
		})
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		// Recompute paid from the payment rows rather than incrementing
		// the cached balance, so it cannot drift from recorded history.
		paid, err := tx.SumPaymentsByOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}
		status := ResolveStatus(order.Total, paid, order.Status)
		updated, err := tx.ApplyPayment(ctx, orderID, paid, status)
		if err != nil {
			return fmt.Errorf("apply payment: %w", err)
		}

		result = RecordPaymentResult{
			Payment:  payment,
			Order:    updated,
			Overpaid: updated.Paid.GreaterThan(updated.Total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPayments returns every payment, newest first.
func (s *PaymentService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// ListOrderPayments returns one order's payments, newest first. The order
// must exist so a wrong id is distinguishable from an unpaid order.
func (s *PaymentService) ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	payments, err := s.store.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order payments: %w", err)
	}
	return payments, nil
}
