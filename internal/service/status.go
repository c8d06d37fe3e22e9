package service

import (
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// ResolveStatus derives an order's status from its money state. It is the
// only place a status transition happens automatically:
//
//	paid == 0        -> PENDING (a fully refunded order falls back here)
//	paid >= total    -> PAID_COMPLETED
//	0 < paid < total -> current status unchanged
//
// Partial payment never advances an order; READY and DELIVERED are manual
// operator transitions. The function is pure and total: any current value
// is returned as-is in the partial-payment band.
func ResolveStatus(total, paid decimal.Decimal, current string) string {
	if paid.IsZero() || paid.IsNegative() {
		return enum.OrderStatusPending
	}
	if paid.GreaterThanOrEqual(total) {
		return enum.OrderStatusPaidCompleted
	}
	return current
}
