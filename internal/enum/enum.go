package enum

// ── Order status state machine (CHECK constrained in DB) ──
//
// PENDING is the initial state. READY and DELIVERED are manual operator
// transitions. PAID_COMPLETED is reached automatically once cumulative
// payments cover the order total. Manual overrides may move any state to
// any other; only the paid >= total transition is automatic.

const (
	OrderStatusPending       = "PENDING"
	OrderStatusReady         = "READY"
	OrderStatusDelivered     = "DELIVERED"
	OrderStatusPaidCompleted = "PAID_COMPLETED"
	OrderStatusCancelled     = "CANCELLED"
)

// OrderStatusLabels maps stored status values to their display labels.
var OrderStatusLabels = map[string]string{
	OrderStatusPending:       "Pending",
	OrderStatusReady:         "Ready",
	OrderStatusDelivered:     "Delivered",
	OrderStatusPaidCompleted: "Paid & Completed",
	OrderStatusCancelled:     "Cancelled",
}

// IsValidOrderStatus reports whether s is one of the enumerated statuses.
func IsValidOrderStatus(s string) bool {
	_, ok := OrderStatusLabels[s]
	return ok
}

// ── Payment methods (no DB constraint, configurable labels) ──

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
)

// IsValidPaymentMethod reports whether m is one of the accepted methods.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// ── User roles (CHECK constrained in DB) ──

const (
	UserRoleAdmin    = "ADMIN"
	UserRoleOperator = "OPERATOR"
)
