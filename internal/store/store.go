package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by lookups when no row matches. Callers use
// errors.Is rather than comparing driver-specific sentinels.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness or
// referential constraint (duplicate phone, customer still has orders).
var ErrConflict = errors.New("conflict")

// CustomerFilter narrows ListCustomers.
type CustomerFilter struct {
	Search string
	Limit  int
	Offset int
}

// OrderFilter narrows ListOrders. Status empty means all statuses.
type OrderFilter struct {
	Status string
	Limit  int
	Offset int
}

// Summary is the aggregate snapshot backing the reports endpoint.
type Summary struct {
	OrdersByStatus map[string]int64
	TotalBilled    decimal.Decimal
	TotalCollected decimal.Decimal
	Outstanding    decimal.Decimal
}

// Store is the persistence boundary. Two implementations exist: the
// durable Postgres one and an in-memory one for tests. The reconciliation
// logic in internal/service depends only on this interface.
type Store interface {
	// WithinTx runs fn against a transactional view of the store and
	// commits iff fn returns nil. Calls on the view must not escape fn.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	// Users
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// Customers
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	ListCustomers(ctx context.Context, f CustomerFilter) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	// Services (catalog)
	CreateService(ctx context.Context, s domain.Service) (domain.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	UpdateService(ctx context.Context, s domain.Service) (domain.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	// Orders
	CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (domain.Order, error)
	// ApplyPayment sets paid and status in a single statement.
	ApplyPayment(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status string) (domain.Order, error)
	// DeleteOrder removes the order's payments, its line items, and the
	// order row. Implementations guarantee all-or-nothing semantics.
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	CountOrdersByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// Payments
	CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error)
	SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)

	// Reports
	GetSummary(ctx context.Context) (Summary, error)
}
