package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Memory is the in-memory Store implementation used by unit tests. Rows
// are kept in insertion order so listings are stable.
type Memory struct {
	mu        sync.RWMutex
	users     []domain.User
	customers []domain.Customer
	services  []domain.Service
	orders    []domain.Order
	payments  []domain.Payment
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// WithinTx runs fn directly. The in-memory store serves single-threaded
// tests, so there is nothing to roll back; partial writes from a failed
// fn are visible, matching what the tests assert against.
func (m *Memory) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

// --- Users ---

func (m *Memory) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := lo.Find(m.users, func(u domain.User) bool { return u.Email == email })
	if !ok {
		return domain.User{}, fmt.Errorf("get user: %w", ErrNotFound)
	}
	return u, nil
}

func (m *Memory) GetUserByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := lo.Find(m.users, func(u domain.User) bool { return u.ID == id })
	if !ok {
		return domain.User{}, fmt.Errorf("get user: %w", ErrNotFound)
	}
	return u, nil
}

func (m *Memory) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lo.ContainsBy(m.users, func(e domain.User) bool { return e.Email == u.Email }) {
		return domain.User{}, fmt.Errorf("create user: %w", ErrConflict)
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	m.users = append(m.users, u)
	return u, nil
}

// --- Customers ---

func (m *Memory) CreateCustomer(_ context.Context, c domain.Customer) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lo.ContainsBy(m.customers, func(e domain.Customer) bool { return e.Phone == c.Phone }) {
		return domain.Customer{}, fmt.Errorf("create customer: %w", ErrConflict)
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.customers = append(m.customers, c)
	return c, nil
}

func (m *Memory) GetCustomer(_ context.Context, id uuid.UUID) (domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := lo.Find(m.customers, func(c domain.Customer) bool { return c.ID == id })
	if !ok {
		return domain.Customer{}, fmt.Errorf("get customer: %w", ErrNotFound)
	}
	return c, nil
}

func (m *Memory) ListCustomers(_ context.Context, f CustomerFilter) ([]domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := lo.Filter(m.customers, func(c domain.Customer, _ int) bool {
		if f.Search == "" {
			return true
		}
		q := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, q)
	})
	return paginate(matched, f.Limit, f.Offset), nil
}

func (m *Memory) UpdateCustomer(_ context.Context, c domain.Customer) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.customers {
		if m.customers[i].ID == c.ID {
			c.CreatedAt = m.customers[i].CreatedAt
			c.UpdatedAt = time.Now()
			m.customers[i] = c
			return c, nil
		}
	}
	return domain.Customer{}, fmt.Errorf("update customer: %w", ErrNotFound)
}

func (m *Memory) DeleteCustomer(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lo.ContainsBy(m.orders, func(o domain.Order) bool { return o.CustomerID == id }) {
		return fmt.Errorf("delete customer: %w", ErrConflict)
	}
	before := len(m.customers)
	m.customers = lo.Reject(m.customers, func(c domain.Customer, _ int) bool { return c.ID == id })
	if len(m.customers) == before {
		return fmt.Errorf("delete customer: %w", ErrNotFound)
	}
	return nil
}

// --- Services ---

func (m *Memory) CreateService(_ context.Context, s domain.Service) (domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	m.services = append(m.services, s)
	return s, nil
}

func (m *Memory) GetService(_ context.Context, id uuid.UUID) (domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := lo.Find(m.services, func(s domain.Service) bool { return s.ID == id })
	if !ok {
		return domain.Service{}, fmt.Errorf("get service: %w", ErrNotFound)
	}
	return s, nil
}

func (m *Memory) ListServices(_ context.Context) ([]domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Service{}, m.services...), nil
}

func (m *Memory) UpdateService(_ context.Context, s domain.Service) (domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.services {
		if m.services[i].ID == s.ID {
			m.services[i] = s
			return s, nil
		}
	}
	return domain.Service{}, fmt.Errorf("update service: %w", ErrNotFound)
}

func (m *Memory) DeleteService(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	referenced := lo.ContainsBy(m.orders, func(o domain.Order) bool {
		return lo.ContainsBy(o.Items, func(it domain.LineItem) bool { return it.ServiceID == id })
	})
	if referenced {
		return fmt.Errorf("delete service: %w", ErrConflict)
	}
	before := len(m.services)
	m.services = lo.Reject(m.services, func(s domain.Service, _ int) bool { return s.ID == id })
	if len(m.services) == before {
		return fmt.Errorf("delete service: %w", ErrNotFound)
	}
	return nil
}

// --- Orders ---

func (m *Memory) CreateOrder(_ context.Context, o domain.Order) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := lo.Find(m.customers, func(c domain.Customer) bool { return c.ID == o.CustomerID })
	if !ok {
		return domain.Order{}, fmt.Errorf("insert order: %w", ErrNotFound)
	}
	o.ID = uuid.New()
	o.CustomerName = c.Name
	o.CreatedAt = time.Now()
	o.Items = append([]domain.LineItem{}, o.Items...)
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *Memory) GetOrder(_ context.Context, id uuid.UUID) (domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := lo.Find(m.orders, func(o domain.Order) bool { return o.ID == id })
	if !ok {
		return domain.Order{}, fmt.Errorf("get order: %w", ErrNotFound)
	}
	return o, nil
}

func (m *Memory) ListOrders(_ context.Context, f OrderFilter) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := lo.Filter(m.orders, func(o domain.Order, _ int) bool {
		return f.Status == "" || o.Status == f.Status
	})
	// most-recent-first
	matched = lo.Reverse(append([]domain.Order{}, matched...))
	return paginate(matched, f.Limit, f.Offset), nil
}

func (m *Memory) UpdateOrderStatus(_ context.Context, id uuid.UUID, status string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return m.orders[i], nil
		}
	}
	return domain.Order{}, fmt.Errorf("update order status: %w", ErrNotFound)
}

func (m *Memory) ApplyPayment(_ context.Context, id uuid.UUID, paid decimal.Decimal, status string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Paid = paid
			m.orders[i].Status = status
			return m.orders[i], nil
		}
	}
	return domain.Order{}, fmt.Errorf("apply payment: %w", ErrNotFound)
}

func (m *Memory) DeleteOrder(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.orders)
	m.orders = lo.Reject(m.orders, func(o domain.Order, _ int) bool { return o.ID == id })
	if len(m.orders) == before {
		return fmt.Errorf("delete order: %w", ErrNotFound)
	}
	m.payments = lo.Reject(m.payments, func(p domain.Payment, _ int) bool { return p.OrderID == id })
	return nil
}

func (m *Memory) CountOrdersByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := lo.CountBy(m.orders, func(o domain.Order) bool { return o.CustomerID == customerID })
	return int64(n), nil
}

// --- Payments ---

func (m *Memory) CreatePayment(_ context.Context, p domain.Payment) (domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !lo.ContainsBy(m.orders, func(o domain.Order) bool { return o.ID == p.OrderID }) {
		return domain.Payment{}, fmt.Errorf("create payment: %w", ErrNotFound)
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.payments = append(m.payments, p)
	return p, nil
}

func (m *Memory) ListPayments(_ context.Context) ([]domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Reverse(append([]domain.Payment{}, m.payments...)), nil
}

func (m *Memory) ListPaymentsByOrder(_ context.Context, orderID uuid.UUID) ([]domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := lo.Filter(m.payments, func(p domain.Payment, _ int) bool { return p.OrderID == orderID })
	return lo.Reverse(matched), nil
}

func (m *Memory) SumPaymentsByOrder(_ context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, p := range m.payments {
		if p.OrderID == orderID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// --- Reports ---

func (m *Memory) GetSummary(_ context.Context) (Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := Summary{
		OrdersByStatus: map[string]int64{},
		TotalBilled:    decimal.Zero,
		TotalCollected: decimal.Zero,
		Outstanding:    decimal.Zero,
	}
	for _, o := range m.orders {
		summary.OrdersByStatus[o.Status]++
		summary.TotalBilled = summary.TotalBilled.Add(o.Total)
		summary.TotalCollected = summary.TotalCollected.Add(o.Paid)
		if o.Status != enum.OrderStatusCancelled && o.Paid.LessThan(o.Total) {
			summary.Outstanding = summary.Outstanding.Add(o.Total.Sub(o.Paid))
		}
	}
	return summary, nil
}

func paginate[T any](s []T, limit, offset int) []T {
	if offset >= len(s) {
		return []T{}
	}
	s = s[offset:]
	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}
	return append([]T{}, s...)
}
