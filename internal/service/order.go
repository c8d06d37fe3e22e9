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

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	CustomerID string
	Items      []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single service selection. Quantity is a
// decimal string so weighed services (kilos) work the same as counted ones.
type CreateOrderItemRequest struct {
	ServiceID string
	Quantity  string
}

// OrderService handles order business logic on top of the store.
type OrderService struct {
	store store.Store
}

// NewOrderService creates a new OrderService.
func NewOrderService(st store.Store) *OrderService {
	return &OrderService{store: st}
}

// CreateOrder validates the request, snapshots catalog prices into line
// items, and persists the order with its items atomically. New orders
// start PENDING with nothing paid.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return domain.Order{}, ErrInvalidCustomerID
	}

	if len(req.Items) == 0 {
		return domain.Order{}, ErrEmptyItems
	}

	if _, err := s.store.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrCustomerNotFound
		}
		return domain.Order{}, fmt.Errorf("get customer: %w", err)
	}

	// --- Compose line items, merging duplicate services ---
	draft := NewDraft()
	for i, item := range req.Items {
		serviceID, err := uuid.Parse(item.ServiceID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("item[%d]: %w", i, ErrInvalidServiceID)
		}

		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return domain.Order{}, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}

		svc, err := s.store.GetService(ctx, serviceID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Order{}, fmt.Errorf("item[%d]: %w", i, ErrServiceNotFound)
			}
			return domain.Order{}, fmt.Errorf("item[%d]: get service: %w", i, err)
		}

		if err := draft.AddItem(svc, qty); err != nil {
			return domain.Order{}, fmt.Errorf("item[%d]: %w", i, err)
		}
	}

	created, err := s.store.CreateOrder(ctx, domain.Order{
		CustomerID: customerID,
		Items:      draft.Items(),
		Total:      draft.Total(),
		Paid:       decimal.Zero,
		Status:     enum.OrderStatusPending,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	return created, nil
}

// GetOrder fetches one order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOrders returns orders most-recent-first, optionally filtered by
// status. Line items are not loaded in listings.
func (s *OrderService) ListOrders(ctx context.Context, f store.OrderFilter) ([]domain.Order, error) {
	if f.Status != "" && !enum.IsValidOrderStatus(f.Status) {
		return nil, ErrInvalidStatus
	}
	orders, err := s.store.ListOrders(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// SetStatus is the manual operator override. Any enumerated status may be
// set from any other; no transition ordering is enforced.
func (s *OrderService) SetStatus(ctx context.Context, id uuid.UUID, status string) (domain.Order, error) {
	if !enum.IsValidOrderStatus(status) {
		return domain.Order{}, ErrInvalidStatus
	}
	order, err := s.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

// DeleteOrder removes an order together with its payments and line items
// in one transaction.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
