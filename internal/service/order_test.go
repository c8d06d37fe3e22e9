package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/lavanderia-pos/api/internal/store"
)

// testEnv seeds a Memory store with one customer and two catalog services.
type testEnv struct {
	store    *store.Memory
	customer domain.Customer
	wash     domain.Service
	iron     domain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()

	customer, err := st.CreateCustomer(ctx, domain.Customer{Name: "Maria Lopez", Phone: "555-0101"})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	wash, err := st.CreateService(ctx, domain.Service{Name: "Wash & Fold", Price: dec("5.00")})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	iron, err := st.CreateService(ctx, domain.Service{Name: "Ironing", Price: dec("2.50")})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return &testEnv{store: st, customer: customer, wash: wash, iron: iron}
}

func (e *testEnv) createOrder(t *testing.T, items ...CreateOrderItemRequest) domain.Order {
	t.Helper()
	order, err := NewOrderService(e.store).CreateOrder(context.Background(), CreateOrderRequest{
		CustomerID: e.customer.ID.String(),
		Items:      items,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return order
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)

	order := env.createOrder(t,
		CreateOrderItemRequest{ServiceID: env.wash.ID.String(), Quantity: "3"},
		CreateOrderItemRequest{ServiceID: env.iron.ID.String(), Quantity: "4"},
	)

	if order.Status != enum.OrderStatusPending {
		t.Errorf("Status = %s, want PENDING", order.Status)
	}
	if !order.Paid.IsZero() {
		t.Errorf("Paid = %s, want 0", order.Paid)
	}
	if !order.Total.Equal(dec("25.00")) {
		t.Errorf("Total = %s, want 25.00", order.Total)
	}
	if order.CustomerName != "Maria Lopez" {
		t.Errorf("CustomerName = %q, want Maria Lopez", order.CustomerName)
	}
	if len(order.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(order.Items))
	}

	// Catalog price was snapshotted into the line.
	if !order.Items[0].UnitPrice.Equal(env.wash.Price) {
		t.Errorf("item UnitPrice = %s, want %s", order.Items[0].UnitPrice, env.wash.Price)
	}
}

func TestCreateOrderMergesDuplicateItems(t *testing.T) {
	env := newTestEnv(t)

	order := env.createOrder(t,
		CreateOrderItemRequest{ServiceID: env.wash.ID.String(), Quantity: "2"},
		CreateOrderItemRequest{ServiceID: env.wash.ID.String(), Quantity: "3"},
	)

	if len(order.Items) != 1 {
		t.Fatalf("got %d lines, want 1 merged line", len(order.Items))
	}
	if !order.Items[0].Quantity.Equal(dec("5")) {
		t.Errorf("Quantity = %s, want 5", order.Items[0].Quantity)
	}
	if !order.Total.Equal(dec("25.00")) {
		t.Errorf("Total = %s, want 25.00", order.Total)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOrderService(env.store)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr error
	}{
		{
			"empty items",
			CreateOrderRequest{CustomerID: env.customer.ID.String()},
			ErrEmptyItems,
		},
		{
			"bad customer id",
			CreateOrderRequest{CustomerID: "not-a-uuid", Items: []CreateOrderItemRequest{{ServiceID: env.wash.ID.String(), Quantity: "1"}}},
			ErrInvalidCustomerID,
		},
		{
			"unknown customer",
			CreateOrderRequest{CustomerID: uuid.NewString(), Items: []CreateOrderItemRequest{{ServiceID: env.wash.ID.String(), Quantity: "1"}}},
			ErrCustomerNotFound,
		},
		{
			"bad service id",
			CreateOrderRequest{CustomerID: env.customer.ID.String(), Items: []CreateOrderItemRequest{{ServiceID: "nope", Quantity: "1"}}},
			ErrInvalidServiceID,
		},
		{
			"unknown service",
			CreateOrderRequest{CustomerID: env.customer.ID.String(), Items: []CreateOrderItemRequest{{ServiceID: uuid.NewString(), Quantity: "1"}}},
			ErrServiceNotFound,
		},
		{
			"zero quantity",
			CreateOrderRequest{CustomerID: env.customer.ID.String(), Items: []CreateOrderItemRequest{{ServiceID: env.wash.ID.String(), Quantity: "0"}}},
			ErrInvalidQuantity,
		},
		{
			"unparseable quantity",
			CreateOrderRequest{CustomerID: env.customer.ID.String(), Items: []CreateOrderItemRequest{{ServiceID: env.wash.ID.String(), Quantity: "two"}}},
			ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateOrder = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Nothing was persisted by the failed attempts.
	orders, err := svc.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("got %d orders after failed creates, want 0", len(orders))
	}
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOrderService(env.store)

	first := env.createOrder(t, CreateOrderItemRequest{ServiceID: env.wash.ID.String(), Quantity: "1"})
	second := env.createOrder(t, CreateOrderItemRequest{ServiceID: env.iron.ID.String(), Quantity: "1"})

	orders, err := svc.ListOrders(context.Background(), store.OrderFilter{})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Error("orders not most-recent-first")
	}
}

func TestListOrdersStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOrderService(env.store)
	ctx := context.Background()

	env.createOrder(t, CreateOrderItemRequest{ServiceID: env.wash.ID.String(), Quantity: "1"})
	ready := env.createOrder(t, CreateOrderItemRequest{ServiceID: env.iron.ID.String(), Quantity: "1"})
	if _, err := svc.SetStatus(ctx, ready.ID, enum.OrderStatusReady); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	orders, err := svc.ListOrders(ctx, store.OrderFilter{Status: enum.OrderStatusReady})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != ready.ID {
		t.Errorf("status filter returned wrong orders: %v", orders)
	}

	if _, err := svc.ListOrders(ctx, store.OrderFilter{Status: "SHIPPED"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status filter = %v, want ErrInvalidStatus", err)
	}
}

func TestSetStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOrderService(env.store)
	ctx := context.Background()

	order := env.createOrder(t, CreateOrderItemRequest{ServiceID: env.wash.ID.String(), Quantity: "1"})

	updated, err := svc.SetStatus(ctx, order.ID, enum.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != enum.OrderStatusDelivered {
		t.Errorf("Status = %s, want DELIVERED", updated.Status)
	}

	// No transition ordering: DELIVERED back to PENDING is allowed.
	updated, err = svc.SetStatus(ctx, order.ID, enum.OrderStatusPending)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != enum.OrderStatusPending {
		t.Errorf("Status = %s, want PENDING", updated.Status)
	}

	if _, err := svc.SetStatus(ctx, order.ID, "FOLDED"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("SetStatus(FOLDED) = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.SetStatus(ctx, uuid.New(), enum.OrderStatusReady); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("SetStatus(missing) = %v, want ErrOrderNotFound", err)
	}
}

func TestDeleteOrderRemovesPayments(t *testing.T) {
	env := newTestEnv(t)
	orders := NewOrderService(env.store)
	payments := NewPaymentService(env.store)
	ctx := context.Background()

	order := env.createOrder(t, CreateOrderItemRequest{ServiceID: env.wash.ID.String(), Quantity: "2"})
	if _, err := payments.RecordPayment(ctx, order.ID, dec("4.00"), enum.PaymentMethodCash); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	if err := orders.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}

	if _, err := orders.GetOrder(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("GetOrder after delete = %v, want ErrOrderNotFound", err)
	}
	all, err := payments.ListPayments(ctx)
	if err != nil {
		t.Fatalf("ListPayments: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d payments after order delete, want 0", len(all))
	}

	if err := orders.DeleteOrder(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("second DeleteOrder = %v, want ErrOrderNotFound", err)
	}
}
