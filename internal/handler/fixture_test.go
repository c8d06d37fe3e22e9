package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/service"
	"github.com/lavanderia-pos/api/internal/store"
	"github.com/lavanderia-pos/api/internal/ws"
	"github.com/shopspring/decimal"
)

// fixture wires the in-memory store and real services the way the router
// does, seeded with one customer and two catalog services.
type fixture struct {
	store    *store.Memory
	orders   *service.OrderService
	payments *service.PaymentService
	customer domain.Customer
	wash     domain.Service
	iron     domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()

	customer, err := st.CreateCustomer(ctx, domain.Customer{Name: "Maria Lopez", Phone: "555-0101"})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	wash, err := st.CreateService(ctx, domain.Service{Name: "Wash & Fold", Price: mustDecimal(t, "5.00")})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	iron, err := st.CreateService(ctx, domain.Service{Name: "Ironing", Price: mustDecimal(t, "2.50")})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}

	return &fixture{
		store:    st,
		orders:   service.NewOrderService(st),
		payments: service.NewPaymentService(st),
		customer: customer,
		wash:     wash,
		iron:     iron,
	}
}

// newOrder creates an order for qty units of Wash & Fold.
func (f *fixture) newOrder(t *testing.T, qty string) domain.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), service.CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []service.CreateOrderItemRequest{
			{ServiceID: f.wash.ID.String(), Quantity: qty},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

// mockBroadcaster records broadcast events for assertions.
type mockBroadcaster struct {
	events []ws.Event
}

func (m *mockBroadcaster) Broadcast(e ws.Event) {
	m.events = append(m.events, e)
}

// doRequest runs an HTTP request through the given router and returns the
// recorder. body, if non-nil, is JSON encoded.
func doRequest(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return v
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, want, rr.Body.String())
	}
}
