package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/lavanderia-pos/api/internal/handler"
)

type summaryBody struct {
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TotalBilled    string           `json:"total_billed"`
	TotalCollected string           `json:"total_collected"`
	Outstanding    string           `json:"outstanding"`
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	hub := &mockBroadcaster{}

	r := chi.NewRouter()
	r.Route("/reports", handler.NewReportsHandler(f.store).RegisterRoutes)
	r.Route("/orders/{id}/payments", handler.NewPaymentHandler(f.payments, f.orders, hub).RegisterRoutes)

	first := f.newOrder(t, "4")  // 20.00
	second := f.newOrder(t, "2") // 10.00
	cancelled := f.newOrder(t, "1")
	if _, err := f.orders.SetStatus(context.Background(), cancelled.ID, enum.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	rr := doRequest(t, r, http.MethodPost, "/orders/"+first.ID.String()+"/payments", map[string]any{
		"amount": "20.00",
		"method": enum.PaymentMethodCash,
	})
	assertStatus(t, rr, http.StatusCreated)
	rr = doRequest(t, r, http.MethodPost, "/orders/"+second.ID.String()+"/payments", map[string]any{
		"amount": "4.00",
		"method": enum.PaymentMethodCard,
	})
	assertStatus(t, rr, http.StatusCreated)

	rr = doRequest(t, r, http.MethodGet, "/reports/summary", nil)
	assertStatus(t, rr, http.StatusOK)
	got := decodeBody[summaryBody](t, rr)

	if got.OrdersByStatus[enum.OrderStatusPaidCompleted] != 1 ||
		got.OrdersByStatus[enum.OrderStatusPending] != 1 ||
		got.OrdersByStatus[enum.OrderStatusCancelled] != 1 {
		t.Errorf("orders_by_status = %v", got.OrdersByStatus)
	}
	if got.TotalBilled != "35.00" {
		t.Errorf("total_billed = %s, want 35.00", got.TotalBilled)
	}
	if got.TotalCollected != "24.00" {
		t.Errorf("total_collected = %s, want 24.00", got.TotalCollected)
	}
	// Only the open order's balance counts; the cancelled one is skipped.
	if got.Outstanding != "6.00" {
		t.Errorf("outstanding = %s, want 6.00", got.Outstanding)
	}
}

func TestSummaryEmpty(t *testing.T) {
	f := newFixture(t)

	r := chi.NewRouter()
	r.Route("/reports", handler.NewReportsHandler(f.store).RegisterRoutes)

	rr := doRequest(t, r, http.MethodGet, "/reports/summary", nil)
	assertStatus(t, rr, http.StatusOK)
	got := decodeBody[summaryBody](t, rr)
	if got.TotalBilled != "0.00" || got.Outstanding != "0.00" {
		t.Errorf("empty summary = %+v", got)
	}
	if len(got.OrdersByStatus) != 0 {
		t.Errorf("orders_by_status = %v, want empty", got.OrdersByStatus)
	}
}
