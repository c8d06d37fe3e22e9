package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/service"
	"github.com/lavanderia-pos/api/internal/ws"
	"github.com/shopspring/decimal"
)

// PaymentServicer defines the service methods needed by payment handlers.
// Satisfied by *service.PaymentService; narrow interface for testability.
type PaymentServicer interface {
	RecordPayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, method string) (*service.RecordPaymentResult, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error)
}

// OrderGetter fetches an order, used for the overpayment check before a
// payment is committed.
type OrderGetter interface {
	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
}

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	svc    PaymentServicer
	orders OrderGetter
	hub    Broadcaster
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc PaymentServicer, orders OrderGetter, hub Broadcaster) *PaymentHandler {
	return &PaymentHandler{svc: svc, orders: orders, hub: hub}
}

// RegisterRoutes registers payment endpoints at /orders/{id}/payments.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Add)
	r.Get("/", h.List)
}

// --- Request / Response types ---

type addPaymentRequest struct {
	Amount             string `json:"amount"`
	Method             string `json:"method"`
	ConfirmOverpayment bool   `json:"confirm_overpayment"`
}

type addPaymentResponse struct {
	Payment  paymentResponse `json:"payment"`
	Order    orderResponse   `json:"order"`
	Overpaid bool            `json:"overpaid"`
}

type overpaymentWarning struct {
	Error     string `json:"error"`
	Remaining string `json:"remaining"`
}

// --- Handlers ---

// Add handles POST /orders/{id}/payments. An amount above the remaining
// balance is refused with 409 until the client confirms it, so the
// counter UI can warn before taking excess cash.
func (h *PaymentHandler) Add(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	if !req.ConfirmOverpayment {
		order, err := h.orders.GetOrder(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, "get order for payment", err)
			return
		}
		if remaining := order.Remaining(); amount.GreaterThan(remaining) {
			writeJSON(w, http.StatusConflict, overpaymentWarning{
				Error:     "amount exceeds remaining balance",
				Remaining: remaining.StringFixed(2),
			})
			return
		}
	}

	result, err := h.svc.RecordPayment(r.Context(), orderID, amount, req.Method)
	if err != nil {
		writeServiceError(w, "record payment", err)
		return
	}

	resp := addPaymentResponse{
		Payment:  toPaymentResponse(result.Payment),
		Order:    toOrderResponse(result.Order),
		Overpaid: result.Overpaid,
	}
	broadcastEvent(h.hub, ws.EventPaymentRecorded, resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders/{id}/payments, newest first.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	payments, err := h.svc.ListOrderPayments(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "list order payments", err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListAll handles GET /payments, every payment across orders, newest first.
func (h *PaymentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.ListPayments(r.Context())
	if err != nil {
		writeServiceError(w, "list payments", err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}
