package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/service"
	"github.com/lavanderia-pos/api/internal/store"
	"github.com/lavanderia-pos/api/internal/ws"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, f store.OrderFilter) ([]domain.Order, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (domain.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// OrderPaymentsLister lists the payments shown on the order detail view.
// Satisfied by *service.PaymentService.
type OrderPaymentsLister interface {
	ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc      OrderServicer
	payments OrderPaymentsLister
	hub      Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, payments OrderPaymentsLister, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, payments: payments, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createOrderRequest struct {
	CustomerID string                   `json:"customer_id"`
	Items      []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  string `json:"quantity"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderDetailResponse struct {
	orderResponse
	Payments []paymentResponse `json:"payments"`
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	items := make([]service.CreateOrderItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.CreateOrderItemRequest{
			ServiceID: it.ServiceID,
			Quantity:  it.Quantity,
		}
	}

	order, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		CustomerID: req.CustomerID,
		Items:      items,
	})
	if err != nil {
		writeServiceError(w, "create order", err)
		return
	}

	resp := toOrderResponse(order)
	broadcastEvent(h.hub, ws.EventOrderCreated, resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders with status filter and pagination.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	// Parse pagination
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	orders, err := h.svc.ListOrders(r.Context(), store.OrderFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeServiceError(w, "list orders", err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}, returning the order with its line items
// and payment history.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "get order", err)
		return
	}

	payments, err := h.payments.ListOrderPayments(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "list order payments", err)
		return
	}

	resp := orderDetailResponse{
		orderResponse: toOrderResponse(order),
		Payments:      make([]paymentResponse, len(payments)),
	}
	for i, p := range payments {
		resp.Payments[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /orders/{id}/status, the manual operator
// override between PENDING, READY, DELIVERED, PAID_COMPLETED, CANCELLED.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.svc.SetStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeServiceError(w, "update order status", err)
		return
	}

	resp := toOrderResponse(order)
	broadcastEvent(h.hub, ws.EventOrderStatus, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /orders/{id}. Payments and line items go with
// the order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), orderID); err != nil {
		writeServiceError(w, "delete order", err)
		return
	}

	broadcastEvent(h.hub, ws.EventOrderDeleted, map[string]uuid.UUID{"id": orderID})
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case service.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case service.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
