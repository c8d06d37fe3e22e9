package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/lavanderia-pos/api/internal/ws"
)

// Broadcaster pushes events to connected counter displays.
// Satisfied by *ws.Hub; narrow interface for testability.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// --- Shared response types ---

type lineItemResponse struct {
	ServiceID   uuid.UUID `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Quantity    string    `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Subtotal    string    `json:"subtotal"`
}

type orderResponse struct {
	ID           uuid.UUID          `json:"id"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	Items        []lineItemResponse `json:"items,omitempty"`
	Total        string             `json:"total"`
	Paid         string             `json:"paid"`
	Remaining    string             `json:"remaining"`
	Status       string             `json:"status"`
	StatusLabel  string             `json:"status_label"`
	CreatedAt    time.Time          `json:"created_at"`
}

type paymentResponse struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Total:        o.Total.StringFixed(2),
		Paid:         o.Paid.StringFixed(2),
		Remaining:    o.Remaining().StringFixed(2),
		Status:       o.Status,
		StatusLabel:  enum.OrderStatusLabels[o.Status],
		CreatedAt:    o.CreatedAt,
	}
	if len(o.Items) > 0 {
		resp.Items = make([]lineItemResponse, len(o.Items))
		for i, it := range o.Items {
			resp.Items[i] = lineItemResponse{
				ServiceID:   it.ServiceID,
				ServiceName: it.ServiceName,
				Quantity:    it.Quantity.String(),
				UnitPrice:   it.UnitPrice.StringFixed(2),
				Subtotal:    it.Subtotal.StringFixed(2),
			}
		}
	}
	return resp
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount.StringFixed(2),
		Method:    p.Method,
		CreatedAt: p.CreatedAt,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func broadcastEvent(b Broadcaster, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	b.Broadcast(ws.Event{Type: eventType, Payload: raw})
}
