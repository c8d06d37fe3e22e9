package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lavanderia-pos/api/internal/store"
)

// ReportsStore defines the store methods needed by report handlers.
// Satisfied by store.Store; narrow interface for testability.
type ReportsStore interface {
	GetSummary(ctx context.Context) (store.Summary, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	store ReportsStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store}
}

// RegisterRoutes registers report endpoints on the given Chi router.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
}

// --- Response types ---

type summaryResponse struct {
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TotalBilled    string           `json:"total_billed"`
	TotalCollected string           `json:"total_collected"`
	Outstanding    string           `json:"outstanding"`
}

// --- Handlers ---

// Summary returns order counts by status plus billed, collected and
// outstanding totals. Cancelled orders do not contribute to the
// outstanding balance.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.GetSummary(r.Context())
	if err != nil {
		log.Printf("ERROR: get summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		OrdersByStatus: summary.OrdersByStatus,
		TotalBilled:    summary.TotalBilled.StringFixed(2),
		TotalCollected: summary.TotalCollected.StringFixed(2),
		Outstanding:    summary.Outstanding.StringFixed(2),
	})
}
