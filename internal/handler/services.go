package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/store"
	"github.com/shopspring/decimal"
)

// ServiceStore defines the store methods needed by catalog handlers.
// Satisfied by store.Store; narrow interface for testability.
type ServiceStore interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
	CreateService(ctx context.Context, s domain.Service) (domain.Service, error)
	UpdateService(ctx context.Context, s domain.Service) (domain.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

// ServiceHandler handles laundry service catalog endpoints.
type ServiceHandler struct {
	store ServiceStore
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(store ServiceStore) *ServiceHandler {
	return &ServiceHandler{store: store}
}

// RegisterRoutes registers catalog CRUD endpoints on the given Chi router.
func (h *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type serviceRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type serviceResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price string    `json:"price"`
}

func toServiceResponse(s domain.Service) serviceResponse {
	return serviceResponse{
		ID:    s.ID,
		Name:  s.Name,
		Price: s.Price.StringFixed(2),
	}
}

func parseServiceRequest(r *http.Request) (domain.Service, string) {
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.Service{}, "invalid request body"
	}
	if req.Name == "" {
		return domain.Service{}, "name is required"
	}
	if req.Price == "" {
		return domain.Service{}, "price is required"
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return domain.Service{}, "price must be a non-negative number"
	}
	if !price.Equal(price.Truncate(2)) {
		return domain.Service{}, "price must have at most 2 decimal places"
	}
	return domain.Service{Name: req.Name, Price: price}, ""
}

// --- Handlers ---

// List returns the full service catalog.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListServices(r.Context())
	if err != nil {
		log.Printf("ERROR: list services: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]serviceResponse, len(services))
	for i, s := range services {
		resp[i] = toServiceResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single catalog entry by ID.
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	svc, err := h.store.GetService(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		log.Printf("ERROR: get service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

// Create adds a catalog entry.
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	svc, msg := parseServiceRequest(r)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	created, err := h.store.CreateService(r.Context(), svc)
	if err != nil {
		log.Printf("ERROR: create service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toServiceResponse(created))
}

// Update modifies a catalog entry. Existing orders keep the price they
// were created with; only future orders see the change.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	svc, msg := parseServiceRequest(r)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	svc.ID = serviceID

	updated, err := h.store.UpdateService(r.Context(), svc)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		log.Printf("ERROR: update service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(updated))
}

// Delete removes a catalog entry. Refused while order items reference it.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	if err := h.store.DeleteService(r.Context(), serviceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		if errors.Is(err, store.ErrConflict) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "service is used by existing orders"})
			return
		}
		log.Printf("ERROR: delete service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
