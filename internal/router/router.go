package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lavanderia-pos/api/internal/config"
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/lavanderia-pos/api/internal/handler"
	mw "github.com/lavanderia-pos/api/internal/middleware"
	"github.com/lavanderia-pos/api/internal/service"
	"github.com/lavanderia-pos/api/internal/store"
	"github.com/lavanderia-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Catalog writes are restricted to admins; everything else past login is
// open to any authenticated user.
func New(cfg *config.Config, st store.Store, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(st, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(st)
	paymentService := service.NewPaymentService(st)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Customers
		customerHandler := handler.NewCustomerHandler(st)
		r.Route("/customers", customerHandler.RegisterRoutes)

		// Service catalog. Reads are open, writes are admin-only.
		serviceHandler := handler.NewServiceHandler(st)
		r.Route("/services", func(r chi.Router) {
			r.Get("/", serviceHandler.List)
			r.Get("/{id}", serviceHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				r.Post("/", serviceHandler.Create)
				r.Put("/{id}", serviceHandler.Update)
				r.Delete("/{id}", serviceHandler.Delete)
			})
		})

		// Orders
		orderHandler := handler.NewOrderHandler(orderService, paymentService, hub)
		paymentHandler := handler.NewPaymentHandler(paymentService, orderService, hub)
		r.Route("/orders", func(r chi.Router) {
			orderHandler.RegisterRoutes(r)

			// Payments (nested under orders)
			r.Route("/{id}/payments", paymentHandler.RegisterRoutes)
		})

		// Payments across all orders
		r.Get("/payments", paymentHandler.ListAll)

		// Reports (admin-only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))
			reportsHandler := handler.NewReportsHandler(st)
			r.Route("/reports", reportsHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
