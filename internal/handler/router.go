package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"osboard/internal/mw"
)

// NewRouter wires the API. A nil auth leaves every route open.
func NewRouter(d OrderDashboard, auth Authenticator, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if auth != nil {
		r.Post("/api/login", LoginHandler(auth))
	}

	r.Group(func(r chi.Router) {
		if auth != nil {
			r.Use(mw.AuthMiddleware(jwtSecret))
		}

		r.Get("/api/orders", ListOrdersHandler(d))
		r.Post("/api/orders", CreateOrderHandler(d))
		r.Post("/api/orders/reload", ReloadOrdersHandler(d))
		r.Post("/api/orders/{id}/complete", CompleteOrderHandler(d))
		r.Delete("/api/orders/{id}", DeleteOrderHandler(d))

		r.Get("/api/stats", StatsHandler(d))
		r.Post("/api/report", ReportHandler(d))
	})

	return r
}
