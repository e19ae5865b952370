package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, health *HealthChecker, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	if health != nil {
		r.Get("/health", health.HandleHealth)
		r.Get("/health/live", health.HandleLiveness)
		r.Get("/health/ready", health.HandleReadiness)
	}

	r.Route("/mailchimp/lists", func(r chi.Router) {
		r.Post("/", h.CreateList)

		r.Route("/{listId}", func(r chi.Router) {
			r.Get("/", h.ShowList)
			r.Put("/", h.UpdateList)
			r.Delete("/", h.RemoveList)

			r.Post("/members", h.CreateMember)
			r.Get("/members/{memberId}", h.ShowMember)
			r.Put("/members/{memberId}", h.UpdateMember)
			r.Delete("/members/{memberId}", h.RemoveMember)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, req, http.StatusNotFound, map[string]string{"message": "Not found"})
	})

	return r
}
