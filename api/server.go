/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/calculate/*   Stateless engine calls
  /api/layout        Simplified-mode layout
  /api/calendar      ISO week navigation
  /api/users/*       Stored weeks, locking, reports
  /api/entries/*     Entry updates
  /api/scenarios/*   Demo weeks
  /api/reset         Database reset (dev only)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins are the frontend dev servers.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured. Empty
// allowedOrigins means DefaultAllowedOrigins.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Stateless engine
		r.Route("/calculate", func(r chi.Router) {
			r.Post("/entry", h.CalculateEntry)
			r.Post("/week", h.CalculateWeek)
		})
		r.Post("/layout", h.Layout)
		r.Get("/calendar", h.GetCalendar)

		// Stored timesheets
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Route("/weeks/{weekKey}", func(r chi.Router) {
				r.Get("/", h.GetWeek)
				r.Post("/entries", h.CreateEntry)
				r.Put("/days/{day}", h.PutDaySummary)
				r.Post("/lock", h.LockWeek)
				r.Post("/unlock", h.UnlockWeek)
			})

			r.Get("/years", h.ListYears)
			r.Get("/years/{year}", h.GetYear)
			r.Get("/years/{year}/quarters/{quarter}", h.GetQuarter)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Demo data
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
