/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for internal tooling

ROUTE GROUPS:
  /api/cases                         Case seeding
  /api/cases/{caseId}                Case record and audit events
  /api/cases/{caseId}/correspondence Email/SMS consolidation
  /api/cases/{caseId}/letters        Letter consolidation
  /api/cases/{caseId}/adjustment-letters  Reasonable-adjustment routing
  /api/cases/{caseId}/documents      Evidence document attachment

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

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/cases", func(r chi.Router) {
			r.Post("/", h.CreateCase)
			r.Route("/{caseId}", func(r chi.Router) {
				r.Get("/", h.GetCase)
				r.Get("/events", h.ListEvents)
				r.Post("/correspondence", h.MergeCorrespondence)
				r.Post("/letters", h.MergeLetter)
				r.Post("/adjustment-letters", h.MergeAdjustmentLetter)
				r.Post("/documents", h.MergeDocument)
			})
		})
	})

	return r
}
