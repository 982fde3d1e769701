/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the thin RPC trigger surface of §6.2: every handler does nothing
  but decode, check admin authorization, call an engine package, and write
  a structured JSON response.

ROUTER: chi

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests

ROUTE GROUPS:
  POST /api/schedules/yearly              generateYearlySchedule
  POST /api/schedules/monthly             generateMonthlySchedule
  POST /api/schedules/weekly              generateWeeklySchedule
  POST /api/leave-requests/{id}/analyze   analyzeLeaveRequest

RATE LIMITS (§6.2):
  Yearly 5/5min, Monthly 10/min, Weekly 20/min are enforced by external
  middleware, not by this package. RateLimitMiddlewares is a documented
  hook: callers that need rate limiting pass chi.Middlewares here; by
  default it is empty and NewRouter applies none.

SECURITY NOTE:
  Authorization is the caller-is-admin check in Principal, read from the
  X-Admin-Token header (see principalFromRequest). There is no real
  authentication provider behind it; see SPEC_FULL.md §6.2's Non-goal note.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/scheduler/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// rateLimitMiddlewares is the §6.2 rate-limit hook; pass nil for none.
func NewRouter(h *Handler, rateLimitMiddlewares chi.Middlewares) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		AllowCredentials: false,
	}))
	for _, mw := range rateLimitMiddlewares {
		r.Use(mw)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/yearly", h.GenerateYearlySchedule)
			r.Post("/monthly", h.GenerateMonthlySchedule)
			r.Post("/weekly", h.GenerateWeeklySchedule)
		})

		r.Route("/leave-requests", func(r chi.Router) {
			r.Post("/{id}/analyze", h.AnalyzeLeaveRequest)
		})
	})

	return r
}
