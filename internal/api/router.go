package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		// Claim inspection for the logged-in principal
		r.With(s.requireAuth).Get("/auth/me", s.handleMe)

		// Student records
		r.Route("/students", func(r chi.Router) {
			r.With(s.requirePermission("read:student")).Get("/", s.handleListStudents)
			r.With(s.requirePermission("write:student")).Post("/", s.handleCreateStudent)
		})

		// Course catalogue
		r.Route("/courses", func(r chi.Router) {
			r.With(s.requirePermission("read:course")).Get("/", s.handleListCourses)
			r.With(s.requirePermission("write:course")).Post("/", s.handleCreateCourse)
		})

		// Login audit trail — the broad write capability is admin-only
		// under the default permission sets.
		r.With(s.requirePermission("write")).Get("/audit/logins", s.handleListLoginEvents)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
