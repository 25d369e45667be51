package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/commercia/commercia-backend/internal/handlers"
	"github.com/commercia/commercia-backend/internal/middleware"
)

// SetupRoutes mounts the API. Session resolution runs on every /api
// route; the auth gate only on the protected ones.
func SetupRoutes(r *chi.Mux, h *handlers.Handler, resolver *middleware.SessionResolver) {
	r.Group(func(r chi.Router) {
		r.Use(resolver.Resolve)

		// Auth flow
		r.Post("/api/auth/register", h.Register)
		r.Post("/api/auth/verify-email", h.VerifyEmail)
		r.Post("/api/auth/login", h.Login)
		r.Post("/api/auth/logout", h.Logout)

		// Category catalog (public)
		r.Get("/api/categories", h.GetCategories)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/api/auth/me", h.GetMe)
			r.Get("/api/user/interests", h.GetUserInterests)
			r.Put("/api/user/interests", h.UpdateUserInterests)
		})
	})
}
