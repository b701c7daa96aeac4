// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/users.
func Routes(h *Handler, v *jwtauth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireAuth)

		pr.Get("/me", h.ServeMe)
		pr.Put("/me", h.HandleUpdateMe)
		pr.Delete("/me", h.HandleDeleteMe)
		pr.Post("/sync", h.HandleSync)
	})

	// Public profiles
	r.Get("/{id}", h.ServeProfile)
	r.Get("/{id}/stats", h.ServeStats)

	return r
}
