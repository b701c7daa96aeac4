// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/admin. Every route needs a moderator.
func Routes(h *Handler, v *jwtauth.Verifier) chi.Router {
	r := chi.NewRouter()
	r.Use(v.RequireAuth)
	r.Use(h.RequireModerator)

	r.Get("/ideas/pending", h.ServePending)
	r.Get("/ideas/all", h.ServeAllIdeas)
	r.Put("/ideas/{id}/approve", h.HandleApprove)
	r.Put("/ideas/{id}/reject", h.HandleReject)

	r.Get("/users", h.ServeUsers)
	r.Get("/stats", h.ServeStats)
	r.Get("/audit", h.ServeAudit)

	return r
}
