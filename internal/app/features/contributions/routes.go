// internal/app/features/contributions/routes.go
package contributions

import (
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/contributions.
func Routes(h *Handler, v *jwtauth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.With(v.OptionalAuth).Get("/idea/{ideaId}", h.ServeForIdea)

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireAuth)

		pr.Get("/my-contributions", h.ServeMine)
		pr.Get("/received", h.ServeReceived)
		pr.With(h.offerLimit).Post("/", h.HandleCreate)
		pr.Put("/{id}/status", h.HandleStatus)
		pr.Put("/{id}/complete", h.HandleComplete)
		pr.Put("/{id}/cancel", h.HandleCancel)
	})

	return r
}

func (h *Handler) offerLimit(next http.Handler) http.Handler {
	if h.Offers == nil {
		return next
	}
	key := func(r *http.Request) string {
		if sub := jwtauth.Subject(r.Context()); sub != "" {
			return "sub:" + sub
		}
		return ""
	}
	deny := func(w http.ResponseWriter, r *http.Request) {
		h.Err.Write(w, r, apperr.TooManyRequests("Too many offers, please wait a moment"))
	}
	return h.Offers.Middleware(key, deny)(next)
}
