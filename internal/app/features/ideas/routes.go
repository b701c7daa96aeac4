// internal/app/features/ideas/routes.go
package ideas

import (
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/ideas.
func Routes(h *Handler, v *jwtauth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.With(v.OptionalAuth).Get("/", h.ServeList)
	r.Get("/trending", h.ServeTrending)
	r.Get("/featured", h.ServeFeatured)

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireAuth)

		pr.Get("/my-ideas", h.ServeMyIdeas)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Put("/{id}/status", h.HandleStatus)
		pr.Delete("/{id}", h.HandleDelete)
		pr.With(h.likeLimit).Post("/{id}/like", h.HandleLike)
	})

	r.With(v.OptionalAuth).Get("/{id}", h.ServeIdea)

	return r
}

func (h *Handler) likeLimit(next http.Handler) http.Handler {
	if h.Likes == nil {
		return next
	}
	key := func(r *http.Request) string {
		if sub := jwtauth.Subject(r.Context()); sub != "" {
			return "sub:" + sub
		}
		return ""
	}
	deny := func(w http.ResponseWriter, r *http.Request) {
		h.Err.Write(w, r, apperr.TooManyRequests("Too many requests, please slow down"))
	}
	return h.Likes.Middleware(key, deny)(next)
}
