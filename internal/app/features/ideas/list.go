package ideas

import (
	"context"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/app/system/paging"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// listFilter reads the browse filters from the query string.
func listFilter(r *http.Request) ideastore.ListFilter {
	return ideastore.ListFilter{
		Status:       normalize.Status(query.Get(r, "status")),
		Category:     normalize.Category(query.Get(r, "category")),
		Stage:        normalize.Category(query.Get(r, "stage")),
		ResourceType: normalize.Category(query.Get(r, "resourceType")),
		Tags:         normalize.TagList(query.Get(r, "tags")),
		Search:       normalize.QueryParam(query.Get(r, "search")),
		Sort:         normalize.QueryParam(query.Get(r, "sortBy")),
	}
}

// ServeList handles GET /api/ideas.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, paging.DefaultLimit)
	f := listFilter(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ideas.list")
	defer cancel()

	rows, total, err := h.ideas.List(ctx, f, p.Skip(), int64(p.Limit))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	views, err := present.Ideas(ctx, h.users, rows, jwtauth.Subject(r.Context()))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Page(w, views, apiresp.NewPagination(p.Page, p.Limit, total))
}

// ServeMyIdeas handles GET /api/ideas/my-ideas: every idea the caller
// created, in any status.
func (h *Handler) ServeMyIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ideas.mine")
	defer cancel()

	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	rows, err := h.ideas.ByCreator(ctx, u.ID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.writeList(ctx, w, r, rows, u.Auth0ID)
}

// ServeTrending handles GET /api/ideas/trending.
func (h *Handler) ServeTrending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ideas.trending")
	defer cancel()

	rows, err := h.ideas.Trending(ctx)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.writeList(ctx, w, r, rows, "")
}

// ServeFeatured handles GET /api/ideas/featured.
func (h *Handler) ServeFeatured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ideas.featured")
	defer cancel()

	rows, err := h.ideas.Featured(ctx)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.writeList(ctx, w, r, rows, "")
}

func (h *Handler) writeList(ctx context.Context, w http.ResponseWriter, r *http.Request, rows []models.Idea, subject string) {
	views, err := present.Ideas(ctx, h.users, rows, subject)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.List(w, views)
}
