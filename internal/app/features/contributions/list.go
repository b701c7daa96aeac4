package contributions

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeMine handles GET /api/contributions/my-contributions.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contributions.mine")
	defer cancel()

	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	rows, err := h.contribs.ByContributor(ctx, u.ID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.writeList(ctx, w, r, rows)
}

// ServeReceived handles GET /api/contributions/received: offers on any of
// the caller's ideas.
func (h *Handler) ServeReceived(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contributions.received")
	defer cancel()

	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	ideaIDs, err := h.ideas.IDsByCreator(ctx, u.ID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	rows, err := h.contribs.ByIdeas(ctx, ideaIDs)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.writeList(ctx, w, r, rows)
}

// ServeForIdea handles GET /api/contributions/idea/{ideaId}. Only accepted
// and completed offers are listed. Offers on a public idea are readable by
// anyone; offers on a private idea only by its creator, and everyone else
// gets a 404 as if the idea did not exist.
func (h *Handler) ServeForIdea(w http.ResponseWriter, r *http.Request) {
	ideaID, err := objectID(r, "ideaId", "idea")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "contributions.idea")
	defer cancel()

	idea, err := h.ideas.GetByID(ctx, ideaID)
	if err != nil {
		h.Err.Write(w, r, storeError(err, ""))
		return
	}
	if !idea.IsPublic {
		viewer := primitive.NilObjectID
		if sub := jwtauth.Subject(r.Context()); sub != "" {
			u, err := h.users.GetByAuth0ID(ctx, sub)
			switch {
			case err == nil:
				viewer = u.ID
			case !errors.Is(err, userstore.ErrNotFound):
				h.Err.Write(w, r, err)
				return
			}
		}
		if !idea.VisibleTo(viewer) {
			h.Err.Write(w, r, apperr.NotFound("Idea not found"))
			return
		}
	}

	rows, err := h.contribs.PublicByIdea(ctx, ideaID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.writeList(ctx, w, r, rows)
}

func (h *Handler) writeList(ctx context.Context, w http.ResponseWriter, r *http.Request, rows []models.Contribution) {
	views, err := present.Contributions(ctx, h.users, h.ideas, rows)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.List(w, views)
}
