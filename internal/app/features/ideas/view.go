package ideas

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeIdea handles GET /api/ideas/{id}. Every successful read counts as
// a view; repeat views by the same caller are not deduplicated.
func (h *Handler) ServeIdea(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ideas.view")
	defer cancel()

	idea, err := h.ideas.GetByID(ctx, id)
	if err != nil {
		h.Err.Write(w, r, storeError(err))
		return
	}

	subject := jwtauth.Subject(r.Context())
	if !idea.IsPublic {
		viewer, err := h.viewerID(ctx, subject)
		if err != nil {
			h.Err.Write(w, r, err)
			return
		}
		if !idea.VisibleTo(viewer) {
			h.Err.Write(w, r, apperr.Forbidden("This idea is private"))
			return
		}
	}

	viewed, err := h.ideas.IncView(ctx, id)
	if err != nil {
		h.Err.Write(w, r, storeError(err))
		return
	}
	view, err := present.OneIdea(ctx, h.users, *viewed, subject)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.OK(w, view)
}

// viewerID maps a token subject to its stored user id without creating an
// account. Anonymous or unknown subjects yield the nil id.
func (h *Handler) viewerID(ctx context.Context, subject string) (primitive.ObjectID, error) {
	if subject == "" {
		return primitive.NilObjectID, nil
	}
	u, err := h.users.GetByAuth0ID(ctx, subject)
	switch {
	case err == nil:
		return u.ID, nil
	case errors.Is(err, userstore.ErrNotFound):
		return primitive.NilObjectID, nil
	}
	return primitive.NilObjectID, err
}
