package ideas

import (
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
)

type likeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// HandleLike handles POST /api/ideas/{id}/like. Each call flips the
// caller's like. Private ideas can only be liked by their creator.
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	subject := jwtauth.Subject(r.Context())
	if subject == "" {
		h.Err.Write(w, r, apperr.Unauthorized("Unauthorized"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ideas.like")
	defer cancel()

	idea, err := h.ideas.GetByID(ctx, id)
	if err != nil {
		h.Err.Write(w, r, storeError(err))
		return
	}
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

	liked, count, err := h.ideas.ToggleLike(ctx, id, subject)
	if err != nil {
		h.Err.Write(w, r, storeError(err))
		return
	}
	apiresp.OK(w, likeResponse{Liked: liked, LikeCount: count})
}
