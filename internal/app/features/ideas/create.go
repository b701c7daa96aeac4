package ideas

import (
	"context"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/payload"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/app/system/txn"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /api/ideas. New ideas always wait for review;
// any status in the body is ignored.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in ideaInput
	if err := payload.Decode(r, payload.IdeaCreate, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	fields, err := in.update(false)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ideas.create")
	defer cancel()

	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	idea := models.Idea{
		Title:       deref(fields.Title),
		Tagline:     deref(fields.Tagline),
		Description: deref(fields.Description),
		Category:    deref(fields.Category),
		Stage:       deref(fields.Stage),
		CoverImage:  deref(fields.CoverImage),
		Status:      models.IdeaPendingReview,
		Creator:     u.ID,
		Images:      in.Images,
		Resources:   fields.Resources,
		Tags:        fields.Tags,
		IsPublic:    fields.IsPublic == nil || *fields.IsPublic,
	}

	var created models.Idea
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		if created, err = h.ideas.Insert(ctx, idea); err != nil {
			return err
		}
		return h.users.IncIdeasCount(ctx, u.ID, 1)
	})
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.Log.Info("idea created",
		zap.String("idea_id", created.ID.Hex()),
		zap.String("creator_id", u.ID.Hex()))

	view, err := present.OneIdea(ctx, h.users, created, u.Auth0ID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Created(w, view)
}
