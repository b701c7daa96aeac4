package ideas

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/app/system/payload"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ownedIdea loads the idea and checks that the caller created it.
// denied is the 403 message for anyone else.
func (h *Handler) ownedIdea(ctx context.Context, r *http.Request, id primitive.ObjectID, denied string) (*models.User, *models.Idea, error) {
	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		return nil, nil, err
	}
	idea, err := h.ideas.GetByID(ctx, id)
	if err != nil {
		return nil, nil, storeError(err)
	}
	if idea.Creator != u.ID {
		return nil, nil, apperr.Forbidden(denied)
	}
	return u, idea, nil
}

// HandleUpdate handles PUT /api/ideas/{id}. Only the creator may edit, and
// status is not among the editable fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	var in ideaInput
	if err := payload.Decode(r, payload.IdeaUpdate, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	fields, err := in.update(true)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ideas.update")
	defer cancel()

	u, _, err := h.ownedIdea(ctx, r, id, "Not authorized to update this idea")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	updated, err := h.ideas.Update(ctx, id, fields)
	if err != nil {
		h.Err.Write(w, r, storeError(err))
		return
	}
	view, err := present.OneIdea(ctx, h.users, *updated, u.Auth0ID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.OK(w, view)
}

type statusInput struct {
	Status string `json:"status"`
}

// HandleStatus handles PUT /api/ideas/{id}/status: the creator's own
// lifecycle moves (submit a draft, mark funded, completed or archived).
// Review outcomes are decided by moderators through the admin routes.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	var in statusInput
	if err := payload.Decode(r, payload.StatusUpdate, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	to := normalize.Status(in.Status)
	if !models.Contains(models.IdeaStatuses, to) {
		h.Err.Write(w, r, apperr.BadRequest("Invalid status"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ideas.status")
	defer cancel()

	u, idea, err := h.ownedIdea(ctx, r, id, "Not authorized to update this idea")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	from := idea.Status
	if !models.CanTransition(from, to, models.ActorCreator) {
		h.Err.Write(w, r, apperr.BadRequest(fmt.Sprintf("Cannot change status from %s to %s", from, to)))
		return
	}
	updated, err := h.ideas.SetStatus(ctx, id, from, to, "")
	if err != nil {
		h.Err.Write(w, r, storeError(err))
		return
	}
	h.Audit.IdeaStatusChanged(ctx, r, auditlog.Actor{ID: u.ID, Subject: u.Auth0ID}, id, from, to)

	view, err := present.OneIdea(ctx, h.users, *updated, u.Auth0ID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.OK(w, view)
}
