package admin

import (
	"errors"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hearmeout/internal/app/system/payload"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultRejectionReason is stored when a moderator rejects without a reason.
const DefaultRejectionReason = "Did not meet submission guidelines"

// ServePending handles GET /api/admin/ideas/pending, oldest submission first.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin.pending")
	defer cancel()

	rows, err := h.ideas.ByStatus(ctx, models.IdeaPendingReview)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	views, err := present.Ideas(ctx, h.users, rows, "")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.List(w, views)
}

// ServeAllIdeas handles GET /api/admin/ideas/all: every idea regardless of
// status or visibility.
func (h *Handler) ServeAllIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin.ideas")
	defer cancel()

	rows, err := h.ideas.All(ctx)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	views, err := present.Ideas(ctx, h.users, rows, "")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.List(w, views)
}

// review moves a pending idea to the given outcome.
func (h *Handler) review(r *http.Request, to, reason string) (*models.Idea, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return nil, apperr.BadRequest("Invalid idea id")
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin.review")
	defer cancel()

	idea, err := h.ideas.GetByID(ctx, id)
	if err != nil {
		return nil, reviewError(err)
	}
	if !models.CanTransition(idea.Status, to, models.ActorModerator) {
		return nil, apperr.BadRequest("Only ideas pending review can be approved or rejected")
	}
	updated, err := h.ideas.SetStatus(ctx, id, idea.Status, to, reason)
	if err != nil {
		return nil, reviewError(err)
	}
	h.Log.Info("idea reviewed",
		zap.String("idea_id", id.Hex()),
		zap.String("status", to))
	return updated, nil
}

func reviewError(err error) error {
	switch {
	case errors.Is(err, ideastore.ErrNotFound):
		return apperr.NotFound("Idea not found")
	case errors.Is(err, ideastore.ErrStatusChanged):
		return apperr.BadRequest("Only ideas pending review can be approved or rejected")
	}
	return err
}

// HandleApprove handles PUT /api/admin/ideas/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	idea, err := h.review(r, models.IdeaActive, "")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.Audit.IdeaApproved(r.Context(), r, moderator(r), idea.ID, idea.Title)

	view, err := present.OneIdea(r.Context(), h.users, *idea, "")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Message(w, view, "Idea approved successfully")
}

type rejectInput struct {
	Reason string `json:"reason"`
}

// HandleReject handles PUT /api/admin/ideas/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	var in rejectInput
	if err := payload.Decode(r, payload.ModerationReject, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	reason := htmlsanitize.PlainText(in.Reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}

	idea, err := h.review(r, models.IdeaRejected, reason)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	h.Audit.IdeaRejected(r.Context(), r, moderator(r), idea.ID, idea.Title, reason)

	view, err := present.OneIdea(r.Context(), h.users, *idea, "")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Message(w, view, "Idea rejected")
}
