package contributions

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/app/system/payload"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/app/system/txn"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// forIdeaCreator loads the contribution and checks that the caller owns the
// idea it was offered to.
func (h *Handler) forIdeaCreator(ctx context.Context, r *http.Request, id primitive.ObjectID) (*models.User, *models.Contribution, error) {
	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		return nil, nil, err
	}
	c, err := h.contribs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, storeError(err, "")
	}
	// An offer whose idea is gone has no creator, so nobody may decide it.
	idea, err := h.ideas.GetByID(ctx, c.Idea)
	switch {
	case errors.Is(err, ideastore.ErrNotFound):
		return nil, nil, apperr.Forbidden("Not authorized to update this contribution")
	case err != nil:
		return nil, nil, err
	case idea.Creator != u.ID:
		return nil, nil, apperr.Forbidden("Not authorized to update this contribution")
	}
	return u, c, nil
}

func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, r *http.Request, c *models.Contribution) {
	view, err := present.OneContribution(ctx, h.users, h.ideas, *c)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.OK(w, view)
}

type decisionInput struct {
	Status          string `json:"status"`
	ResponseMessage string `json:"responseMessage"`
}

// HandleStatus handles PUT /api/contributions/{id}/status. The idea's
// creator accepts or rejects a pending offer; acceptance also credits the
// contributor.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := objectID(r, "id", "contribution")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	var in decisionInput
	if err := payload.Decode(r, payload.StatusUpdate, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	to := normalize.Status(in.Status)
	if to != models.ContributionAccepted && to != models.ContributionRejected {
		h.Err.Write(w, r, apperr.BadRequest(`Invalid status. Must be "accepted" or "rejected"`))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contributions.status")
	defer cancel()

	u, c, err := h.forIdeaCreator(ctx, r, id)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	const notPending = "Only pending contributions can be accepted or rejected"
	if c.Status != models.ContributionPending {
		h.Err.Write(w, r, apperr.BadRequest(notPending))
		return
	}

	var updated *models.Contribution
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		updated, err = h.contribs.SetStatus(ctx, id, models.ContributionPending, to, htmlsanitize.PlainText(in.ResponseMessage))
		if err != nil {
			return err
		}
		if to == models.ContributionAccepted {
			return h.users.IncContributionsCount(ctx, updated.Contributor, 1)
		}
		return nil
	})
	if err != nil {
		h.Err.Write(w, r, storeError(err, notPending))
		return
	}
	h.Audit.ContributionDecided(ctx, r, auditlog.Actor{ID: u.ID, Subject: u.Auth0ID}, *updated)
	h.respond(ctx, w, r, updated)
}

// HandleComplete handles PUT /api/contributions/{id}/complete: the idea's
// creator marks an accepted offer as delivered.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := objectID(r, "id", "contribution")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "contributions.complete")
	defer cancel()

	u, c, err := h.forIdeaCreator(ctx, r, id)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	const notAccepted = "Only accepted contributions can be completed"
	if c.Status != models.ContributionAccepted {
		h.Err.Write(w, r, apperr.BadRequest(notAccepted))
		return
	}
	updated, err := h.contribs.SetStatus(ctx, id, models.ContributionAccepted, models.ContributionCompleted, "")
	if err != nil {
		h.Err.Write(w, r, storeError(err, notAccepted))
		return
	}
	h.Audit.ContributionDecided(ctx, r, auditlog.Actor{ID: u.ID, Subject: u.Auth0ID}, *updated)
	h.respond(ctx, w, r, updated)
}

// HandleCancel handles PUT /api/contributions/{id}/cancel. Only the
// contributor may withdraw, and only while the offer is pending.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := objectID(r, "id", "contribution")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contributions.cancel")
	defer cancel()

	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	c, err := h.contribs.GetByID(ctx, id)
	if err != nil {
		h.Err.Write(w, r, storeError(err, ""))
		return
	}
	if c.Contributor != u.ID {
		h.Err.Write(w, r, apperr.Forbidden("Not authorized to cancel this contribution"))
		return
	}
	const notPending = "Can only cancel pending contributions"
	if c.Status != models.ContributionPending {
		h.Err.Write(w, r, apperr.BadRequest(notPending))
		return
	}

	var updated *models.Contribution
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		updated, err = h.contribs.SetStatus(ctx, id, models.ContributionPending, models.ContributionCancelled, "")
		if err != nil {
			return err
		}
		return h.ideas.IncContributionCount(ctx, c.Idea, -1)
	})
	if err != nil {
		h.Err.Write(w, r, storeError(err, notPending))
		return
	}
	h.Audit.ContributionDecided(ctx, r, auditlog.Actor{ID: u.ID, Subject: u.Auth0ID}, *updated)
	h.respond(ctx, w, r, updated)
}
