package users

import (
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func userID(r *http.Request) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("Invalid user id")
	}
	return oid, nil
}

// ServeProfile handles GET /api/users/{id}. The subject id is never exposed.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	oid, err := userID(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.profile")
	defer cancel()

	u, err := h.users.GetByID(ctx, oid)
	if err != nil {
		h.Err.Write(w, r, caller.MapError(err))
		return
	}
	apiresp.OK(w, u)
}

type statsResponse struct {
	TotalIdeas         int     `json:"totalIdeas"`
	ActiveIdeas        int64   `json:"activeIdeas"`
	TotalContributions int     `json:"totalContributions"`
	FundingRaised      float64 `json:"fundingRaised"`
	Reputation         int     `json:"reputation"`
}

// ServeStats handles GET /api/users/{id}/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	oid, err := userID(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.stats")
	defer cancel()

	u, err := h.users.GetByID(ctx, oid)
	if err != nil {
		h.Err.Write(w, r, caller.MapError(err))
		return
	}

	active, err := h.ideas.CountByCreatorStatus(ctx, u.ID, models.IdeaActive)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	ideaIDs, err := h.ideas.IDsByCreator(ctx, u.ID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	raised, err := h.contribs.FundingRaised(ctx, ideaIDs)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	apiresp.OK(w, statsResponse{
		TotalIdeas:         u.IdeasCount,
		ActiveIdeas:        active,
		TotalContributions: u.ContributionsCount,
		FundingRaised:      raised,
		Reputation:         u.Reputation,
	})
}
