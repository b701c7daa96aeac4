package contributions

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/features/shared/present"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/app/system/payload"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/app/system/txn"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type offerInput struct {
	IdeaID        string   `json:"ideaId"`
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Amount        *float64 `json:"amount"`
	Currency      string   `json:"currency"`
	EquityOffered *float64 `json:"equityOffered"`
	Message       string   `json:"message"`
	Terms         string   `json:"terms"`
}

// HandleCreate handles POST /api/contributions. At most one pending offer
// per idea and contributor exists; the unique index decides races.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in offerInput
	if err := payload.Decode(r, payload.ContributionCreate, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	ideaID, err := primitive.ObjectIDFromHex(in.IdeaID)
	if err != nil {
		h.Err.Write(w, r, apperr.BadRequest("Invalid idea id"))
		return
	}
	typ := normalize.Category(in.Type)
	if !models.Contains(models.ResourceTypes, typ) {
		h.Err.Write(w, r, apperr.BadRequest("Invalid contribution type"))
		return
	}
	desc := htmlsanitize.PlainText(in.Description)
	if desc == "" {
		h.Err.Write(w, r, apperr.BadRequest("Description is required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contributions.create")
	defer cancel()

	u, err := caller.Resolve(ctx, h.users, jwtauth.ClaimsFrom(r.Context()))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	idea, err := h.ideas.GetByID(ctx, ideaID)
	if err != nil {
		h.Err.Write(w, r, storeError(err, ""))
		return
	}
	if !idea.VisibleTo(u.ID) {
		h.Err.Write(w, r, apperr.NotFound("Idea not found"))
		return
	}
	if idea.Creator == u.ID {
		h.Err.Write(w, r, apperr.BadRequest("Cannot contribute to your own idea"))
		return
	}

	offer := models.Contribution{
		Idea:          ideaID,
		Contributor:   u.ID,
		Type:          typ,
		Description:   desc,
		Amount:        in.Amount,
		Currency:      strings.TrimSpace(in.Currency),
		EquityOffered: in.EquityOffered,
		Status:        models.ContributionPending,
		Message:       htmlsanitize.PlainText(in.Message),
		Terms:         htmlsanitize.PlainText(in.Terms),
	}

	var created models.Contribution
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		if created, err = h.contribs.Insert(ctx, offer); err != nil {
			return err
		}
		return h.ideas.IncContributionCount(ctx, ideaID, 1)
	})
	if err != nil {
		h.Err.Write(w, r, storeError(err, ""))
		return
	}
	h.Log.Info("contribution offered",
		zap.String("contribution_id", created.ID.Hex()),
		zap.String("idea_id", ideaID.Hex()),
		zap.String("type", typ))

	view, err := present.OneContribution(ctx, h.users, h.ideas, created)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Created(w, view)
}
