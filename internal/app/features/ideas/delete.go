package ideas

import (
	"context"
	"net/http"

	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/app/system/txn"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /api/ideas/{id}. The idea, every contribution
// made toward it and one unit of the creator's ideas_count go together.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ideas.delete")
	defer cancel()

	u, idea, err := h.ownedIdea(ctx, r, id, "Not authorized to delete this idea")
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	var removed int64
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		deleted, err := h.ideas.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ideastore.ErrNotFound
		}
		if removed, err = h.contribs.DeleteByIdea(ctx, id); err != nil {
			return err
		}
		return h.users.IncIdeasCount(ctx, idea.Creator, -1)
	})
	if err != nil {
		h.Err.Write(w, r, storeError(err))
		return
	}

	h.Log.Info("idea deleted",
		zap.String("idea_id", id.Hex()),
		zap.Int64("contributions_removed", removed))
	h.Audit.IdeaDeleted(ctx, r, auditlog.Actor{ID: u.ID, Subject: u.Auth0ID}, id, idea.Title, removed)

	apiresp.Message(w, nil, "Idea deleted successfully")
}
