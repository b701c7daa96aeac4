package admin

import (
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/paging"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/domain/models"
)

// ServeUsers handles GET /api/admin/users, newest first. Subject ids are
// never serialized.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, paging.MaxLimit)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin.users")
	defer cancel()

	rows, err := h.users.List(ctx, p.Skip(), int64(p.Limit))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	total, err := h.users.Count(ctx)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Page(w, rows, apiresp.NewPagination(p.Page, p.Limit, total))
}

type platformStats struct {
	TotalIdeas   int64 `json:"totalIdeas"`
	TotalUsers   int64 `json:"totalUsers"`
	PendingIdeas int64 `json:"pendingIdeas"`
	ActiveIdeas  int64 `json:"activeIdeas"`
}

// ServeStats handles GET /api/admin/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin.stats")
	defer cancel()

	var (
		s   platformStats
		err error
	)
	if s.TotalIdeas, err = h.ideas.Count(ctx); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	if s.TotalUsers, err = h.users.Count(ctx); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	if s.PendingIdeas, err = h.ideas.CountByStatus(ctx, models.IdeaPendingReview); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	if s.ActiveIdeas, err = h.ideas.CountByStatus(ctx, models.IdeaActive); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.OK(w, s)
}
