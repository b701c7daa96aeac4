package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/hearmeout/internal/app/store/audit"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// auditFilter reads the audit query parameters. Dates are YYYY-MM-DD in UTC;
// end_date covers the whole day.
func auditFilter(r *http.Request) (audit.QueryFilter, int, error) {
	f := audit.QueryFilter{
		Category:  normalize.QueryParam(query.Get(r, "category")),
		EventType: normalize.QueryParam(query.Get(r, "event_type")),
		Limit:     audit.DefaultLimit,
	}
	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return f, 0, apperr.BadRequest("limit must be a positive number")
		}
		f.Limit = int64(n)
	}
	if f.Limit > audit.MaxLimit {
		f.Limit = audit.MaxLimit
	}

	page := 1
	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			page = n
		}
	}
	f.Offset = int64(page-1) * f.Limit

	if s := query.Get(r, "ideaId"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, 0, apperr.BadRequest("Invalid idea id")
		}
		f.IdeaID = &oid
	}
	if s := query.Get(r, "start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, 0, apperr.BadRequest("start_date must be YYYY-MM-DD")
		}
		f.StartTime = &t
	}
	if s := query.Get(r, "end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, 0, apperr.BadRequest("end_date must be YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f, page, nil
}

// ServeAudit handles GET /api/admin/audit: recorded moderation and
// contribution decisions, newest first.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	f, page, err := auditFilter(r)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin.audit")
	defer cancel()

	events, err := h.events.Query(ctx, f)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	total, err := h.events.CountByFilter(ctx, f)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Page(w, events, apiresp.NewPagination(page, int(f.Limit), total))
}
