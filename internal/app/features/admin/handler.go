// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	"github.com/dalemusser/hearmeout/internal/app/store/audit"
	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/app/system/authz"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the admin feature.
type Handler struct {
	DB    *mongo.Database
	Err   *apiresp.ErrorWriter
	Log   *zap.Logger
	Audit *auditlog.Logger

	// Allow grants moderator rights by email, on top of role claims and
	// stored roles.
	Allow authz.AllowList

	users  *userstore.Store
	ideas  *ideastore.Store
	events *audit.Store
}

// NewHandler constructs an admin Handler.
func NewHandler(db *mongo.Database, errw *apiresp.ErrorWriter, auditLog *auditlog.Logger, allow authz.AllowList, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Err:    errw,
		Log:    logger,
		Audit:  auditLog,
		Allow:  allow,
		users:  userstore.New(db),
		ideas:  ideastore.New(db),
		events: audit.New(db),
	}
}

type moderatorKey struct{}

// RequireModerator admits only callers with moderator rights. It runs after
// RequireAuth and stores the resolved user for the handlers.
func (h *Handler) RequireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin.moderator")
		claims := jwtauth.ClaimsFrom(r.Context())
		u, err := caller.Resolve(ctx, h.users, claims)
		cancel()
		if err != nil {
			h.Err.Write(w, r, err)
			return
		}
		if !authz.IsModerator(claims, u, h.Allow) {
			h.Log.Warn("moderator access denied",
				zap.String("user_id", u.ID.Hex()),
				zap.String("path", r.URL.Path))
			h.Err.Write(w, r, apperr.Forbidden("Moderator access required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), moderatorKey{}, u)))
	})
}

func moderator(r *http.Request) auditlog.Actor {
	u, _ := r.Context().Value(moderatorKey{}).(*models.User)
	if u == nil {
		return auditlog.Actor{Subject: jwtauth.Subject(r.Context())}
	}
	return auditlog.Actor{ID: u.ID, Subject: u.Auth0ID}
}
