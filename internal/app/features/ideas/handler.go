// internal/app/features/ideas/handler.go
package ideas

import (
	"errors"
	"net/http"

	contributionstore "github.com/dalemusser/hearmeout/internal/app/store/contributions"
	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the ideas feature.
type Handler struct {
	DB    *mongo.Database
	Err   *apiresp.ErrorWriter
	Log   *zap.Logger
	Audit *auditlog.Logger

	// Likes limits like toggles per subject. Nil disables limiting.
	Likes *ratelimit.Limiter

	users    *userstore.Store
	ideas    *ideastore.Store
	contribs *contributionstore.Store
}

// NewHandler constructs an ideas Handler. auditLog and likes may be nil.
func NewHandler(db *mongo.Database, errw *apiresp.ErrorWriter, auditLog *auditlog.Logger, likes *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Err:      errw,
		Log:      logger,
		Audit:    auditLog,
		Likes:    likes,
		users:    userstore.New(db),
		ideas:    ideastore.New(db),
		contribs: contributionstore.New(db),
	}
}

func ideaID(r *http.Request) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("Invalid idea id")
	}
	return oid, nil
}

// storeError translates idea store sentinels into API errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, ideastore.ErrNotFound):
		return apperr.NotFound("Idea not found")
	case errors.Is(err, ideastore.ErrStatusChanged):
		return apperr.Conflict("Idea status changed while updating; reload and try again")
	}
	return err
}
