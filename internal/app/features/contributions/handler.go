// internal/app/features/contributions/handler.go
package contributions

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

// Handler is the shared dependency container for the contributions feature.
type Handler struct {
	DB    *mongo.Database
	Err   *apiresp.ErrorWriter
	Log   *zap.Logger
	Audit *auditlog.Logger

	// Offers limits new offers per subject. Nil disables limiting.
	Offers *ratelimit.Limiter

	users    *userstore.Store
	ideas    *ideastore.Store
	contribs *contributionstore.Store
}

// NewHandler constructs a contributions Handler. auditLog and offers may be nil.
func NewHandler(db *mongo.Database, errw *apiresp.ErrorWriter, auditLog *auditlog.Logger, offers *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Err:      errw,
		Log:      logger,
		Audit:    auditLog,
		Offers:   offers,
		users:    userstore.New(db),
		ideas:    ideastore.New(db),
		contribs: contributionstore.New(db),
	}
}

func objectID(r *http.Request, param, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("Invalid " + what + " id")
	}
	return oid, nil
}

// storeError translates store sentinels into API errors. changed is the
// message used when the contribution moved on before the write landed.
func storeError(err error, changed string) error {
	switch {
	case errors.Is(err, contributionstore.ErrNotFound):
		return apperr.NotFound("Contribution not found")
	case errors.Is(err, contributionstore.ErrStatusChanged):
		return apperr.BadRequest(changed)
	case errors.Is(err, contributionstore.ErrDuplicatePending):
		return apperr.Conflict("You already have a pending contribution for this idea")
	case errors.Is(err, ideastore.ErrNotFound):
		return apperr.NotFound("Idea not found")
	}
	return err
}
