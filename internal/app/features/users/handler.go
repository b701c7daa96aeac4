// internal/app/features/users/handler.go
package users

import (
	contributionstore "github.com/dalemusser/hearmeout/internal/app/store/contributions"
	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the users feature.
type Handler struct {
	DB  *mongo.Database
	Err *apiresp.ErrorWriter
	Log *zap.Logger

	users    *userstore.Store
	ideas    *ideastore.Store
	contribs *contributionstore.Store
}

// NewHandler constructs a users Handler. It is called from BuildHandler once
// the database and logger exist.
func NewHandler(db *mongo.Database, errw *apiresp.ErrorWriter, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Err:      errw,
		Log:      logger,
		users:    userstore.New(db),
		ideas:    ideastore.New(db),
		contribs: contributionstore.New(db),
	}
}
