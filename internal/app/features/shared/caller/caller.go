// Package caller resolves the authenticated request's User record.
package caller

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/domain/models"
)

// Identity converts token claims into the store's identity input.
func Identity(c *jwtauth.Claims) userstore.Identity {
	if c == nil {
		return userstore.Identity{}
	}
	return userstore.Identity{
		Subject: c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
	}
}

// Resolve returns the caller's User, creating it on first sight. Users are
// created lazily on the first authenticated request of any kind.
func Resolve(ctx context.Context, users *userstore.Store, c *jwtauth.Claims) (*models.User, error) {
	if c == nil || c.Subject == "" {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	u, _, err := users.GetOrCreate(ctx, Identity(c))
	return u, MapError(err)
}

// MapError translates user store errors into API errors.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, userstore.ErrNotFound):
		return apperr.NotFound("User not found")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return apperr.Conflict("A user with this email already exists")
	}
	return err
}
