package users

import (
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/payload"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeMe handles GET /api/users/me: the caller's record, created on first
// sight from the token claims.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.me")
	defer cancel()

	claims := jwtauth.ClaimsFrom(r.Context())
	if claims == nil || claims.Subject == "" {
		h.Err.Write(w, r, apperr.Unauthorized("Unauthorized"))
		return
	}
	u, created, err := h.users.GetOrCreate(ctx, caller.Identity(claims))
	if err != nil {
		h.Err.Write(w, r, caller.MapError(err))
		return
	}
	if created {
		h.Log.Info("user created", zap.String("user_id", u.ID.Hex()))
	}
	apiresp.OK(w, u)
}

type profileInput struct {
	Name      *string  `json:"name"`
	Bio       *string  `json:"bio"`
	Location  *string  `json:"location"`
	Website   *string  `json:"website"`
	Expertise []string `json:"expertise"`
}

func plain(p *string) *string {
	if p == nil {
		return nil
	}
	s := htmlsanitize.PlainText(*p)
	return &s
}

// HandleUpdateMe handles PUT /api/users/me. Only profile fields are
// writable; anything else in the body is ignored.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in profileInput
	if err := payload.Decode(r, payload.ProfileUpdate, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.update")
	defer cancel()

	u, err := h.users.UpdateProfile(ctx, jwtauth.Subject(r.Context()), userstore.ProfileUpdate{
		Name:      plain(in.Name),
		Bio:       plain(in.Bio),
		Location:  plain(in.Location),
		Website:   in.Website,
		Expertise: in.Expertise,
	})
	if err != nil {
		h.Err.Write(w, r, caller.MapError(err))
		return
	}
	apiresp.OK(w, u)
}

// HandleDeleteMe handles DELETE /api/users/me. The caller's ideas and offers
// are left in place.
func (h *Handler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.delete")
	defer cancel()

	if _, err := h.users.DeleteByAuth0ID(ctx, jwtauth.Subject(r.Context())); err != nil {
		h.Err.Write(w, r, err)
		return
	}
	apiresp.Message(w, nil, "Account deleted successfully")
}
