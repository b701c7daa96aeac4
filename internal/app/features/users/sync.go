package users

import (
	"net/http"
	"strings"

	"github.com/dalemusser/hearmeout/internal/app/features/shared/caller"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/payload"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
)

type syncInput struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// firstNonBlank returns a, or b when a is blank.
func firstNonBlank(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// HandleSync handles POST /api/users/sync, called by the client right after
// login. Subject and email always come from the token; a body email is
// ignored because nothing vouches for it. Body name and picture fill in
// whatever the token lacks.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var in syncInput
	if err := payload.Decode(r, payload.UserSync, &in); err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.sync")
	defer cancel()

	tok := caller.Identity(jwtauth.ClaimsFrom(r.Context()))
	if tok.Subject == "" {
		h.Err.Write(w, r, apperr.Unauthorized("Unauthorized"))
		return
	}
	u, err := h.users.Sync(ctx, userstore.Identity{
		Subject: tok.Subject,
		Email:   tok.Email,
		Name:    firstNonBlank(tok.Name, in.Name),
		Picture: firstNonBlank(in.Picture, tok.Picture),
	})
	if err != nil {
		h.Err.Write(w, r, caller.MapError(err))
		return
	}
	apiresp.OK(w, u)
}
