package jwtauth

import (
	"net/http"
	"strings"

	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"go.uber.org/zap"
)

// bearerToken returns the token from an "Authorization: Bearer <t>" header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func deny(w http.ResponseWriter, status int, msg string) {
	apiresp.JSON(w, status, apiresp.Envelope{Success: false, Error: msg})
}

// RequireAuth rejects requests without a valid bearer token with 401.
// A nil Verifier (auth not configured) rejects every request.
func (v *Verifier) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Claims already placed by an outer middleware (or a test) are trusted.
		if ClaimsFrom(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}
		if v == nil {
			deny(w, http.StatusUnauthorized, "authentication is not configured")
			return
		}
		tok, ok := bearerToken(r)
		if !ok {
			deny(w, http.StatusUnauthorized, "No authorization token was found")
			return
		}
		c, err := v.Verify(r.Context(), tok)
		if err != nil {
			zap.L().Debug("jwt verification failed", zap.String("path", r.URL.Path), zap.Error(err))
			deny(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), c)))
	})
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// continues anonymously.
func (v *Verifier) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v == nil || ClaimsFrom(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}
		if tok, ok := bearerToken(r); ok {
			if c, err := v.Verify(r.Context(), tok); err == nil {
				r = r.WithContext(WithClaims(r.Context(), c))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows requests whose claims hold at least one of roles.
// Anonymous requests get 401, authenticated ones without the role 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := ClaimsFrom(r.Context())
			if c == nil {
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !c.HasRole(roles...) {
				deny(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
