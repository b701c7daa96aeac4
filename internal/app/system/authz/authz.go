// internal/app/system/authz/authz.go
package authz

import (
	"strings"

	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/domain/models"
)

// ModeratorRoles are the roles that may review ideas.
var ModeratorRoles = []string{models.RoleModerator, models.RoleAdmin}

// AllowList is a set of email addresses granted moderator rights by
// configuration, independent of token roles or stored user roles.
type AllowList struct {
	emails map[string]struct{}
}

// ParseAllowList reads a comma-separated list of emails. Blank entries are
// skipped and matching is case-insensitive.
func ParseAllowList(csv string) AllowList {
	al := AllowList{emails: make(map[string]struct{})}
	for _, e := range strings.Split(csv, ",") {
		if e = normalize.Email(e); e != "" {
			al.emails[e] = struct{}{}
		}
	}
	return al
}

// Contains reports whether email is on the list.
func (a AllowList) Contains(email string) bool {
	email = normalize.Email(email)
	if email == "" || a.emails == nil {
		return false
	}
	_, ok := a.emails[email]
	return ok
}

// Len returns the number of listed emails.
func (a AllowList) Len() int { return len(a.emails) }

// IsModerator decides moderator rights on the server. Any one of these is
// enough: a moderator/admin role claim, a moderator/admin role stored on the
// user record, or the token's email claim on the allow-list. The stored
// email is never matched against the allow-list.
// Either c or u may be nil.
func IsModerator(c *jwtauth.Claims, u *models.User, allow AllowList) bool {
	if c.HasRole(ModeratorRoles...) {
		return true
	}
	if u.IsModerator() {
		return true
	}
	return c != nil && allow.Contains(c.Email)
}
