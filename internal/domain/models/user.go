// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Roles is the set of allowed User.Role values.
var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

// User is keyed by the identity provider's subject id (Auth0ID).
//
// NOTE:
//   - IdeasCount and ContributionsCount are denormalized counters maintained
//     alongside idea and contribution lifecycle writes.
//   - Auth0ID is never serialized to JSON; public profiles must not expose it.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Auth0ID string             `bson:"auth0_id" json:"-"`
	Email   string             `bson:"email" json:"email"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Picture string             `bson:"picture,omitempty" json:"picture,omitempty"`

	Bio       string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Location  string   `bson:"location,omitempty" json:"location,omitempty"`
	Website   string   `bson:"website,omitempty" json:"website,omitempty"`
	Expertise []string `bson:"expertise" json:"expertise"`

	Role string `bson:"role" json:"role"` // user | moderator | admin

	Reputation         int `bson:"reputation" json:"reputation"`
	IdeasCount         int `bson:"ideas_count" json:"ideasCount"`
	ContributionsCount int `bson:"contributions_count" json:"contributionsCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsModerator reports whether the stored role grants moderation rights.
func (u *User) IsModerator() bool {
	return u != nil && (u.Role == RoleModerator || u.Role == RoleAdmin)
}

// UserSummary is the slice of a User embedded in idea and contribution responses.
type UserSummary struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Picture    string             `bson:"picture,omitempty" json:"picture,omitempty"`
	Bio        string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Expertise  []string           `bson:"expertise,omitempty" json:"expertise,omitempty"`
	Reputation int                `bson:"reputation" json:"reputation"`
}
