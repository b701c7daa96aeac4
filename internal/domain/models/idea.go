// internal/domain/models/idea.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceRequest is a need embedded in an Idea. It has no lifecycle of its own.
type ResourceRequest struct {
	Type        string   `bson:"type" json:"type"`
	Description string   `bson:"description" json:"description"`
	Amount      *float64 `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency    string   `bson:"currency,omitempty" json:"currency,omitempty"`
	Equity      *float64 `bson:"equity,omitempty" json:"equity,omitempty"` // percent, 0-100
	Fulfilled   bool     `bson:"fulfilled" json:"fulfilled"`
}

// Idea is a submitted concept with moderation status and resource needs.
//
// Creator is set once at creation and never rewritten. LikedBy holds subject
// ids (not user ObjectIDs) so a like can be toggled straight from JWT claims.
type Idea struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Tagline     string             `bson:"tagline" json:"tagline"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Stage       string             `bson:"stage" json:"stage"`
	Status      string             `bson:"status" json:"status"`
	Creator     primitive.ObjectID `bson:"creator" json:"-"`

	CoverImage string            `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Images     []string          `bson:"images" json:"images"`
	Resources  []ResourceRequest `bson:"resources" json:"resources"`
	Tags       []string          `bson:"tags" json:"tags"`

	ViewCount         int      `bson:"view_count" json:"viewCount"`
	LikeCount         int      `bson:"like_count" json:"likeCount"`
	ContributionCount int      `bson:"contribution_count" json:"contributionCount"`
	LikedBy           []string `bson:"liked_by" json:"-"`

	IsPublic        bool   `bson:"is_public" json:"isPublic"`
	RejectionReason string `bson:"rejection_reason,omitempty" json:"rejectionReason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// VisibleTo reports whether the idea may be read by the given user id.
// Public ideas are visible to everyone, including anonymous callers
// (userID == NilObjectID); private ideas only to their creator.
func (i *Idea) VisibleTo(userID primitive.ObjectID) bool {
	if i.IsPublic {
		return true
	}
	return userID != primitive.NilObjectID && i.Creator == userID
}

// LikedBySubject reports whether the subject id is in LikedBy.
func (i *Idea) LikedBySubject(subject string) bool {
	for _, s := range i.LikedBy {
		if s == subject {
			return true
		}
	}
	return false
}
