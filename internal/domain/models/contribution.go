// internal/domain/models/contribution.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution statuses.
const (
	ContributionPending   = "pending"
	ContributionAccepted  = "accepted"
	ContributionRejected  = "rejected"
	ContributionCompleted = "completed"
	ContributionCancelled = "cancelled"
)

// ContributionStatuses is the full set of allowed Contribution.Status values.
var ContributionStatuses = []string{
	ContributionPending,
	ContributionAccepted,
	ContributionRejected,
	ContributionCompleted,
	ContributionCancelled,
}

// Contribution is an offer of a resource from one user toward another user's Idea.
//
// At most one pending contribution may exist per (Idea, Contributor); the
// contributions collection carries a unique partial index that enforces it.
type Contribution struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Idea        primitive.ObjectID `bson:"idea" json:"-"`
	Contributor primitive.ObjectID `bson:"contributor" json:"-"`

	Type          string   `bson:"type" json:"type"`
	Description   string   `bson:"description" json:"description"`
	Amount        *float64 `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency      string   `bson:"currency,omitempty" json:"currency,omitempty"`
	EquityOffered *float64 `bson:"equity_offered,omitempty" json:"equityOffered,omitempty"`

	Status          string `bson:"status" json:"status"`
	Message         string `bson:"message" json:"message"`
	Terms           string `bson:"terms,omitempty" json:"terms,omitempty"`
	ResponseMessage string `bson:"response_message,omitempty" json:"responseMessage,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IdeaSummary is the slice of an Idea embedded in contribution responses.
type IdeaSummary struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Title   string             `bson:"title" json:"title"`
	Status  string             `bson:"status" json:"status"`
	Creator primitive.ObjectID `bson:"creator" json:"-"`
}
