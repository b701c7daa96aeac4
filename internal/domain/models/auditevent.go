// internal/domain/models/auditevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent records a moderation or contribution decision.
type AuditEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"eventType"`

	ActorID        *primitive.ObjectID `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	ActorSubject   string              `bson:"actor_subject,omitempty" json:"-"`
	IdeaID         *primitive.ObjectID `bson:"idea_id,omitempty" json:"ideaId,omitempty"`
	ContributionID *primitive.ObjectID `bson:"contribution_id,omitempty" json:"contributionId,omitempty"`

	IP        string `bson:"ip" json:"ip"`
	UserAgent string `bson:"user_agent,omitempty" json:"userAgent,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}
