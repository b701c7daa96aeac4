// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryModeration   = "moderation"
	CategoryContribution = "contribution"
)

// Moderation event types
const (
	EventIdeaApproved      = "idea_approved"
	EventIdeaRejected      = "idea_rejected"
	EventIdeaStatusChanged = "idea_status_changed"
	EventIdeaDeleted       = "idea_deleted"
)

// Contribution event types
const (
	EventContributionAccepted  = "contribution_accepted"
	EventContributionRejected  = "contribution_rejected"
	EventContributionCompleted = "contribution_completed"
	EventContributionCancelled = "contribution_cancelled"
)

// DefaultLimit and MaxLimit bound Query results.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	Category  string
	EventType string
	ActorID   *primitive.ObjectID
	IdeaID    *primitive.ObjectID
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

func (f QueryFilter) bson() bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.EventType != "" {
		query["event_type"] = f.EventType
	}
	if f.ActorID != nil {
		query["actor_id"] = f.ActorID
	}
	if f.IdeaID != nil {
		query["idea_id"] = f.IdeaID
	}
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event models.AuditEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query retrieves audit events matching the given filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]models.AuditEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.AuditEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.bson())
}

// GetRecent retrieves the most recent audit events.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]models.AuditEvent, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

// GetByIdea retrieves recent audit events for one idea.
func (s *Store) GetByIdea(ctx context.Context, ideaID primitive.ObjectID, limit int64) ([]models.AuditEvent, error) {
	return s.Query(ctx, QueryFilter{IdeaID: &ideaID, Limit: limit})
}
