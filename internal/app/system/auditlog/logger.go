// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/hearmeout/internal/app/store/audit"
	"github.com/dalemusser/hearmeout/internal/app/system/ratelimit"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by each Config field.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Moderation controls logging for idea approve/reject and lifecycle changes.
	Moderation string
	// Contribution controls logging for offer decisions and cancellations.
	Contribution string
}

// ValidDest reports whether s is an accepted destination.
func ValidDest(s string) bool {
	switch s {
	case DestAll, DestDB, DestLog, DestOff:
		return true
	}
	return false
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// Actor identifies who performed an audited action.
type Actor struct {
	ID      primitive.ObjectID
	Subject string
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event models.AuditEvent) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.ActorSubject != "" {
		fields = append(fields, zap.String("actor_subject", event.ActorSubject))
	}
	if event.IdeaID != nil {
		fields = append(fields, zap.String("idea_id", event.IdeaID.Hex()))
	}
	if event.ContributionID != nil {
		fields = append(fields, zap.String("contribution_id", event.ContributionID.Hex()))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	l.zapLog.Info("audit event", fields...)
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event models.AuditEvent) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryModeration:
		setting = l.config.Moderation
	case audit.CategoryContribution:
		setting = l.config.Contribution
	default:
		setting = DestAll
	}
	if setting == "" {
		setting = DestAll
	}

	if setting == DestOff {
		return
	}

	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}

	if setting == DestAll || setting == DestDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, actor Actor, category, eventType string) models.AuditEvent {
	e := models.AuditEvent{
		Category:     category,
		EventType:    eventType,
		ActorSubject: actor.Subject,
		IP:           ratelimit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	}
	if !actor.ID.IsZero() {
		id := actor.ID
		e.ActorID = &id
	}
	return e
}

// --- Moderation Events ---

// IdeaApproved logs a moderator moving an idea from pending-review to active.
func (l *Logger) IdeaApproved(ctx context.Context, r *http.Request, actor Actor, ideaID primitive.ObjectID, title string) {
	e := base(r, actor, audit.CategoryModeration, audit.EventIdeaApproved)
	e.IdeaID = &ideaID
	e.Details = map[string]string{"title": title}
	l.Log(ctx, e)
}

// IdeaRejected logs a moderator rejecting an idea.
func (l *Logger) IdeaRejected(ctx context.Context, r *http.Request, actor Actor, ideaID primitive.ObjectID, title, reason string) {
	e := base(r, actor, audit.CategoryModeration, audit.EventIdeaRejected)
	e.IdeaID = &ideaID
	e.Details = map[string]string{"title": title, "reason": reason}
	l.Log(ctx, e)
}

// IdeaStatusChanged logs a creator moving their idea along its lifecycle.
func (l *Logger) IdeaStatusChanged(ctx context.Context, r *http.Request, actor Actor, ideaID primitive.ObjectID, from, to string) {
	e := base(r, actor, audit.CategoryModeration, audit.EventIdeaStatusChanged)
	e.IdeaID = &ideaID
	e.Details = map[string]string{"from": from, "to": to}
	l.Log(ctx, e)
}

// IdeaDeleted logs a creator deleting an idea along with its offers.
func (l *Logger) IdeaDeleted(ctx context.Context, r *http.Request, actor Actor, ideaID primitive.ObjectID, title string, contributionsRemoved int64) {
	e := base(r, actor, audit.CategoryModeration, audit.EventIdeaDeleted)
	e.IdeaID = &ideaID
	e.Details = map[string]string{"title": title, "contributions_removed": strconv.FormatInt(contributionsRemoved, 10)}
	l.Log(ctx, e)
}

// --- Contribution Events ---

var contributionEvents = map[string]string{
	models.ContributionAccepted:  audit.EventContributionAccepted,
	models.ContributionRejected:  audit.EventContributionRejected,
	models.ContributionCompleted: audit.EventContributionCompleted,
	models.ContributionCancelled: audit.EventContributionCancelled,
}

// ContributionDecided logs a contribution moving to a new status. Statuses
// without a matching event are ignored.
func (l *Logger) ContributionDecided(ctx context.Context, r *http.Request, actor Actor, c models.Contribution) {
	eventType, ok := contributionEvents[c.Status]
	if !ok {
		return
	}
	e := base(r, actor, audit.CategoryContribution, eventType)
	ideaID, contribID := c.Idea, c.ID
	e.IdeaID = &ideaID
	e.ContributionID = &contribID
	e.Details = map[string]string{
		"type":           c.Type,
		"contributor_id": c.Contributor.Hex(),
	}
	l.Log(ctx, e)
}
