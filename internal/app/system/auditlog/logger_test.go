package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/hearmeout/internal/app/store/audit"
	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/dalemusser/hearmeout/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("PUT", "/", nil)

	logger.Log(ctx, models.AuditEvent{EventType: "test"})
	logger.IdeaApproved(ctx, req, auditlog.Actor{}, primitive.NewObjectID(), "t")
	logger.ContributionDecided(ctx, req, auditlog.Actor{}, models.Contribution{Status: models.ContributionAccepted})
}

func TestLogger_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.New(core), auditlog.Config{
		Moderation:   auditlog.DestOff,
		Contribution: auditlog.DestOff,
	})
	req := httptest.NewRequest("PUT", "/", nil)
	logger.IdeaApproved(ctx, req, auditlog.Actor{Subject: "auth0|mod"}, primitive.NewObjectID(), "t")

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
	if logs.Len() != 0 {
		t.Errorf("expected no zap entries, got %d", logs.Len())
	}
}

func TestLogger_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.New(core), auditlog.Config{Moderation: auditlog.DestDB})
	req := httptest.NewRequest("PUT", "/", nil)
	req.Header.Set("User-Agent", "TestBrowser/1.0")

	actorID := primitive.NewObjectID()
	ideaID := primitive.NewObjectID()
	logger.IdeaRejected(ctx, req, auditlog.Actor{ID: actorID, Subject: "auth0|mod"}, ideaID, "Title", "off topic")

	events, err := store.GetByIdea(ctx, ideaID, 10)
	if err != nil {
		t.Fatalf("GetByIdea failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.EventType != audit.EventIdeaRejected || e.Category != audit.CategoryModeration {
		t.Errorf("unexpected event %s/%s", e.Category, e.EventType)
	}
	if e.ActorID == nil || *e.ActorID != actorID {
		t.Errorf("ActorID = %v, want %s", e.ActorID, actorID.Hex())
	}
	if e.Details["reason"] != "off topic" {
		t.Errorf("reason = %q", e.Details["reason"])
	}
	if e.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent = %q", e.UserAgent)
	}
	if logs.Len() != 0 {
		t.Errorf("'db' should not write zap entries, got %d", logs.Len())
	}
}

func TestLogger_ConfigLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.New(core), auditlog.Config{Contribution: auditlog.DestLog})
	req := httptest.NewRequest("PUT", "/", nil)
	logger.ContributionDecided(ctx, req, auditlog.Actor{Subject: "auth0|owner"}, models.Contribution{
		ID:          primitive.NewObjectID(),
		Idea:        primitive.NewObjectID(),
		Contributor: primitive.NewObjectID(),
		Type:        models.ResourceFunding,
		Status:      models.ContributionAccepted,
	})

	events, _ := store.GetRecent(ctx, 10)
	if len(events) != 0 {
		t.Errorf("'log' should not write to DB, got %d events", len(events))
	}
	entries := logs.FilterField(zap.String("event_type", audit.EventContributionAccepted)).All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 zap entry, got %d", len(entries))
	}
}

func TestLogger_DefaultsToAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.New(core), auditlog.Config{})
	req := httptest.NewRequest("PUT", "/", nil)
	logger.IdeaStatusChanged(ctx, req, auditlog.Actor{}, primitive.NewObjectID(), models.IdeaActive, models.IdeaFunded)

	events, _ := store.GetRecent(ctx, 10)
	if len(events) != 1 {
		t.Errorf("expected 1 DB event, got %d", len(events))
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 zap entry, got %d", logs.Len())
	}
}

func TestLogger_ContributionDecided_IgnoresPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{})
	req := httptest.NewRequest("PUT", "/", nil)
	logger.ContributionDecided(ctx, req, auditlog.Actor{}, models.Contribution{Status: models.ContributionPending})

	events, _ := store.GetRecent(ctx, 10)
	if len(events) != 0 {
		t.Errorf("pending should not be audited, got %d events", len(events))
	}
}

func TestValidDest(t *testing.T) {
	for _, s := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidDest(s) {
			t.Errorf("ValidDest(%q) = false", s)
		}
	}
	for _, s := range []string{"", "ALL", "file"} {
		if auditlog.ValidDest(s) {
			t.Errorf("ValidDest(%q) = true", s)
		}
	}
}
