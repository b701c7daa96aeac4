package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test documents directly, bypassing stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database { return f.db }

// CreateUser inserts a user with role "user". The subject doubles as the
// local part of the email so users stay unique.
func (f *Fixtures) CreateUser(ctx context.Context, subject, name string) models.User {
	f.t.Helper()
	return f.CreateUserWithRole(ctx, subject, name, models.RoleUser)
}

// CreateUserWithRole inserts a user with the given role.
func (f *Fixtures) CreateUserWithRole(ctx context.Context, subject, name, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	local := strings.NewReplacer("|", "_", " ", "_").Replace(strings.ToLower(subject))
	u := models.User{
		ID:        primitive.NewObjectID(),
		Auth0ID:   subject,
		Email:     local + "@example.com",
		Name:      name,
		NameCI:    text.Fold(name),
		Role:      role,
		Expertise: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// IdeaOption customizes a fixture idea before insert.
type IdeaOption func(*models.Idea)

// WithStatus sets the idea status.
func WithStatus(s string) IdeaOption { return func(i *models.Idea) { i.Status = s } }

// Private marks the idea as not public.
func Private() IdeaOption { return func(i *models.Idea) { i.IsPublic = false } }

// WithCategory sets the idea category.
func WithCategory(c string) IdeaOption { return func(i *models.Idea) { i.Category = c } }

// WithTags sets the idea tags.
func WithTags(tags ...string) IdeaOption { return func(i *models.Idea) { i.Tags = tags } }

// WithCounts sets view, like and contribution counters.
func WithCounts(views, likes, contributions int) IdeaOption {
	return func(i *models.Idea) {
		i.ViewCount = views
		i.LikeCount = likes
		i.ContributionCount = contributions
	}
}

// CreatedAt sets the creation time.
func CreatedAt(ts time.Time) IdeaOption {
	return func(i *models.Idea) { i.CreatedAt = ts; i.UpdatedAt = ts }
}

// CreateIdea inserts an active public idea owned by creator.
func (f *Fixtures) CreateIdea(ctx context.Context, creator primitive.ObjectID, title string, opts ...IdeaOption) models.Idea {
	f.t.Helper()

	now := time.Now().UTC()
	idea := models.Idea{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Tagline:     "Tagline for " + title,
		Description: "Description for " + title,
		Category:    models.CategoryTechnology,
		Stage:       models.StageConcept,
		Status:      models.IdeaActive,
		Creator:     creator,
		Images:      []string{},
		Resources:   []models.ResourceRequest{},
		Tags:        []string{},
		LikedBy:     []string{},
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, o := range opts {
		o(&idea)
	}
	if _, err := f.db.Collection("ideas").InsertOne(ctx, idea); err != nil {
		f.t.Fatalf("failed to create test idea: %v", err)
	}
	return idea
}

// CreateContribution inserts a contribution with the given type and status.
func (f *Fixtures) CreateContribution(ctx context.Context, idea, contributor primitive.ObjectID, typ, status string, amount *float64) models.Contribution {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Contribution{
		ID:          primitive.NewObjectID(),
		Idea:        idea,
		Contributor: contributor,
		Type:        typ,
		Description: "Offer of " + typ,
		Amount:      amount,
		Currency:    models.DefaultCurrency,
		Status:      status,
		Message:     "Happy to help",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("contributions").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test contribution: %v", err)
	}
	return c
}

// Amount returns a pointer to v, for optional numeric fields.
func Amount(v float64) *float64 { return &v }
