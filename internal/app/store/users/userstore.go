package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Placeholders stored when the identity token carries no email or name.
const (
	PlaceholderName  = "Anonymous"
	PlaceholderEmail = "unknown@example.com"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when another account already owns the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByAuth0ID loads a user by identity-provider subject.
func (s *Store) GetByAuth0ID(ctx context.Context, subject string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"auth0_id": subject})
}

// Identity is what the token (or a sync request) tells us about a caller.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// placeholderEmail derives a per-subject placeholder so the unique email
// index never collides between anonymous accounts.
func placeholderEmail(subject string) string {
	local := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		}
		return '-'
	}, text.Fold(subject))
	if local == "" {
		return PlaceholderEmail
	}
	return "unknown+" + local + "@example.com"
}

func newUser(id Identity) models.User {
	now := time.Now().UTC()
	name := normalize.Name(id.Name)
	if name == "" {
		name = PlaceholderName
	}
	email := normalize.Email(id.Email)
	if email == "" {
		email = placeholderEmail(id.Subject)
	}
	return models.User{
		ID:        primitive.NewObjectID(),
		Auth0ID:   id.Subject,
		Email:     email,
		Name:      name,
		NameCI:    text.Fold(name),
		Picture:   strings.TrimSpace(id.Picture),
		Expertise: []string{},
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetOrCreate returns the user for id.Subject, creating it on first sight.
// Two concurrent first requests for the same subject both get the single
// stored record: the loser of the insert race re-reads it.
func (s *Store) GetOrCreate(ctx context.Context, id Identity) (*models.User, bool, error) {
	u, err := s.GetByAuth0ID(ctx, id.Subject)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	nu := newUser(id)
	if _, err := s.c.InsertOne(ctx, nu); err != nil {
		if wafflemongo.IsDup(err) {
			if existing, rerr := s.GetByAuth0ID(ctx, id.Subject); rerr == nil {
				return existing, false, nil
			}
			return nil, false, ErrDuplicateEmail
		}
		return nil, false, err
	}
	return &nu, true, nil
}

// Sync creates the user when absent, otherwise refreshes the stored picture
// if the identity carries a different one.
func (s *Store) Sync(ctx context.Context, id Identity) (*models.User, error) {
	u, created, err := s.GetOrCreate(ctx, id)
	if err != nil || created {
		return u, err
	}
	pic := strings.TrimSpace(id.Picture)
	if pic == "" || pic == u.Picture {
		return u, nil
	}
	return s.updateOne(ctx, bson.M{"_id": u.ID}, bson.M{"picture": pic})
}

// ProfileUpdate lists the self-editable fields. Nil fields are left alone.
type ProfileUpdate struct {
	Name      *string
	Bio       *string
	Location  *string
	Website   *string
	Expertise []string
}

func (p ProfileUpdate) set() bson.M {
	set := bson.M{}
	if p.Name != nil {
		if n := normalize.Name(*p.Name); n != "" {
			set["name"] = n
			set["name_ci"] = text.Fold(n)
		}
	}
	if p.Bio != nil {
		set["bio"] = strings.TrimSpace(*p.Bio)
	}
	if p.Location != nil {
		set["location"] = strings.TrimSpace(*p.Location)
	}
	if p.Website != nil {
		set["website"] = strings.TrimSpace(*p.Website)
	}
	if p.Expertise != nil {
		exp := make([]string, 0, len(p.Expertise))
		for _, e := range p.Expertise {
			if e = strings.TrimSpace(e); e != "" {
				exp = append(exp, e)
			}
		}
		set["expertise"] = exp
	}
	return set
}

// UpdateProfile applies upd to the subject's record and returns the result.
func (s *Store) UpdateProfile(ctx context.Context, subject string, upd ProfileUpdate) (*models.User, error) {
	return s.updateOne(ctx, bson.M{"auth0_id": subject}, upd.set())
}

func (s *Store) updateOne(ctx context.Context, filter bson.M, set bson.M) (*models.User, error) {
	set["updated_at"] = time.Now().UTC()
	var u models.User
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DeleteByAuth0ID removes the subject's account. Deleting an absent account
// is not an error.
func (s *Store) DeleteByAuth0ID(ctx context.Context, subject string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"auth0_id": subject})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns users newest first.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// IncIdeasCount adds delta to the user's ideas_count, never going below zero.
func (s *Store) IncIdeasCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	return s.incCounter(ctx, id, "ideas_count", delta)
}

// IncContributionsCount adds delta to the user's contributions_count, never
// going below zero.
func (s *Store) IncContributionsCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	return s.incCounter(ctx, id, "contributions_count", delta)
}

func (s *Store) incCounter(ctx context.Context, id primitive.ObjectID, field string, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter[field] = bson.M{"$gte": -delta}
	}
	_, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{field: delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}
