// internal/app/store/contributions/contributionstore.go
package contributionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hearmeout/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no contribution matches.
	ErrNotFound = errors.New("contribution not found")
	// ErrDuplicatePending is returned when the contributor already has a
	// pending offer on the idea. The unique partial index is the only guard.
	ErrDuplicatePending = errors.New("you already have a pending contribution for this idea")
	// ErrStatusChanged is returned when a conditional status write finds the
	// contribution in a different status than expected.
	ErrStatusChanged = errors.New("contribution status has changed")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contributions")}
}

// Insert stores a new pending contribution.
func (s *Store) Insert(ctx context.Context, c models.Contribution) (models.Contribution, error) {
	now := time.Now().UTC()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Status == "" {
		c.Status = models.ContributionPending
	}
	if c.Currency == "" {
		c.Currency = models.DefaultCurrency
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Contribution{}, ErrDuplicatePending
		}
		return models.Contribution{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contribution, error) {
	var c models.Contribution
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// SetStatus moves a contribution from one status to another in a single
// conditional write. A non-empty responseMessage is stored alongside.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, from, to, responseMessage string) (*models.Contribution, error) {
	set := bson.M{"status": to, "updated_at": time.Now().UTC()}
	if responseMessage != "" {
		set["response_message"] = responseMessage
	}

	var c models.Contribution
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, gerr := s.GetByID(ctx, id); gerr != nil {
		return nil, gerr
	}
	return nil, ErrStatusChanged
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Contribution, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Contribution{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByContributor returns the offers a user has made, newest first.
func (s *Store) ByContributor(ctx context.Context, contributor primitive.ObjectID) ([]models.Contribution, error) {
	return s.find(ctx, bson.M{"contributor": contributor})
}

// ByIdeas returns every offer made on any of the given ideas, newest first.
func (s *Store) ByIdeas(ctx context.Context, ideas []primitive.ObjectID) ([]models.Contribution, error) {
	if len(ideas) == 0 {
		return []models.Contribution{}, nil
	}
	return s.find(ctx, bson.M{"idea": bson.M{"$in": ideas}})
}

// PublicStatuses are the statuses shown on an idea's contributor list.
var PublicStatuses = []string{models.ContributionAccepted, models.ContributionCompleted}

// PublicByIdea returns the accepted and completed offers on an idea.
func (s *Store) PublicByIdea(ctx context.Context, idea primitive.ObjectID) ([]models.Contribution, error) {
	return s.find(ctx, bson.M{"idea": idea, "status": bson.M{"$in": PublicStatuses}})
}

// DeleteByIdea removes every contribution on an idea.
func (s *Store) DeleteByIdea(ctx context.Context, idea primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"idea": idea})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FundingRaised sums the amount of accepted and completed funding offers on
// the given ideas.
func (s *Store) FundingRaised(ctx context.Context, ideas []primitive.ObjectID) (float64, error) {
	if len(ideas) == 0 {
		return 0, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"idea":   bson.M{"$in": ideas},
			"type":   models.ResourceFunding,
			"status": bson.M{"$in": PublicStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$amount", 0.0}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
