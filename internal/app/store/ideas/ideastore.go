// internal/app/store/ideas/ideastore.go
package ideastore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no idea matches.
	ErrNotFound = errors.New("idea not found")
	// ErrStatusChanged is returned when a conditional status write finds the
	// idea in a different status than expected.
	ErrStatusChanged = errors.New("idea status has changed")
)

// Trending and featured list sizes.
const (
	TrendingLimit = 6
	FeaturedLimit = 3
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ideas")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	var i models.Idea
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&i); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// Insert stores a new idea. ID, timestamps and nil slices are filled in.
func (s *Store) Insert(ctx context.Context, i models.Idea) (models.Idea, error) {
	now := time.Now().UTC()
	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}
	i.CreatedAt = now
	i.UpdatedAt = now
	if i.Images == nil {
		i.Images = []string{}
	}
	if i.Resources == nil {
		i.Resources = []models.ResourceRequest{}
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
	if i.LikedBy == nil {
		i.LikedBy = []string{}
	}
	if _, err := s.c.InsertOne(ctx, i); err != nil {
		return models.Idea{}, err
	}
	return i, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Idea, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Idea{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns one page of the public listing described by f, plus the total
// number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, skip, limit int64) ([]models.Idea, int64, error) {
	filter, sort := BuildListQuery(f)
	opts := options.Find().SetSort(sort).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	ideas, err := s.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ideas, total, nil
}

// ByCreator returns every idea the user created, in any status, newest first.
func (s *Store) ByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Idea, error) {
	return s.find(ctx, bson.M{"creator": creator}, options.Find().SetSort(SortFor(SortNewest)))
}

// Trending returns the most viewed public active ideas.
func (s *Store) Trending(ctx context.Context) ([]models.Idea, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "view_count", Value: -1}, {Key: "like_count", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(TrendingLimit)
	return s.find(ctx, bson.M{"is_public": true, "status": models.IdeaActive}, opts)
}

// Featured returns the most liked public active ideas.
func (s *Store) Featured(ctx context.Context) ([]models.Idea, error) {
	opts := options.Find().SetSort(SortFor(SortPopular)).SetLimit(FeaturedLimit)
	return s.find(ctx, bson.M{"is_public": true, "status": models.IdeaActive}, opts)
}

// ByStatus returns ideas in the given status regardless of visibility,
// oldest first so moderators work the queue in order.
func (s *Store) ByStatus(ctx context.Context, status string) ([]models.Idea, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"status": status}, opts)
}

// All returns every idea, newest first.
func (s *Store) All(ctx context.Context) ([]models.Idea, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(SortFor(SortNewest)))
}

// Count returns the number of ideas.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns the number of ideas in status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

// CountByCreatorStatus returns the number of the creator's ideas in status.
func (s *Store) CountByCreatorStatus(ctx context.Context, creator primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"creator": creator, "status": status})
}

// IDsByCreator returns the ids of every idea the user created.
func (s *Store) IDsByCreator(ctx context.Context, creator primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"creator": creator}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// Summaries loads idea summaries for ids in one query.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.IdeaSummary, error) {
	out := make(map[primitive.ObjectID]models.IdeaSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	proj := bson.M{"_id": 1, "title": 1, "status": 1, "creator": 1}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(proj))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var sum models.IdeaSummary
		if err := cur.Decode(&sum); err != nil {
			return nil, err
		}
		out[sum.ID] = sum
	}
	return out, cur.Err()
}

// IncView adds one to view_count and returns the updated idea.
func (s *Store) IncView(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	return s.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
}

// IncContributionCount adds delta to contribution_count, never going below zero.
func (s *Store) IncContributionCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["contribution_count"] = bson.M{"$gte": -delta}
	}
	_, err := s.c.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"contribution_count": delta}})
	return err
}

func (s *Store) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Idea, error) {
	var i models.Idea
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&i)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// Delete removes the idea. It reports whether a document was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
