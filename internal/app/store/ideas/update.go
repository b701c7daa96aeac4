package ideastore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Update lists the creator-editable fields. Nil fields are left alone;
// status is changed only through SetStatus.
type Update struct {
	Title       *string
	Tagline     *string
	Description *string
	Category    *string
	Stage       *string
	CoverImage  *string
	IsPublic    *bool
	Resources   []models.ResourceRequest
	Tags        []string
}

func (u Update) set() bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Tagline != nil {
		set["tagline"] = *u.Tagline
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Stage != nil {
		set["stage"] = *u.Stage
	}
	if u.CoverImage != nil {
		set["cover_image"] = *u.CoverImage
	}
	if u.IsPublic != nil {
		set["is_public"] = *u.IsPublic
	}
	if u.Resources != nil {
		set["resources"] = u.Resources
	}
	if u.Tags != nil {
		set["tags"] = u.Tags
	}
	return set
}

// Update applies u and returns the updated idea.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) (*models.Idea, error) {
	set := u.set()
	set["updated_at"] = time.Now().UTC()
	return s.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// SetStatus moves the idea from one status to another in a single
// conditional write. rejectionReason is stored when to is rejected and
// cleared otherwise.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, from, to, rejectionReason string) (*models.Idea, error) {
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}
	if to == models.IdeaRejected {
		update["$set"].(bson.M)["rejection_reason"] = rejectionReason
	} else {
		update["$unset"] = bson.M{"rejection_reason": ""}
	}

	i, err := s.findOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update)
	if errors.Is(err, ErrNotFound) {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, ErrStatusChanged
	}
	return i, err
}

// maxLikeAttempts bounds the retry loop when two toggles race. Each attempt
// only fails if another writer flipped the membership in between.
const maxLikeAttempts = 5

// ToggleLike flips subject's membership in liked_by and moves like_count with
// it. Each branch is a single conditional update, so the counter and the set
// can never disagree.
func (s *Store) ToggleLike(ctx context.Context, id primitive.ObjectID, subject string) (bool, int, error) {
	for attempt := 0; attempt < maxLikeAttempts; attempt++ {
		i, err := s.findOneAndUpdate(ctx,
			bson.M{"_id": id, "liked_by": subject},
			bson.M{"$pull": bson.M{"liked_by": subject}, "$inc": bson.M{"like_count": -1}})
		if err == nil {
			return false, i.LikeCount, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return false, 0, err
		}

		i, err = s.findOneAndUpdate(ctx,
			bson.M{"_id": id, "liked_by": bson.M{"$ne": subject}},
			bson.M{"$addToSet": bson.M{"liked_by": subject}, "$inc": bson.M{"like_count": 1}})
		if err == nil {
			return true, i.LikeCount, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return false, 0, err
		}

		// Neither branch matched: the idea is gone or a concurrent toggle won.
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return false, 0, gerr
		}
	}
	return false, 0, errors.New("like toggle did not settle")
}
