// Package present shapes stored documents into API responses, attaching the
// creator, contributor and idea summaries that Mongo stores only as ids.
package present

import (
	"context"

	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	userstore "github.com/dalemusser/hearmeout/internal/app/store/users"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea is an idea as returned by the API.
type Idea struct {
	models.Idea
	Creator *models.UserSummary `json:"creator"`
	Liked   *bool               `json:"liked,omitempty"`
}

// Contribution is a contribution as returned by the API.
type Contribution struct {
	models.Contribution
	Idea        *models.IdeaSummary `json:"idea"`
	Contributor *models.UserSummary `json:"contributor"`
}

// Ideas attaches creator summaries. When subject is non-empty each idea also
// reports whether that subject has liked it.
func Ideas(ctx context.Context, users *userstore.Store, ideas []models.Idea, subject string) ([]Idea, error) {
	ids := make([]primitive.ObjectID, 0, len(ideas))
	for _, i := range ideas {
		ids = append(ids, i.Creator)
	}
	creators, err := users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Idea, 0, len(ideas))
	for _, i := range ideas {
		v := Idea{Idea: i}
		if c, ok := creators[i.Creator]; ok {
			v.Creator = &c
		}
		if subject != "" {
			liked := i.LikedBySubject(subject)
			v.Liked = &liked
		}
		out = append(out, v)
	}
	return out, nil
}

// OneIdea is Ideas for a single idea.
func OneIdea(ctx context.Context, users *userstore.Store, idea models.Idea, subject string) (Idea, error) {
	views, err := Ideas(ctx, users, []models.Idea{idea}, subject)
	if err != nil {
		return Idea{}, err
	}
	return views[0], nil
}

// Contributions attaches idea and contributor summaries.
func Contributions(ctx context.Context, users *userstore.Store, ideas *ideastore.Store, rows []models.Contribution) ([]Contribution, error) {
	ideaIDs := make([]primitive.ObjectID, 0, len(rows))
	userIDs := make([]primitive.ObjectID, 0, len(rows))
	for _, c := range rows {
		ideaIDs = append(ideaIDs, c.Idea)
		userIDs = append(userIDs, c.Contributor)
	}
	ideaSums, err := ideas.Summaries(ctx, ideaIDs)
	if err != nil {
		return nil, err
	}
	userSums, err := users.Summaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Contribution, 0, len(rows))
	for _, c := range rows {
		v := Contribution{Contribution: c}
		if s, ok := ideaSums[c.Idea]; ok {
			v.Idea = &s
		}
		if s, ok := userSums[c.Contributor]; ok {
			v.Contributor = &s
		}
		out = append(out, v)
	}
	return out, nil
}

// OneContribution is Contributions for a single row.
func OneContribution(ctx context.Context, users *userstore.Store, ideas *ideastore.Store, c models.Contribution) (Contribution, error) {
	views, err := Contributions(ctx, users, ideas, []models.Contribution{c})
	if err != nil {
		return Contribution{}, err
	}
	return views[0], nil
}
