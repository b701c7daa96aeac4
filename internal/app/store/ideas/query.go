// internal/app/store/ideas/query.go
package ideastore

import (
	"strings"

	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sort orders accepted by the public listing.
const (
	SortNewest   = "newest"
	SortPopular  = "popular"
	SortTrending = "trending"
	SortFunded   = "funded"
)

// ListFilter describes a public idea listing query. Zero values mean "no
// constraint", except Status which defaults to active.
type ListFilter struct {
	Status       string
	Category     string
	Stage        string
	ResourceType string
	Tags         []string
	Search       string
	Creator      primitive.ObjectID
	Sort         string
}

// BuildListQuery turns f into a Mongo filter and sort. Only public ideas are
// ever listed.
func BuildListQuery(f ListFilter) (bson.M, bson.D) {
	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = models.IdeaActive
	}
	filter := bson.M{
		"is_public": true,
		"status":    status,
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Stage != "" {
		filter["stage"] = f.Stage
	}
	if f.ResourceType != "" {
		// An idea qualifies only while it still needs that resource.
		filter["resources"] = bson.M{"$elemMatch": bson.M{
			"type":      f.ResourceType,
			"fulfilled": false,
		}}
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$all": f.Tags}
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		filter["$text"] = bson.M{"$search": s}
	}
	if !f.Creator.IsZero() {
		filter["creator"] = f.Creator
	}
	return filter, SortFor(f.Sort)
}

// SortFor maps a sort name to its Mongo sort document. Unknown names sort
// newest first. Every order ends on _id so pages are stable.
func SortFor(name string) bson.D {
	switch name {
	case SortPopular:
		return bson.D{{Key: "like_count", Value: -1}, {Key: "_id", Value: -1}}
	case SortTrending:
		return bson.D{{Key: "view_count", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	case SortFunded:
		return bson.D{{Key: "contribution_count", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}
