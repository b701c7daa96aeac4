// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/hearmeout/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup and by the test database helper. Each ensure*
function is idempotent. Errors are aggregated so every problem is reported
and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, step := range []struct {
		coll string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"ideas", ensureIdeas},
		{"contributions", ensureContributions},
		{"audit_events", ensureAuditEvents},
	} {
		if err := step.fn(ctx, db); err != nil {
			problems = append(problems, step.coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Unique  *bool  `bson:"unique,omitempty"`
	Partial bson.D `bson:"partialFilterExpression,omitempty"`
}

// keySig identifies an index by its key pattern. Text indexes are stored by
// the server as {_fts: "text", _ftsx: 1} whatever fields they cover, and a
// collection may only hold one, so every text index shares one signature.
func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		if kv.Key == "_fts" || kv.Value == "text" {
			return "text"
		}
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(p *bool) bool { return p != nil && *p }

// sameOptions reports whether an existing index already has the uniqueness
// and partial filter we want.
func sameOptions(want mongo.IndexModel, ex existingIndex) bool {
	var wantUnique bool
	var wantPartial bson.D
	if want.Options != nil {
		wantUnique = boolVal(want.Options.Unique)
		if pf, ok := want.Options.PartialFilterExpression.(bson.D); ok {
			wantPartial = pf
		}
	}
	return wantUnique == boolVal(ex.Unique) && keySig(wantPartial) == keySig(ex.Partial)
}

// isDuplicateKeyErr is a best-effort duplicate detector that works across vendors.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	var errs []string

	for _, m := range want {
		desiredName := ""
		if m.Options != nil && m.Options.Name != nil {
			desiredName = *m.Options.Name
		}
		desiredSig := keySig(m.Keys.(bson.D))
		unique := m.Options != nil && boolVal(m.Options.Unique)
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique))

		log.Info("ensuring index")

		if ex, ok := listExisting(ctx, coll)[desiredSig]; ok {
			if sameOptions(m, ex) && (desiredName == "" || ex.Name == desiredName) {
				log.Info("reusing existing index", zap.String("took", time.Since(start).String()))
				continue
			}
			// Options or name differ: drop so the desired definition can be created.
			log.Info("dropping index to realign options or name", zap.String("existing", ex.Name))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			log.Warn("index ensure failed", zap.String("took", time.Since(start).String()), zap.Error(err))
			if isDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s",
					coll.Name(), desiredName, duplicateHint(coll.Name(), desiredSig)))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		log.Info("index ensured",
			zap.String("created_name", created),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func duplicateHint(coll, sig string) string {
	switch {
	case coll == "users" && strings.Contains(sig, "email:1"):
		return ". Example finder: " +
			`db.users.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	case coll == "contributions":
		return ". Example finder: " +
			`db.contributions.aggregate([{ $match: { status: "pending" } }, { $group: { _id: { i: "$idea", c: "$contributor" }, n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	}
	return ""
}

/* -------------------------------------------------------------------------- */
/* Per-collection index sets                                                   */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "auth0_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_auth0_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Admin user list sorts newest first.
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_users_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "bio", Value: "text"}},
			Options: options.Index().SetName("text_users_name_bio"),
		},
	})
}

func ensureIdeas(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("ideas"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creator", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_ideas_creator_status"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_ideas_category_status"),
		},
		{
			Keys:    bson.D{{Key: "stage", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_ideas_stage_status"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_ideas_tags"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_ideas_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "like_count", Value: -1}},
			Options: options.Index().SetName("idx_ideas_likes_desc"),
		},
		// Public listing: {status, is_public} prefix then newest first.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "is_public", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_ideas_status_public_created"),
		},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "tagline", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().SetName("text_ideas_search"),
		},
	})
}

func ensureContributions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("contributions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "idea", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_contrib_idea_status"),
		},
		{
			Keys:    bson.D{{Key: "contributor", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_contrib_contributor_status"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_contrib_created_desc"),
		},
		// At most one pending offer per (idea, contributor). This index is the
		// only duplicate guard; inserts rely on it.
		{
			Keys: bson.D{
				{Key: "idea", Value: 1},
				{Key: "contributor", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "status", Value: models.ContributionPending}}).
				SetName("uniq_contrib_pending_per_contributor"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp_desc"),
		},
		{
			Keys:    bson.D{{Key: "idea_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_idea_timestamp"),
		},
	})
}
