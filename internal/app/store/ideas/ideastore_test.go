package ideastore_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/dalemusser/hearmeout/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|maker", "Maker")

	in, err := store.Insert(ctx, models.Idea{
		Title:    "Solar kettle",
		Tagline:  "Boil with sunlight",
		Category: models.CategoryInvention,
		Stage:    models.StageConcept,
		Status:   models.IdeaPendingReview,
		Creator:  u.ID,
		IsPublic: true,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if in.ID.IsZero() || in.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}

	got, err := store.GetByID(ctx, in.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Solar kettle" || got.Creator != u.ID {
		t.Errorf("got %+v", got)
	}
	if got.Tags == nil || got.LikedBy == nil || got.Resources == nil {
		t.Error("expected slices to be stored as empty arrays")
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, ideastore.ErrNotFound) {
		t.Errorf("GetByID(unknown) = %v, want ErrNotFound", err)
	}
}

func TestStore_List_FiltersAndPages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|lister", "Lister")
	base := time.Now().UTC().Add(-time.Hour)
	for i, title := range []string{"one", "two", "three"} {
		fx.CreateIdea(ctx, u.ID, title, testutil.CreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}
	fx.CreateIdea(ctx, u.ID, "hidden", testutil.Private())
	fx.CreateIdea(ctx, u.ID, "waiting", testutil.WithStatus(models.IdeaPendingReview))
	fx.CreateIdea(ctx, u.ID, "biz", testutil.WithCategory(models.CategoryBusiness))

	ideas, total, err := store.List(ctx, ideastore.ListFilter{}, 0, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4 (public active only)", total)
	}
	if len(ideas) != 2 {
		t.Fatalf("page size = %d, want 2", len(ideas))
	}
	if ideas[0].Title != "biz" {
		t.Errorf("first = %q, want newest 'biz'", ideas[0].Title)
	}

	ideas, total, err = store.List(ctx, ideastore.ListFilter{Category: models.CategoryBusiness}, 0, 10)
	if err != nil {
		t.Fatalf("List(category) failed: %v", err)
	}
	if total != 1 || ideas[0].Title != "biz" {
		t.Errorf("category filter returned %d ideas", total)
	}

	_, total, err = store.List(ctx, ideastore.ListFilter{Status: models.IdeaPendingReview}, 0, 10)
	if err != nil {
		t.Fatalf("List(status) failed: %v", err)
	}
	if total != 1 {
		t.Errorf("pending-review total = %d, want 1", total)
	}
}

func TestStore_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|searcher", "Searcher")
	fx.CreateIdea(ctx, u.ID, "Vertical garden")
	fx.CreateIdea(ctx, u.ID, "Bike courier app")

	ideas, total, err := store.List(ctx, ideastore.ListFilter{Search: "garden"}, 0, 10)
	if err != nil {
		t.Fatalf("List(search) failed: %v", err)
	}
	if total != 1 || ideas[0].Title != "Vertical garden" {
		t.Errorf("search returned %d ideas", total)
	}
}

func TestStore_TrendingAndFeatured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|trend", "Trend")
	for i := 0; i < 8; i++ {
		fx.CreateIdea(ctx, u.ID, "idea", testutil.WithCounts(i*10, 8-i, 0))
	}
	fx.CreateIdea(ctx, u.ID, "private hit", testutil.Private(), testutil.WithCounts(1000, 1000, 0))

	trending, err := store.Trending(ctx)
	if err != nil {
		t.Fatalf("Trending failed: %v", err)
	}
	if len(trending) != ideastore.TrendingLimit {
		t.Fatalf("len = %d, want %d", len(trending), ideastore.TrendingLimit)
	}
	if trending[0].ViewCount != 70 {
		t.Errorf("top trending views = %d, want 70", trending[0].ViewCount)
	}

	featured, err := store.Featured(ctx)
	if err != nil {
		t.Fatalf("Featured failed: %v", err)
	}
	if len(featured) != ideastore.FeaturedLimit {
		t.Fatalf("len = %d, want %d", len(featured), ideastore.FeaturedLimit)
	}
	if featured[0].LikeCount != 8 {
		t.Errorf("top featured likes = %d, want 8", featured[0].LikeCount)
	}
}

func TestStore_IncView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|viewer", "Viewer")
	idea := fx.CreateIdea(ctx, u.ID, "viewed")

	for want := 1; want <= 2; want++ {
		got, err := store.IncView(ctx, idea.ID)
		if err != nil {
			t.Fatalf("IncView failed: %v", err)
		}
		if got.ViewCount != want {
			t.Errorf("ViewCount = %d, want %d", got.ViewCount, want)
		}
	}
}

func TestStore_Update_LeavesStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|editor", "Editor")
	idea := fx.CreateIdea(ctx, u.ID, "before", testutil.WithStatus(models.IdeaPendingReview))

	title := "after"
	public := false
	got, err := store.Update(ctx, idea.ID, ideastore.Update{Title: &title, IsPublic: &public, Tags: []string{"x"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != "after" || got.IsPublic || len(got.Tags) != 1 {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Status != models.IdeaPendingReview {
		t.Errorf("Status = %q, want unchanged", got.Status)
	}
	if got.Tagline != idea.Tagline {
		t.Error("nil fields should be left alone")
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|mod", "Mod")
	idea := fx.CreateIdea(ctx, u.ID, "queued", testutil.WithStatus(models.IdeaPendingReview))

	got, err := store.SetStatus(ctx, idea.ID, models.IdeaPendingReview, models.IdeaRejected, "too vague")
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got.Status != models.IdeaRejected || got.RejectionReason != "too vague" {
		t.Errorf("got status=%q reason=%q", got.Status, got.RejectionReason)
	}

	_, err = store.SetStatus(ctx, idea.ID, models.IdeaPendingReview, models.IdeaActive, "")
	if !errors.Is(err, ideastore.ErrStatusChanged) {
		t.Errorf("second SetStatus = %v, want ErrStatusChanged", err)
	}

	_, err = store.SetStatus(ctx, primitive.NewObjectID(), models.IdeaPendingReview, models.IdeaActive, "")
	if !errors.Is(err, ideastore.ErrNotFound) {
		t.Errorf("SetStatus(unknown) = %v, want ErrNotFound", err)
	}
}

func TestStore_ToggleLike_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|liker", "Liker")
	idea := fx.CreateIdea(ctx, u.ID, "likeable")

	liked, count, err := store.ToggleLike(ctx, idea.ID, "auth0|fan")
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !liked || count != 1 {
		t.Errorf("first toggle = (%v, %d), want (true, 1)", liked, count)
	}

	liked, count, err = store.ToggleLike(ctx, idea.ID, "auth0|fan")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if liked || count != 0 {
		t.Errorf("second toggle = (%v, %d), want (false, 0)", liked, count)
	}

	got, _ := store.GetByID(ctx, idea.ID)
	if len(got.LikedBy) != 0 || got.LikeCount != 0 {
		t.Errorf("after round trip liked_by=%v like_count=%d", got.LikedBy, got.LikeCount)
	}

	if _, _, err := store.ToggleLike(ctx, primitive.NewObjectID(), "auth0|fan"); !errors.Is(err, ideastore.ErrNotFound) {
		t.Errorf("ToggleLike(unknown) = %v, want ErrNotFound", err)
	}
}

func TestStore_ToggleLike_ConcurrentStaysConsistent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|racer", "Racer")
	idea := fx.CreateIdea(ctx, u.ID, "raced")

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.ToggleLike(ctx, idea.ID, "auth0|same")
		}()
	}
	wg.Wait()

	got, err := store.GetByID(ctx, idea.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LikeCount != len(got.LikedBy) {
		t.Errorf("like_count %d != len(liked_by) %d", got.LikeCount, len(got.LikedBy))
	}
}

func TestStore_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "auth0|ca", "A")
	b := fx.CreateUser(ctx, "auth0|cb", "B")
	fx.CreateIdea(ctx, a.ID, "a1")
	fx.CreateIdea(ctx, a.ID, "a2", testutil.WithStatus(models.IdeaPendingReview))
	fx.CreateIdea(ctx, b.ID, "b1")

	if n, _ := store.Count(ctx); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
	if n, _ := store.CountByStatus(ctx, models.IdeaActive); n != 2 {
		t.Errorf("CountByStatus(active) = %d, want 2", n)
	}
	if n, _ := store.CountByCreatorStatus(ctx, a.ID, models.IdeaActive); n != 1 {
		t.Errorf("CountByCreatorStatus = %d, want 1", n)
	}
	ids, err := store.IDsByCreator(ctx, a.ID)
	if err != nil || len(ids) != 2 {
		t.Errorf("IDsByCreator = (%v, %v), want 2 ids", ids, err)
	}
	mine, err := store.ByCreator(ctx, a.ID)
	if err != nil || len(mine) != 2 {
		t.Errorf("ByCreator = %d ideas, err %v", len(mine), err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ideastore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "auth0|del", "Del")
	idea := fx.CreateIdea(ctx, u.ID, "doomed")

	ok, err := store.Delete(ctx, idea.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = store.Delete(ctx, idea.ID)
	if err != nil || ok {
		t.Errorf("second Delete = (%v, %v), want (false, nil)", ok, err)
	}
}
