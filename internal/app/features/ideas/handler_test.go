package ideas_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/hearmeout/internal/app/features/ideas"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/hearmeout/internal/app/system/ratelimit"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/dalemusser/hearmeout/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*ideas.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := ideas.NewHandler(db, apiresp.NewErrorWriter(logger, true), nil, nil, logger)
	return handler, testutil.NewFixtures(t, db)
}

type ideaBody struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	IsPublic          bool     `json:"isPublic"`
	Tags              []string `json:"tags"`
	ViewCount         int      `json:"viewCount"`
	LikeCount         int      `json:"likeCount"`
	ContributionCount int      `json:"contributionCount"`
	Resources         []struct {
		Type      string `json:"type"`
		Currency  string `json:"currency"`
		Fulfilled bool   `json:"fulfilled"`
	} `json:"resources"`
	Creator *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"creator"`
	Liked *bool `json:"liked"`
}

func withID(r *http.Request, id primitive.ObjectID) *http.Request {
	return testutil.WithChiURLParam(r, "id", id.Hex())
}

func userDoc(t *testing.T, f *testutil.Fixtures, id primitive.ObjectID) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	var u models.User
	if err := f.DB().Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		t.Fatalf("load user: %v", err)
	}
	return u
}

func TestServeList_DefaultsToActivePublic(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|lister", "Lister")
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		fixtures.CreateIdea(ctx, owner.ID, "active "+string(rune('a'+i)), testutil.CreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}
	fixtures.CreateIdea(ctx, owner.ID, "waiting", testutil.WithStatus(models.IdeaPendingReview))
	fixtures.CreateIdea(ctx, owner.ID, "hidden", testutil.Private())

	rec := httptest.NewRecorder()
	handler.ServeList(rec, testutil.NewRequest("GET", "/api/ideas?limit=2"))

	testutil.AssertStatus(t, rec, http.StatusOK)
	var got []ideaBody
	env := testutil.DecodeEnvelope(t, rec, &got)
	if env.Pagination == nil {
		t.Fatal("pagination missing")
	}
	if env.Pagination.Total != 3 || env.Pagination.Pages != 2 || env.Pagination.Limit != 2 || env.Pagination.Page != 1 {
		t.Errorf("pagination = %+v", *env.Pagination)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "active c" {
		t.Errorf("first = %q, want newest (active c)", got[0].Title)
	}
	if got[0].Creator == nil || got[0].Creator.Name != "Lister" {
		t.Errorf("creator = %+v", got[0].Creator)
	}
	if got[0].Liked != nil {
		t.Error("anonymous list should not carry liked")
	}
}

func TestServeList_Filters(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|filters", "Filters")
	fixtures.CreateIdea(ctx, owner.ID, "art", testutil.WithCategory(models.CategoryCreative), testutil.WithTags("paint"))
	fixtures.CreateIdea(ctx, owner.ID, "tech", testutil.WithTags("go", "db"))
	fixtures.CreateIdea(ctx, owner.ID, "done", testutil.WithStatus(models.IdeaCompleted))

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"category", "/api/ideas?category=Creative", []string{"art"}},
		{"tags", "/api/ideas?tags=go,db", []string{"tech"}},
		{"status", "/api/ideas?status=completed", []string{"done"}},
		{"nothing", "/api/ideas?category=social", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeList(rec, testutil.NewRequest("GET", tt.target))
			testutil.AssertStatus(t, rec, http.StatusOK)

			var got []ideaBody
			testutil.DecodeEnvelope(t, rec, &got)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d ideas, want %d", len(got), len(tt.want))
			}
			for i, title := range tt.want {
				if got[i].Title != title {
					t.Errorf("got[%d] = %q, want %q", i, got[i].Title, title)
				}
			}
		})
	}
}

func TestServeIdea_IncrementsViews(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|viewed", "Viewed")
	idea := fixtures.CreateIdea(ctx, owner.ID, "Popular", testutil.WithCounts(4, 0, 0))

	for want := 5; want <= 6; want++ {
		rec := httptest.NewRecorder()
		handler.ServeIdea(rec, withID(testutil.NewRequest("GET", "/api/ideas/x"), idea.ID))
		testutil.AssertStatus(t, rec, http.StatusOK)

		var got ideaBody
		testutil.DecodeEnvelope(t, rec, &got)
		if got.ViewCount != want {
			t.Errorf("viewCount = %d, want %d", got.ViewCount, want)
		}
	}
}

func TestServeIdea_Private(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|secret", "Secret")
	other := fixtures.CreateUser(ctx, "auth0|nosy", "Nosy")
	idea := fixtures.CreateIdea(ctx, owner.ID, "Hush", testutil.Private())

	tests := []struct {
		name   string
		claims *jwtauth.Claims
		want   int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"other user", testutil.ClaimsFor(other), http.StatusForbidden},
		{"creator", testutil.ClaimsFor(owner), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withID(testutil.NewRequest("GET", "/api/ideas/x"), idea.ID)
			if tt.claims != nil {
				req = testutil.WithClaims(req, tt.claims)
			}
			rec := httptest.NewRecorder()
			handler.ServeIdea(rec, req)
			testutil.AssertStatus(t, rec, tt.want)
			if tt.want == http.StatusForbidden {
				env := testutil.DecodeEnvelope(t, rec, nil)
				if env.Error != "This idea is private" {
					t.Errorf("error = %q", env.Error)
				}
			}
		})
	}

	var stored models.Idea
	if err := fixtures.DB().Collection("ideas").FindOne(ctx, bson.M{"_id": idea.ID}).Decode(&stored); err != nil {
		t.Fatalf("load idea: %v", err)
	}
	if stored.ViewCount != 1 {
		t.Errorf("viewCount = %d, want 1 (only the creator's read counts)", stored.ViewCount)
	}
}

func TestServeIdea_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeIdea(rec, withID(testutil.NewRequest("GET", "/api/ideas/x"), primitive.NewObjectID()))
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = httptest.NewRecorder()
	handler.ServeIdea(rec, testutil.WithChiURLParam(testutil.NewRequest("GET", "/api/ideas/bad"), "id", "bad"))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleCreate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|maker", "Maker")

	body := map[string]any{
		"title":       "  Solar Kettle  ",
		"tagline":     "Tea by sunlight",
		"description": `<p>Boil water <script>alert(1)</script>outdoors</p>`,
		"category":    "technology",
		"stage":       "prototype",
		"status":      "active",
		"tags":        []string{"Solar", " solar ", "Outdoor"},
		"resources": []map[string]any{
			{"type": "funding", "description": "Parts", "amount": 500, "fulfilled": true},
		},
	}
	req := testutil.WithClaims(testutil.NewJSONRequest(t, "POST", "/api/ideas", body), testutil.ClaimsFor(owner))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	testutil.AssertStatus(t, rec, http.StatusCreated)
	var got ideaBody
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Status != models.IdeaPendingReview {
		t.Errorf("status = %q, want pending-review", got.Status)
	}
	if got.Title != "Solar Kettle" {
		t.Errorf("title = %q, want trimmed", got.Title)
	}
	if !got.IsPublic {
		t.Error("isPublic should default to true")
	}
	if strings.Contains(got.Description, "script") {
		t.Errorf("description not sanitized: %q", got.Description)
	}
	if strings.Join(got.Tags, ",") != "solar,outdoor" {
		t.Errorf("tags = %v, want [solar outdoor]", got.Tags)
	}
	if len(got.Resources) != 1 || got.Resources[0].Fulfilled || got.Resources[0].Currency != models.DefaultCurrency {
		t.Errorf("resources = %+v", got.Resources)
	}
	if got.Creator == nil || got.Creator.ID != owner.ID.Hex() {
		t.Errorf("creator = %+v", got.Creator)
	}

	if n := userDoc(t, fixtures, owner.ID).IdeasCount; n != 1 {
		t.Errorf("ideas_count = %d, want 1", n)
	}
}

func TestHandleCreate_ExplicitPrivate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|quiet", "Quiet")

	body := `{"title":"T","tagline":"G","description":"D","category":"social","stage":"concept","isPublic":false}`
	req := testutil.WithClaims(testutil.NewJSONRequest(t, "POST", "/api/ideas", body), testutil.ClaimsFor(owner))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	testutil.AssertStatus(t, rec, http.StatusCreated)
	var got ideaBody
	testutil.DecodeEnvelope(t, rec, &got)
	if got.IsPublic {
		t.Error("isPublic=false must be honoured")
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|sloppy", "Sloppy")

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"tagline":"G","description":"D","category":"social","stage":"concept"}`},
		{"blank title", `{"title":"   ","tagline":"G","description":"D","category":"social","stage":"concept"}`},
		{"bad category", `{"title":"T","tagline":"G","description":"D","category":"food","stage":"concept"}`},
		{"title too long", `{"title":"` + strings.Repeat("t", 101) + `","tagline":"G","description":"D","category":"social","stage":"concept"}`},
		{"too many tags", `{"title":"T","tagline":"G","description":"D","category":"social","stage":"concept","tags":["1","2","3","4","5","6","7","8","9","10","11"]}`},
		{"equity out of range", `{"title":"T","tagline":"G","description":"D","category":"social","stage":"concept","resources":[{"type":"funding","description":"x","equity":120}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithClaims(testutil.NewJSONRequest(t, "POST", "/api/ideas", tt.body), testutil.ClaimsFor(owner))
			rec := httptest.NewRecorder()
			handler.HandleCreate(rec, req)
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
		})
	}

	if n := userDoc(t, fixtures, owner.ID).IdeasCount; n != 0 {
		t.Errorf("ideas_count = %d, want 0 after rejected creates", n)
	}
}

func TestHandleUpdate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|editor", "Editor")
	other := fixtures.CreateUser(ctx, "auth0|intruder", "Intruder")
	idea := fixtures.CreateIdea(ctx, owner.ID, "Draft title", testutil.WithStatus(models.IdeaPendingReview))

	body := `{"title":"Better title","status":"active","tags":["New"]}`

	rec := httptest.NewRecorder()
	req := testutil.WithClaims(testutil.NewJSONRequest(t, "PUT", "/api/ideas/x", body), testutil.ClaimsFor(other))
	handler.HandleUpdate(rec, withID(req, idea.ID))
	testutil.AssertStatus(t, rec, http.StatusForbidden)
	if env := testutil.DecodeEnvelope(t, rec, nil); env.Error != "Not authorized to update this idea" {
		t.Errorf("error = %q", env.Error)
	}

	rec = httptest.NewRecorder()
	req = testutil.WithClaims(testutil.NewJSONRequest(t, "PUT", "/api/ideas/x", body), testutil.ClaimsFor(owner))
	handler.HandleUpdate(rec, withID(req, idea.ID))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got ideaBody
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Title != "Better title" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Status != models.IdeaPendingReview {
		t.Errorf("status = %q, creators must not change status through update", got.Status)
	}
	if strings.Join(got.Tags, ",") != "new" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestHandleStatus(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|lifecycle", "Lifecycle")
	active := fixtures.CreateIdea(ctx, owner.ID, "Going")
	pending := fixtures.CreateIdea(ctx, owner.ID, "Waiting", testutil.WithStatus(models.IdeaPendingReview))

	tests := []struct {
		name   string
		idea   primitive.ObjectID
		status string
		want   int
	}{
		{"self approve refused", pending.ID, models.IdeaActive, http.StatusBadRequest},
		{"unknown status", active.ID, "viral", http.StatusBadRequest},
		{"active to funded", active.ID, models.IdeaFunded, http.StatusOK},
		{"funded back to active refused", active.ID, models.IdeaActive, http.StatusBadRequest},
		{"funded to archived", active.ID, models.IdeaArchived, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]string{"status": tt.status}
			req := testutil.WithClaims(testutil.NewJSONRequest(t, "PUT", "/api/ideas/x/status", body), testutil.ClaimsFor(owner))
			rec := httptest.NewRecorder()
			handler.HandleStatus(rec, withID(req, tt.idea))
			testutil.AssertStatus(t, rec, tt.want)
		})
	}
}

func TestHandleDelete_Cascades(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|deleter", "Deleter")
	backer := fixtures.CreateUser(ctx, "auth0|backer", "Backer")
	if _, err := fixtures.DB().Collection("users").UpdateOne(ctx, bson.M{"_id": owner.ID},
		bson.M{"$set": bson.M{"ideas_count": 1}}); err != nil {
		t.Fatalf("seed ideas_count: %v", err)
	}
	idea := fixtures.CreateIdea(ctx, owner.ID, "Doomed")
	keep := fixtures.CreateIdea(ctx, owner.ID, "Survivor")
	fixtures.CreateContribution(ctx, idea.ID, backer.ID, models.ResourceLabor, models.ContributionPending, nil)
	fixtures.CreateContribution(ctx, idea.ID, backer.ID, models.ResourceFunding, models.ContributionAccepted, testutil.Amount(10))
	fixtures.CreateContribution(ctx, keep.ID, backer.ID, models.ResourceLabor, models.ContributionPending, nil)

	rec := httptest.NewRecorder()
	req := testutil.WithClaims(testutil.NewRequest("DELETE", "/api/ideas/x"), testutil.ClaimsFor(backer))
	handler.HandleDelete(rec, withID(req, idea.ID))
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	rec = httptest.NewRecorder()
	req = testutil.WithClaims(testutil.NewRequest("DELETE", "/api/ideas/x"), testutil.ClaimsFor(owner))
	handler.HandleDelete(rec, withID(req, idea.ID))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if env := testutil.DecodeEnvelope(t, rec, nil); env.Message != "Idea deleted successfully" {
		t.Errorf("message = %q", env.Message)
	}

	contribs := fixtures.DB().Collection("contributions")
	if n, _ := contribs.CountDocuments(ctx, bson.M{"idea": idea.ID}); n != 0 {
		t.Errorf("contributions left for deleted idea = %d, want 0", n)
	}
	if n, _ := contribs.CountDocuments(ctx, bson.M{"idea": keep.ID}); n != 1 {
		t.Errorf("contributions for other idea = %d, want 1", n)
	}
	if n := userDoc(t, fixtures, owner.ID).IdeasCount; n != 0 {
		t.Errorf("ideas_count = %d, want 0", n)
	}

	rec = httptest.NewRecorder()
	req = testutil.WithClaims(testutil.NewRequest("DELETE", "/api/ideas/x"), testutil.ClaimsFor(owner))
	handler.HandleDelete(rec, withID(req, idea.ID))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestHandleLike_RoundTrip(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|liked", "Liked")
	fan := fixtures.CreateUser(ctx, "auth0|fan", "Fan")
	idea := fixtures.CreateIdea(ctx, owner.ID, "Likeable")

	type likeBody struct {
		Liked     bool `json:"liked"`
		LikeCount int  `json:"likeCount"`
	}
	want := []likeBody{{true, 1}, {false, 0}}
	for i, w := range want {
		req := testutil.WithClaims(testutil.NewRequest("POST", "/api/ideas/x/like"), testutil.ClaimsFor(fan))
		rec := httptest.NewRecorder()
		handler.HandleLike(rec, withID(req, idea.ID))
		testutil.AssertStatus(t, rec, http.StatusOK)

		var got likeBody
		testutil.DecodeEnvelope(t, rec, &got)
		if got != w {
			t.Errorf("call %d = %+v, want %+v", i+1, got, w)
		}
	}

	req := testutil.WithClaims(testutil.NewRequest("POST", "/api/ideas/x/like"), testutil.ClaimsFor(fan))
	rec := httptest.NewRecorder()
	handler.HandleLike(rec, withID(req, primitive.NewObjectID()))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestHandleLike_PrivateIdea(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "auth0|secret-owner", "Owner")
	stranger := fixtures.CreateUser(ctx, "auth0|secret-stranger", "Stranger")
	idea := fixtures.CreateIdea(ctx, owner.ID, "Secret", testutil.Private())

	like := func(claims *jwtauth.Claims) *httptest.ResponseRecorder {
		req := testutil.WithClaims(testutil.NewRequest("POST", "/api/ideas/x/like"), claims)
		rec := httptest.NewRecorder()
		handler.HandleLike(rec, withID(req, idea.ID))
		return rec
	}

	testutil.AssertStatus(t, like(testutil.ClaimsFor(stranger)), http.StatusForbidden)
	testutil.AssertStatus(t, like(&jwtauth.Claims{Subject: "auth0|ghost"}), http.StatusForbidden)

	var doc bson.M
	if err := fixtures.DB().Collection("ideas").FindOne(ctx, bson.M{"_id": idea.ID}).Decode(&doc); err != nil {
		t.Fatalf("load idea: %v", err)
	}
	if liked, _ := doc["liked_by"].(bson.A); len(liked) != 0 {
		t.Errorf("liked_by = %v, want empty after refused likes", liked)
	}

	rec := like(testutil.ClaimsFor(owner))
	testutil.AssertStatus(t, rec, http.StatusOK)
}

func TestRoutes_LikeRateLimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	likes := ratelimit.PerMinute(1)
	defer likes.Stop()
	logger := zap.NewNop()
	handler := ideas.NewHandler(db, apiresp.NewErrorWriter(logger, true), nil, likes, logger)
	router := ideas.Routes(handler, nil)

	owner := fixtures.CreateUser(ctx, "auth0|limited", "Limited")
	fan := fixtures.CreateUser(ctx, "auth0|eager", "Eager")
	idea := fixtures.CreateIdea(ctx, owner.ID, "Hot")

	for _, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := testutil.WithClaims(testutil.NewRequest("POST", "/"+idea.ID.Hex()+"/like"), testutil.ClaimsFor(fan))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, want)
	}

	// Anonymous requests never reach the limiter.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("POST", "/"+idea.ID.Hex()+"/like"))
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestRoutes_PublicAndPrivate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	router := ideas.Routes(handler, nil)

	owner := fixtures.CreateUser(ctx, "auth0|router", "Router")
	fixtures.CreateIdea(ctx, owner.ID, "Visible")
	fixtures.CreateIdea(ctx, owner.ID, "Mine only", testutil.WithStatus(models.IdeaDraft))

	tests := []struct {
		name   string
		method string
		target string
		claims *jwtauth.Claims
		want   int
		count  int
	}{
		{"list anonymous", "GET", "/", nil, http.StatusOK, 1},
		{"trending", "GET", "/trending", nil, http.StatusOK, 1},
		{"featured", "GET", "/featured", nil, http.StatusOK, 1},
		{"my ideas needs auth", "GET", "/my-ideas", nil, http.StatusUnauthorized, -1},
		{"my ideas", "GET", "/my-ideas", testutil.ClaimsFor(owner), http.StatusOK, 2},
		{"create needs auth", "POST", "/", nil, http.StatusUnauthorized, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(tt.method, tt.target)
			if tt.claims != nil {
				req = testutil.WithClaims(req, tt.claims)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			testutil.AssertStatus(t, rec, tt.want)
			if tt.count >= 0 {
				var got []ideaBody
				testutil.DecodeEnvelope(t, rec, &got)
				if len(got) != tt.count {
					t.Errorf("got %d ideas, want %d", len(got), tt.count)
				}
			}
		})
	}
}
