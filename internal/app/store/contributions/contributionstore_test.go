package contributionstore_test

import (
	"errors"
	"sync"
	"testing"

	contributionstore "github.com/dalemusser/hearmeout/internal/app/store/contributions"
	"github.com/dalemusser/hearmeout/internal/domain/models"
	"github.com/dalemusser/hearmeout/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func offer(idea, contributor primitive.ObjectID) models.Contribution {
	return models.Contribution{
		Idea:        idea,
		Contributor: contributor,
		Type:        models.ResourceFunding,
		Description: "Seed money",
		Amount:      testutil.Amount(100),
		Message:     "Count me in",
	}
}

func TestStore_Insert_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "auth0|owner", "Owner")
	backer := fx.CreateUser(ctx, "auth0|backer", "Backer")
	idea := fx.CreateIdea(ctx, owner.ID, "funded thing")

	c, err := store.Insert(ctx, offer(idea.ID, backer.ID))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if c.ID.IsZero() {
		t.Error("expected ID to be set")
	}
	if c.Status != models.ContributionPending {
		t.Errorf("Status = %q, want pending", c.Status)
	}
	if c.Currency != models.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", c.Currency, models.DefaultCurrency)
	}

	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Amount == nil || *got.Amount != 100 {
		t.Errorf("Amount = %v, want 100", got.Amount)
	}
}

func TestStore_Insert_DuplicatePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "auth0|owner", "Owner")
	backer := fx.CreateUser(ctx, "auth0|backer", "Backer")
	idea := fx.CreateIdea(ctx, owner.ID, "popular")

	if _, err := store.Insert(ctx, offer(idea.ID, backer.ID)); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, offer(idea.ID, backer.ID)); !errors.Is(err, contributionstore.ErrDuplicatePending) {
		t.Errorf("second Insert = %v, want ErrDuplicatePending", err)
	}
}

func TestStore_Insert_DuplicatePendingRace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "auth0|owner", "Owner")
	backer := fx.CreateUser(ctx, "auth0|backer", "Backer")
	idea := fx.CreateIdea(ctx, owner.ID, "contested")

	const n = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, dup := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, offer(idea.ID, backer.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, contributionstore.ErrDuplicatePending):
				dup++
			}
		}()
	}
	wg.Wait()

	if ok != 1 || dup != n-1 {
		t.Errorf("ok=%d dup=%d, want ok=1 dup=%d", ok, dup, n-1)
	}
}

func TestStore_Insert_AfterCancelAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "auth0|owner", "Owner")
	backer := fx.CreateUser(ctx, "auth0|backer", "Backer")
	idea := fx.CreateIdea(ctx, owner.ID, "second chance")

	c, err := store.Insert(ctx, offer(idea.ID, backer.ID))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.SetStatus(ctx, c.ID, models.ContributionPending, models.ContributionCancelled, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := store.Insert(ctx, offer(idea.ID, backer.ID)); err != nil {
		t.Errorf("new offer after cancel should succeed, got %v", err)
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "auth0|owner", "Owner")
	backer := fx.CreateUser(ctx, "auth0|backer", "Backer")
	idea := fx.CreateIdea(ctx, owner.ID, "decided")
	c := fx.CreateContribution(ctx, idea.ID, backer.ID, models.ResourceExpertise, models.ContributionPending, nil)

	got, err := store.SetStatus(ctx, c.ID, models.ContributionPending, models.ContributionAccepted, "Welcome aboard")
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got.Status != models.ContributionAccepted || got.ResponseMessage != "Welcome aboard" {
		t.Errorf("got status=%q response=%q", got.Status, got.ResponseMessage)
	}

	if _, err := store.SetStatus(ctx, c.ID, models.ContributionPending, models.ContributionRejected, ""); !errors.Is(err, contributionstore.ErrStatusChanged) {
		t.Errorf("second SetStatus = %v, want ErrStatusChanged", err)
	}
	if _, err := store.SetStatus(ctx, primitive.NewObjectID(), models.ContributionPending, models.ContributionRejected, ""); !errors.Is(err, contributionstore.ErrNotFound) {
		t.Errorf("SetStatus(unknown) = %v, want ErrNotFound", err)
	}
}

func TestStore_Queries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "auth0|owner", "Owner")
	a := fx.CreateUser(ctx, "auth0|a", "A")
	b := fx.CreateUser(ctx, "auth0|b", "B")
	i1 := fx.CreateIdea(ctx, owner.ID, "i1")
	i2 := fx.CreateIdea(ctx, owner.ID, "i2")

	fx.CreateContribution(ctx, i1.ID, a.ID, models.ResourceFunding, models.ContributionAccepted, testutil.Amount(250))
	fx.CreateContribution(ctx, i1.ID, b.ID, models.ResourceFunding, models.ContributionPending, testutil.Amount(999))
	fx.CreateContribution(ctx, i1.ID, b.ID, models.ResourceLabor, models.ContributionCompleted, nil)
	fx.CreateContribution(ctx, i2.ID, a.ID, models.ResourceFunding, models.ContributionCompleted, testutil.Amount(50))
	fx.CreateContribution(ctx, i2.ID, a.ID, models.ResourceFunding, models.ContributionRejected, testutil.Amount(10))

	mine, err := store.ByContributor(ctx, a.ID)
	if err != nil || len(mine) != 3 {
		t.Errorf("ByContributor(a) = %d, err %v, want 3", len(mine), err)
	}

	received, err := store.ByIdeas(ctx, []primitive.ObjectID{i1.ID, i2.ID})
	if err != nil || len(received) != 5 {
		t.Errorf("ByIdeas = %d, err %v, want 5", len(received), err)
	}
	if none, _ := store.ByIdeas(ctx, nil); len(none) != 0 {
		t.Errorf("ByIdeas(nil) = %d, want 0", len(none))
	}

	public, err := store.PublicByIdea(ctx, i1.ID)
	if err != nil {
		t.Fatalf("PublicByIdea failed: %v", err)
	}
	if len(public) != 2 {
		t.Errorf("PublicByIdea = %d, want 2 (accepted + completed)", len(public))
	}
	for _, c := range public {
		if c.Status != models.ContributionAccepted && c.Status != models.ContributionCompleted {
			t.Errorf("unexpected public status %q", c.Status)
		}
	}

	raised, err := store.FundingRaised(ctx, []primitive.ObjectID{i1.ID, i2.ID})
	if err != nil {
		t.Fatalf("FundingRaised failed: %v", err)
	}
	if raised != 300 {
		t.Errorf("FundingRaised = %v, want 300", raised)
	}
	if zero, err := store.FundingRaised(ctx, nil); err != nil || zero != 0 {
		t.Errorf("FundingRaised(nil) = (%v, %v)", zero, err)
	}
}

func TestStore_DeleteByIdea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "auth0|owner", "Owner")
	a := fx.CreateUser(ctx, "auth0|a", "A")
	i1 := fx.CreateIdea(ctx, owner.ID, "gone")
	i2 := fx.CreateIdea(ctx, owner.ID, "stays")
	fx.CreateContribution(ctx, i1.ID, a.ID, models.ResourceLabor, models.ContributionPending, nil)
	fx.CreateContribution(ctx, i1.ID, a.ID, models.ResourceLabor, models.ContributionAccepted, nil)
	fx.CreateContribution(ctx, i2.ID, a.ID, models.ResourceLabor, models.ContributionPending, nil)

	n, err := store.DeleteByIdea(ctx, i1.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByIdea = (%d, %v), want (2, nil)", n, err)
	}
	left, _ := store.ByIdeas(ctx, []primitive.ObjectID{i1.ID, i2.ID})
	if len(left) != 1 || left[0].Idea != i2.ID {
		t.Errorf("remaining = %d, want only the other idea's offer", len(left))
	}
}
