package memberstore_test

import (
	"errors"
	"testing"

	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_DualWrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Email:       "Alice@Example.COM",
		DisplayName: "  Alice Chen  ",
		Role:        "editor",
		ChapterID:   "gdg-providence",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Email != "alice@example.com" {
		t.Errorf("Email not normalized: got %q", created.Email)
	}
	if created.DisplayName != "Alice Chen" {
		t.Errorf("DisplayName not trimmed: got %q", created.DisplayName)
	}
	if created.Status != "active" {
		t.Errorf("Status default: got %q, want %q", created.Status, "active")
	}

	// Same document must exist in both legacy collections.
	for _, coll := range []string{"members", "users"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{"_id": created.ID})
		if err != nil {
			t.Fatalf("count in %s failed: %v", coll, err)
		}
		if n != 1 {
			t.Errorf("collection %s: got %d documents, want 1", coll, n)
		}
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := models.User{
		Email:       "dupe@example.com",
		DisplayName: "First",
		Role:        "viewer",
		ChapterID:   "gdg-providence",
	}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	u.DisplayName = "Second"
	_, err := store.Create(ctx, u)
	if !errors.Is(err, memberstore.ErrDuplicateEmail) {
		t.Errorf("duplicate Create: got %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		Email:       "bad@example.com",
		DisplayName: "Bad Role",
		Role:        "owner",
		ChapterID:   "gdg-providence",
	})
	if err == nil {
		t.Fatal("Create with invalid role should fail")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if u != nil {
		t.Errorf("GetByID for missing id: got %+v, want nil", u)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "Bob Jones", "bob@example.com", "admin", "gdg-providence")

	u, err := store.GetByEmail(ctx, "Bob@Example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if u == nil {
		t.Fatal("GetByEmail returned nil for existing member")
	}
	if u.DisplayName != "Bob Jones" {
		t.Errorf("DisplayName: got %q, want %q", u.DisplayName, "Bob Jones")
	}
}

func TestStore_GetByEmail_UsersOnlyFallback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A legacy record that exists only in the users collection.
	legacy := models.User{
		ID:          primitive.NewObjectID(),
		Email:       "legacy@example.com",
		DisplayName: "Legacy Record",
		Role:        "viewer",
		ChapterID:   "gdg-providence",
		Status:      "active",
	}
	if _, err := db.Collection("users").InsertOne(ctx, legacy); err != nil {
		t.Fatalf("insert legacy record: %v", err)
	}

	u, err := store.GetByEmail(ctx, "legacy@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if u == nil {
		t.Fatal("GetByEmail should fall back to users collection")
	}
	if u.ID != legacy.ID {
		t.Errorf("ID: got %v, want %v", u.ID, legacy.ID)
	}
}

func TestStore_Query_ByChapter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "In Chapter", "in@example.com", "viewer", "gdg-providence")
	fixtures.CreateMember(ctx, "Other Chapter", "out@example.com", "viewer", "gdg-boston")

	got, err := store.Query(ctx, "chapter_id", "==", "gdg-providence")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Query: got %d members, want 1", len(got))
	}
	if got[0].Email != "in@example.com" {
		t.Errorf("Query: got %q, want %q", got[0].Email, "in@example.com")
	}
}

func TestStore_Update_Merge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fixtures.CreateMember(ctx, "Carol Wu", "carol@example.com", "viewer", "gdg-providence")

	role := "editor"
	if err := store.Update(ctx, m.ID, memberstore.Update{Role: &role}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Role != "editor" {
		t.Errorf("Role: got %q, want %q", got.Role, "editor")
	}
	// Fields not present in the update keep their stored values.
	if got.DisplayName != "Carol Wu" {
		t.Errorf("DisplayName changed unexpectedly: got %q", got.DisplayName)
	}
	if got.ChapterID != "gdg-providence" {
		t.Errorf("ChapterID changed unexpectedly: got %q", got.ChapterID)
	}

	// The users copy must carry the same update.
	var usersCopy models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": m.ID}).Decode(&usersCopy); err != nil {
		t.Fatalf("load users copy: %v", err)
	}
	if usersCopy.Role != "editor" {
		t.Errorf("users copy Role: got %q, want %q", usersCopy.Role, "editor")
	}
}

func TestStore_Delete_BothCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fixtures.CreateMember(ctx, "Gone Soon", "gone@example.com", "viewer", "gdg-providence")

	if err := store.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	for _, coll := range []string{"members", "users"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{"_id": m.ID})
		if err != nil {
			t.Fatalf("count in %s failed: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("collection %s still has the deleted record", coll)
		}
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, m.ID); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}
}

func TestFetcher_FetchProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	fetcher := memberstore.NewFetcher(store, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fixtures.CreateMember(ctx, "Dana Lee", "dana@example.com", "admin", "gdg-providence")

	su, err := fetcher.FetchProfile(ctx, m.ID.Hex(), m.Email)
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}
	if su.Name != "Dana Lee" || su.Role != "admin" || su.ChapterID != "gdg-providence" {
		t.Errorf("unexpected session user: %+v", su)
	}
}

func TestFetcher_FetchProfile_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fetcher := memberstore.NewFetcher(store, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := fetcher.FetchProfile(ctx, primitive.NewObjectID().Hex(), "nobody@example.com")
	if !errors.Is(err, auth.ErrProfileNotFound) {
		t.Errorf("missing profile: got %v, want ErrProfileNotFound", err)
	}
}

func TestFetcher_FetchProfile_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	fetcher := memberstore.NewFetcher(store, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fixtures.CreateDisabledMember(ctx, "Disabled User", "off@example.com", "gdg-providence")

	_, err := fetcher.FetchProfile(ctx, m.ID.Hex(), m.Email)
	if !errors.Is(err, auth.ErrProfileNotFound) {
		t.Errorf("disabled profile: got %v, want ErrProfileNotFound", err)
	}
}
