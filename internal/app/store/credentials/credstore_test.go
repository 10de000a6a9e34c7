package credstore_test

import (
	"errors"
	"testing"

	credstore "github.com/dalemusser/chapterhub/internal/app/store/credentials"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_And_Verify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	cred, err := store.Create(ctx, "Alice@Example.com", "s3cret-pass", userID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if cred.Email != "alice@example.com" {
		t.Errorf("Email not normalized: got %q", cred.Email)
	}
	if string(cred.PasswordHash) == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}

	got, err := store.Verify(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got.UserID != userID {
		t.Errorf("UserID: got %v, want %v", got.UserID, userID)
	}
}

func TestStore_Verify_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "bob@example.com", "correct-pass", primitive.NewObjectID()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.Verify(ctx, "bob@example.com", "wrong-pass")
	if !errors.Is(err, credstore.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestStore_Verify_UnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Verify(ctx, "nobody@example.com", "whatever-pass")
	if !errors.Is(err, credstore.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestStore_Create_ShortPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "short@example.com", "tiny", primitive.NewObjectID()); err == nil {
		t.Fatal("Create with short password should fail")
	}
}

func TestStore_UpdatePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "carol@example.com", "old-password", primitive.NewObjectID()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdatePassword(ctx, "carol@example.com", "new-password"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	if _, err := store.Verify(ctx, "carol@example.com", "old-password"); !errors.Is(err, credstore.ErrInvalidCredentials) {
		t.Errorf("old password should no longer verify, got %v", err)
	}
	if _, err := store.Verify(ctx, "carol@example.com", "new-password"); err != nil {
		t.Errorf("new password should verify, got %v", err)
	}
}
