package settingsstore_test

import (
	"testing"

	settingsstore "github.com/dalemusser/chapterhub/internal/app/store/settings"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Get_NoSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Get settings for a chapter with no saved document
	settings, err := store.Get(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// Should return defaults
	if settings.ChapterID != "gdg-providence" {
		t.Errorf("ChapterID: got %q, want %q", settings.ChapterID, "gdg-providence")
	}
	if settings.BrandColors.Primary != models.DefaultPrimaryColor {
		t.Errorf("Primary: got %q, want default %q", settings.BrandColors.Primary, models.DefaultPrimaryColor)
	}
	if settings.BrandColors.Secondary != models.DefaultSecondaryColor {
		t.Errorf("Secondary: got %q, want default %q", settings.BrandColors.Secondary, models.DefaultSecondaryColor)
	}
}

func TestStore_Save_NewSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	settings := models.ChapterSettings{
		BrandColors:        models.BrandColors{Primary: "#FF0000", Secondary: "#00FF00"},
		DefaultPlatforms:   []string{"linkedin"},
		ApprovalRequired:   true,
		NotificationEmails: []string{"organizers@example.com"},
	}

	if err := store.Save(ctx, "gdg-providence", settings, adminID, "Test Admin"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	saved, err := store.Get(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if saved.BrandColors.Primary != "#FF0000" {
		t.Errorf("Primary: got %q, want %q", saved.BrandColors.Primary, "#FF0000")
	}
	if !saved.ApprovalRequired {
		t.Error("ApprovalRequired not saved")
	}
	if saved.UpdatedByName != "Test Admin" {
		t.Errorf("UpdatedByName: got %q, want %q", saved.UpdatedByName, "Test Admin")
	}
}

func TestStore_Save_UpdateKeepsLogo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SetLogo(ctx, "gdg-providence", "logos/2026/09/abc-logo.png", "logo.png"); err != nil {
		t.Fatalf("SetLogo failed: %v", err)
	}

	// Saving the form without a new logo must not wipe the stored one.
	settings := models.ChapterSettings{
		BrandColors: models.BrandColors{Primary: "#123456", Secondary: "#654321"},
	}
	if err := store.Save(ctx, "gdg-providence", settings, primitive.NewObjectID(), "Admin"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	saved, err := store.Get(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !saved.HasLogo() {
		t.Error("logo lost after Save without logo fields")
	}
	if saved.LogoName != "logo.png" {
		t.Errorf("LogoName: got %q, want %q", saved.LogoName, "logo.png")
	}
}

func TestStore_ClearLogo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SetLogo(ctx, "gdg-providence", "logos/2026/09/abc-logo.png", "logo.png"); err != nil {
		t.Fatalf("SetLogo failed: %v", err)
	}
	if err := store.ClearLogo(ctx, "gdg-providence"); err != nil {
		t.Fatalf("ClearLogo failed: %v", err)
	}

	saved, err := store.Get(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if saved.HasLogo() {
		t.Error("logo still present after ClearLogo")
	}
}
