package templatestore_test

import (
	"testing"

	templatestore "github.com/dalemusser/chapterhub/internal/app/store/templates"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/chapterhub/internal/testutil"
)

func TestStore_Create_DefaultsToCustom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Template{
		ChapterID: "gdg-providence",
		Name:      "Event Blast",
		Body:      "Join {name} on {date}",
		CreatedBy: "test",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Type != "custom" {
		t.Errorf("Type: got %q, want %q", created.Type, "custom")
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name   string
		mutate func(*models.Template)
	}{
		{"missing name", func(tm *models.Template) { tm.Name = "" }},
		{"missing body", func(tm *models.Template) { tm.Body = "" }},
		{"missing chapter", func(tm *models.Template) { tm.ChapterID = "" }},
		{"bad type", func(tm *models.Template) { tm.Type = "newsletter" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := models.Template{
				ChapterID: "gdg-providence",
				Name:      "Valid Name",
				Body:      "Valid body",
			}
			tt.mutate(&tmpl)
			if _, err := store.Create(ctx, tmpl); err == nil {
				t.Errorf("Create should reject %s", tt.name)
			}
		})
	}
}

func TestStore_GetByChapter_SortedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTemplate(ctx, "gdg-providence", "Zebra Template", "body z")
	fixtures.CreateTemplate(ctx, "gdg-providence", "Alpha Template", "body a")
	fixtures.CreateTemplate(ctx, "gdg-boston", "Other Chapter", "body o")

	got, err := store.GetByChapter(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("GetByChapter failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetByChapter: got %d templates, want 2", len(got))
	}
	if got[0].Name != "Alpha Template" || got[1].Name != "Zebra Template" {
		t.Errorf("sort order: got %q then %q", got[0].Name, got[1].Name)
	}
}

func TestStore_Update_Merge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := fixtures.CreateTemplate(ctx, "gdg-providence", "Original", "Hello {name}")

	body := "Welcome, {name}!"
	if err := store.Update(ctx, tmpl.ID, templatestore.Update{Body: &body}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Body != body {
		t.Errorf("Body: got %q, want %q", got.Body, body)
	}
	if got.Name != "Original" {
		t.Errorf("Name changed unexpectedly: got %q", got.Name)
	}
}

func TestStore_GetAll_SpansChapters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTemplate(ctx, "gdg-providence", "event-announcement", "Join {event_title} on {event_date}")
	fixtures.CreateTemplate(ctx, "gdg-boston", "event-recap", "Thanks for joining {event_title}!")

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("GetAll: got %d templates, want 2", len(got))
	}
}
