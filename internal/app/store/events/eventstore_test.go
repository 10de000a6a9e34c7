package eventstore_test

import (
	"errors"
	"testing"

	eventstore "github.com/dalemusser/chapterhub/internal/app/store/events"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validEvent() models.Event {
	return models.Event{
		ChapterID:   "gdg-providence",
		Title:       "Intro to Go",
		Date:        "2026-10-05",
		Time:        "18:30",
		Description: "Monthly meetup",
		Type:        "meetup",
		CreatedBy:   "test",
	}
}

func TestStore_Create_DefaultsToDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.EventStatusDraft {
		t.Errorf("Status: got %q, want %q", created.Status, models.EventStatusDraft)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name   string
		mutate func(*models.Event)
	}{
		{"missing title", func(ev *models.Event) { ev.Title = "" }},
		{"bad date", func(ev *models.Event) { ev.Date = "10/05/2026" }},
		{"bad time", func(ev *models.Event) { ev.Time = "6:30 PM" }},
		{"bad type", func(ev *models.Event) { ev.Type = "webinar" }},
		{"bad status", func(ev *models.Event) { ev.Status = "pending" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvent()
			tt.mutate(&ev)
			if _, err := store.Create(ctx, ev); err == nil {
				t.Errorf("Create should reject %s", tt.name)
			}
		})
	}
}

func TestStore_Upcoming(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, e := range []struct {
		title, date, status string
	}{
		{"Past Event", "2026-01-10", models.EventStatusCompleted},
		{"Soon Event", "2026-10-01", models.EventStatusScheduled},
		{"Later Event", "2026-11-15", models.EventStatusScheduled},
		{"Draft Event", "2026-10-20", models.EventStatusDraft},
	} {
		ev := validEvent()
		ev.Title = e.title
		ev.Date = e.date
		ev.Status = e.status
		if _, err := store.Create(ctx, ev); err != nil {
			t.Fatalf("Create %q failed: %v", e.title, err)
		}
	}

	got, err := store.Upcoming(ctx, "gdg-providence", "2026-09-01", 10)
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Upcoming: got %d events, want 2", len(got))
	}
	if got[0].Title != "Soon Event" || got[1].Title != "Later Event" {
		t.Errorf("Upcoming order: got %q then %q", got[0].Title, got[1].Title)
	}
}

func TestStore_Update_Merge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	title := "Intro to Go, Take Two"
	if err := store.Update(ctx, created.ID, eventstore.Update{Title: &title}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != title {
		t.Errorf("Title: got %q, want %q", got.Title, title)
	}
	if got.Date != "2026-10-05" {
		t.Errorf("Date changed unexpectedly: got %q", got.Date)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	title := "Nope"
	err := store.Update(ctx, primitive.NewObjectID(), eventstore.Update{Title: &title})
	if !errors.Is(err, eventstore.ErrNotFound) {
		t.Errorf("Update missing event: got %v, want ErrNotFound", err)
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, created.ID, models.EventStatusScheduled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	// Any valid status can follow any other; cancelled back to draft is allowed.
	if err := store.SetStatus(ctx, created.ID, models.EventStatusCancelled); err != nil {
		t.Fatalf("SetStatus to cancelled failed: %v", err)
	}
	if err := store.SetStatus(ctx, created.ID, models.EventStatusDraft); err != nil {
		t.Fatalf("SetStatus back to draft failed: %v", err)
	}

	if err := store.SetStatus(ctx, created.ID, "archived"); err == nil {
		t.Error("SetStatus should reject unknown status")
	}
}

func TestStore_Delete_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("event still present after delete: %+v", got)
	}
}

func TestStore_GetAll_SpansChapters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEvent(ctx, "gdg-providence", "Monthly Meetup", "2026-10-05")
	fixtures.CreateEvent(ctx, "gdg-boston", "Hack Night", "2026-10-12")

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("GetAll: got %d events, want 2", len(got))
	}
}

func TestStore_Query_ByChapter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEvent(ctx, "gdg-providence", "Monthly Meetup", "2026-10-05")
	fixtures.CreateEvent(ctx, "gdg-providence", "Intro Workshop", "2026-10-19")
	fixtures.CreateEvent(ctx, "gdg-boston", "Hack Night", "2026-10-12")

	got, err := store.Query(ctx, "chapter_id", "==", "gdg-providence")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Query: got %d events, want 2", len(got))
	}
	for _, ev := range got {
		if ev.ChapterID != "gdg-providence" {
			t.Errorf("Query returned event for chapter %q", ev.ChapterID)
		}
	}
}
