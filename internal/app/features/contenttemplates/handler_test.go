package contenttemplates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/chapterhub/internal/app/features/contenttemplates"
	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*contenttemplates.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return contenttemplates.NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func TestHandleCreate(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewFormRequest("/templates", map[string]string{
		"name":      "Event announcement",
		"type":      "event-announcement",
		"body":      "Join us for {event_title} on {event_date}!",
		"platforms": "twitter",
	}, testutil.EditorUser("gdg-providence"))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d (body %q)", http.StatusSeeOther, rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()

	list, err := handler.Templates.GetByChapter(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("GetByChapter: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 template, got %d", len(list))
	}
	tmpl := list[0]
	if tmpl.Name != "Event announcement" {
		t.Errorf("Name: got %q", tmpl.Name)
	}

	// Variables detected from the body when none are declared.
	want := []string{"event_title", "event_date"}
	if len(tmpl.Variables) != len(want) {
		t.Fatalf("Variables: got %v, want %v", tmpl.Variables, want)
	}
	for i, v := range want {
		if tmpl.Variables[i] != v {
			t.Errorf("Variables[%d]: got %q, want %q", i, tmpl.Variables[i], v)
		}
	}
}

func TestHandleCreate_MissingBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewFormRequest("/templates", map[string]string{
		"name": "Empty",
		"type": "custom",
	}, testutil.EditorUser("gdg-providence"))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleCreate(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("create without a body should not redirect")
	}
}

func TestHandleUpdate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := fixtures.CreateTemplate(ctx, "gdg-providence", "Recap", "Thanks for coming to {event_title}!")

	req := testutil.NewFormRequest("/templates/"+tmpl.ID.Hex(), map[string]string{
		"name":      "Recap v2",
		"type":      "event-recap",
		"body":      "Thanks for coming to {event_title}! {highlight}",
		"variables": "event_title, highlight",
	}, testutil.EditorUser("gdg-providence"))
	req = testutil.WithChiURLParam(req, "id", tmpl.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	got, err := handler.Templates.GetByID(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Recap v2" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.Type != "event-recap" {
		t.Errorf("Type: got %q", got.Type)
	}
	if len(got.Variables) != 2 || got.Variables[1] != "highlight" {
		t.Errorf("Variables: got %v", got.Variables)
	}
}

func TestHandleDelete(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := fixtures.CreateTemplate(ctx, "gdg-providence", "Old template", "{body}")

	req := testutil.NewFormRequest("/templates/"+tmpl.ID.Hex()+"/delete", nil, testutil.AdminUser("gdg-providence"))
	req = testutil.WithChiURLParam(req, "id", tmpl.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	got, err := handler.Templates.GetByID(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Error("template still present after delete")
	}
}
