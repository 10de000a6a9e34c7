package generate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	"github.com/dalemusser/chapterhub/internal/app/features/generate"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*generate.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := generate.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	h.Generator = &generate.CannedGenerator{Delay: time.Millisecond}
	return h, testutil.NewFixtures(t, db)
}

func TestHandleSave(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "gdg-providence", "DevFest", "2099-10-12")

	req := testutil.NewFormRequest("/generate/save", map[string]string{
		"event_id":   ev.ID.Hex(),
		"keep":       "0",
		"text_0":     "DevFest is coming!",
		"platform_0": "twitter",
		"text_1":     "Unselected draft",
		"platform_1": "linkedin",
	}, testutil.EditorUser("gdg-providence"))
	rec := httptest.NewRecorder()

	handler.HandleSave(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d (body %q)", http.StatusSeeOther, rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/posts?status=draft" {
		t.Errorf("Location: got %q", loc)
	}

	saved, err := handler.Posts.GetByChapter(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("GetByChapter: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected only the kept draft saved, got %d posts", len(saved))
	}
	post := saved[0]
	if post.Text != "DevFest is coming!" {
		t.Errorf("Text: got %q", post.Text)
	}
	if post.Status != "draft" {
		t.Errorf("Status: got %q, want draft", post.Status)
	}
	if post.EventID == nil || *post.EventID != ev.ID {
		t.Error("saved draft not linked to the event")
	}
}

func TestHandleSave_NothingSelected(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewFormRequest("/generate/save", map[string]string{
		"text_0":     "Orphan draft",
		"platform_0": "twitter",
	}, testutil.EditorUser("gdg-providence"))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleSave(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("saving nothing should not redirect")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()

	saved, err := handler.Posts.GetByChapter(ctx, "gdg-providence")
	if err != nil {
		t.Fatalf("GetByChapter: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("expected no posts, got %d", len(saved))
	}
}

func TestHandleGenerate_OtherChapterEvent(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "gdg-boston", "Boston DevFest", "2099-10-12")

	req := testutil.NewFormRequest("/generate", map[string]string{
		"event_id": ev.ID.Hex(),
	}, testutil.EditorUser("gdg-providence"))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleGenerate(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("generating for another chapter's event should not succeed")
	}
}
