package analytics_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/chapterhub/internal/app/features/analytics"
	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*analytics.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return analytics.NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func TestServeExport(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := fixtures.CreatePost(ctx, "gdg-providence", "Export me", "twitter", "published")
	fixtures.CreatePost(ctx, "gdg-providence", "Draft stays home", "twitter", "draft")
	if err := handler.Posts.SetMetrics(ctx, post.ID, models.PerformanceMetrics{
		Reach: 900, Likes: 33, EngagementRate: 3.7,
	}); err != nil {
		t.Fatalf("SetMetrics: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/export", testutil.ViewerUser("gdg-providence"))
	rec := httptest.NewRecorder()

	handler.ServeExport(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition: got %q", cd)
	}

	body := rec.Body.String()
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines:\n%s", len(lines), body)
	}
	if !strings.HasPrefix(lines[0], "published_at,platform,text") {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Export me") || !strings.Contains(lines[1], "900") {
		t.Errorf("row: got %q", lines[1])
	}
	if strings.Contains(body, "Draft stays home") {
		t.Error("draft post leaked into the export")
	}
}

func TestServeExport_Empty(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/export", testutil.ViewerUser("gdg-providence"))
	rec := httptest.NewRecorder()

	handler.ServeExport(rec, req)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected only the header row, got %d lines", len(lines))
	}
}
