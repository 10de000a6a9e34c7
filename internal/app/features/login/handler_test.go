package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	"github.com/dalemusser/chapterhub/internal/app/features/login"
	credstore "github.com/dalemusser/chapterhub/internal/app/store/credentials"
	loginstore "github.com/dalemusser/chapterhub/internal/app/store/logins"
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/dalemusser/chapterhub/internal/app/system/ratelimit"
	"github.com/dalemusser/chapterhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	// Dev-mode session manager; the short key only warns.
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	limiter := ratelimit.NewLoginLimiter()
	handler := login.NewHandler(db, sessionMgr, errLog, limiter, false, false, logger)
	return handler, db
}

func postLogin(handler *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.HandleLoginPost(rec, req)
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if _, err := credstore.New(db).Create(ctx, "admin@example.com", "correct-horse", userID); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	rec := postLogin(handler, url.Values{
		"email":    {"admin@example.com"},
		"password": {"correct-horse"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}

	// Should have set a session cookie
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}

	// Should have recorded a login history row
	recent, err := loginstore.New(db).Recent(ctx, userID, 5)
	if err != nil {
		t.Fatalf("load login history: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("login history: got %d rows, want 1", len(recent))
	}
	if recent[0].Method != "password" {
		t.Errorf("Method: got %q, want %q", recent[0].Method, "password")
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := credstore.New(db).Create(ctx, "editor@example.com", "correct-horse", primitive.NewObjectID()); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	rec := postLogin(handler, url.Values{
		"email":    {"editor@example.com"},
		"password": {"correct-horse"},
		"return":   {"/calendar"},
	})

	if loc := rec.Header().Get("Location"); loc != "/calendar" {
		t.Errorf("Location: got %q, want %q", loc, "/calendar")
	}
}

func TestHandleLoginPost_RejectsExternalReturnURL(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := credstore.New(db).Create(ctx, "viewer@example.com", "correct-horse", primitive.NewObjectID()); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	rec := postLogin(handler, url.Values{
		"email":    {"viewer@example.com"},
		"password": {"correct-horse"},
		"return":   {"//evil.example.com/phish"},
	})

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
}
