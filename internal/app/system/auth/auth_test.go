package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	m, err := NewSessionManager("0123456789abcdef0123456789abcdef", "chapterhub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return m
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := NewSessionManager("", "chapterhub-test", "", false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

type staticFetcher struct {
	user *SessionUser
	err  error
}

func (f staticFetcher) FetchProfile(_ context.Context, _, _ string) (*SessionUser, error) {
	return f.user, f.err
}

func TestSignIn_ThenLoadSessionUser(t *testing.T) {
	m := newTestManager(t)
	profile := &SessionUser{
		ID:        "507f1f77bcf86cd799439011",
		Name:      "Demo Admin",
		Email:     "admin@test.com",
		Role:      "admin",
		ChapterID: "gdg-providence",
	}
	m.SetProfileFetcher(staticFetcher{user: profile})

	// Sign in and capture the session cookie.
	signinReq := httptest.NewRequest("POST", "/login", nil)
	signinRec := httptest.NewRecorder()
	if err := m.SignIn(signinRec, signinReq, profile.ID, profile.Email); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookies")
	}

	// A subsequent request with that cookie resolves the merged profile.
	var got *SessionUser
	handler := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user in context after sign-in")
	}
	if got.Role != "admin" || got.ChapterID != "gdg-providence" {
		t.Errorf("unexpected merged profile: %+v", got)
	}
}

func TestLoadSessionUser_ProfileNotFound(t *testing.T) {
	m := newTestManager(t)
	m.SetProfileFetcher(staticFetcher{err: fmt.Errorf("lookup: %w", ErrProfileNotFound)})

	signinReq := httptest.NewRequest("POST", "/login", nil)
	signinRec := httptest.NewRecorder()
	if err := m.SignIn(signinRec, signinReq, "507f1f77bcf86cd799439011", "ghost@test.com"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	var sawUser, sawMissing bool
	handler := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = CurrentUser(r)
		sawMissing = ProfileMissing(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if sawUser {
		t.Error("credential-only session must not resolve to a user")
	}
	if !sawMissing {
		t.Error("expected explicit profile-missing state, not silent sign-out")
	}
}

func TestRequireSignedIn_RedirectsAnonymous(t *testing.T) {
	m := newTestManager(t)
	handler := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for anonymous request")
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?return=%2Fdashboard" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestRequireSignedIn_ProfileMissingRedirect(t *testing.T) {
	m := newTestManager(t)
	handler := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run when the profile is missing")
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	req = withProfileMissing(req)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/profile-error" {
		t.Errorf("Location: got %q, want /profile-error", loc)
	}
}

func TestRequireRole(t *testing.T) {
	m := newTestManager(t)

	ok := false
	handler := m.RequireRole("admin", "editor")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok = true
	}))

	// Editor passes.
	req := WithTestUser(httptest.NewRequest("GET", "/calendar", nil),
		&SessionUser{ID: "507f1f77bcf86cd799439011", Role: "editor"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !ok {
		t.Error("editor should pass RequireRole(admin, editor)")
	}

	// Viewer is redirected to /forbidden.
	ok = false
	req = WithTestUser(httptest.NewRequest("GET", "/calendar", nil),
		&SessionUser{ID: "507f1f77bcf86cd799439011", Role: "viewer"})
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if ok {
		t.Error("viewer must not pass RequireRole(admin, editor)")
	}
	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Errorf("Location: got %q, want /forbidden", loc)
	}
}

func TestMockUser_InjectedWithoutSession(t *testing.T) {
	m := newTestManager(t)
	m.SetMockUser(&SessionUser{
		ID: "507f1f77bcf86cd799439011", Name: "Mock", Email: "mock@test.com",
		Role: "admin", ChapterID: "gdg-test",
	})

	var got *SessionUser
	handler := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got == nil || got.Email != "mock@test.com" {
		t.Errorf("mock identity not injected: %+v", got)
	}
}

func TestSignOut_AlwaysClearsLocally(t *testing.T) {
	m := newTestManager(t)

	req := httptest.NewRequest("POST", "/logout", nil)
	rec := httptest.NewRecorder()
	m.SignOut(rec, req)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("SignOut did not expire the session cookie")
	}
}
