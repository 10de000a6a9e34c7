package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

/*─────────────────────────────────────────────────────────────────────────────*
 | Current-User helpers                                                        |
 *─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the merged view injected into r.Context(): profile fields
// (role, chapter, display name, photo) overlaid on the credential-layer
// identity (user id, email).
type SessionUser struct {
	ID        string
	Name      string
	Email     string
	Role      string // admin | editor | viewer
	ChapterID string
	PhotoURL  string
}

// ErrProfileNotFound signals that a valid credential-layer session has no
// matching profile record. This is a distinct state from "not signed in":
// credential validity and application-profile existence are two separate
// gates, and the absence of a profile is a data-integrity error, never a
// silent fallback to an empty profile.
var ErrProfileNotFound = errors.New("user profile not found")

type ctxKey string

const (
	currentUserKey    ctxKey = "currentUser"
	profileMissingKey ctxKey = "profileMissing"
)

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// ProfileMissing reports whether the request carries a valid credential
// session whose profile record could not be resolved.
func ProfileMissing(r *http.Request) bool {
	v, _ := r.Context().Value(profileMissingKey).(bool)
	return v
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user directly into the request context, bypassing
// the session middleware. For tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withProfileMissing(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), profileMissingKey, true))
}

/*─────────────────────────────────────────────────────────────────────────────*
 | Shared request helpers                                                      |
 *─────────────────────────────────────────────────────────────────────────────*/

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	// Preserve path + query as a return param.
	u := *r.URL
	return u.RequestURI()
}

func loginRedirect(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Browser/HTML: go to login and preserve return
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}

	// Non-HTML (API) callers: plain 401
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
