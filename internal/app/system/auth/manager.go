package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// ProfileFetcher resolves a credential-layer identity to its application
// profile. It must return ErrProfileNotFound (possibly wrapped) when no
// profile record exists for the identity.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID, email string) (*SessionUser, error)
}

// SessionManager owns the cookie session store and is the single source of
// truth for "who is signed in and what is their application role".
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher ProfileFetcher

	// mockUser, when set, is injected into every request instead of
	// consulting the session store. It is set once at startup from an
	// explicit configuration switch and is never data-driven.
	mockUser *SessionUser
}

// NewSessionManager initializes a SessionManager with the provided session
// key, cookie name, and domain. The secure flag controls whether cookies are
// marked Secure and which SameSite mode is used.
//
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetProfileFetcher wires the profile lookup used by LoadSessionUser.
// Fetching fresh profile data on each request ensures role changes, disabled
// accounts, and profile updates take effect immediately.
func (m *SessionManager) SetProfileFetcher(f ProfileFetcher) {
	m.fetcher = f
}

// SetMockUser switches the manager into mock-identity mode. This is a
// startup-time decision (config flag); there is no code path that flips it
// afterward.
func (m *SessionManager) SetMockUser(u *SessionUser) {
	m.mockUser = u
	m.log.Warn("mock auth enabled; all requests carry a fixed identity",
		zap.String("email", u.Email), zap.String("role", u.Role))
}

// SignIn records the credential-layer identity in the session cookie.
// The profile overlay happens on subsequent requests in LoadSessionUser.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID, email string) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	sess.Values[userEmailKey] = strings.ToLower(strings.TrimSpace(email))
	return sess.Save(r, w)
}

// SignOut clears the local session. It always succeeds locally: the session
// is a client-side cookie, so there is no remote invalidation that could
// fail and leave the UI stuck signed in.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := m.store.Get(r, m.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		m.log.Warn("session clear failed", zap.Error(err))
	}
}

// LoadSessionUser injects the merged user into context if they are signed in.
//
// A session that passes the credential gate but fails profile resolution is
// marked via ProfileMissing rather than treated as signed out; RequireSignedIn
// and RequireRole surface that as an explicit error page.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mockUser != nil {
			next.ServeHTTP(w, withUser(r, m.mockUser))
			return
		}

		sess, _ := m.store.Get(r, m.name)
		isAuth, _ := sess.Values[isAuthKey].(bool)
		if !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		userID := getString(sess, userIDKey)
		email := getString(sess, userEmailKey)

		if m.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.fetcher.FetchProfile(r.Context(), userID, email)
		switch {
		case err == nil:
			r = withUser(r, u)
		case isProfileNotFound(err):
			m.log.Warn("session resolves to no profile record",
				zap.String("user_id", userID), zap.String("email", email))
			r = withProfileMissing(r)
		default:
			m.log.Error("profile fetch failed", zap.Error(err))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
//
// A credential-valid session with a missing profile is redirected to the
// explicit profile-error page instead.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		if ProfileMissing(r) {
			redirectProfileError(w, r)
			return
		}
		loginRedirect(w, r)
	})
}

// RequireRole ensures there is a user with one of the allowed roles in
// context. Not-signed-in gets 401 semantics, wrong role gets 403 semantics,
// both with HTMX/HTML-aware redirects instead of blank errors.
func (m *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				if ProfileMissing(r) {
					redirectProfileError(w, r)
					return
				}
				loginRedirect(w, r)
				return
			}

			if _, has := set[strings.ToLower(u.Role)]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func redirectProfileError(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/profile-error")
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/profile-error", http.StatusSeeOther)
		return
	}
	http.Error(w, "profile not found", http.StatusForbidden)
}

func isProfileNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
