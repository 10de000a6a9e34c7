// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	loginstore "github.com/dalemusser/chapterhub/internal/app/store/logins"
	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/dalemusser/chapterhub/internal/app/system/ratelimit"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateCookie = "chapterhub_oauth_state"

// statePayload rides the short-lived state cookie through the OAuth
// round-trip.
type statePayload struct {
	State     string `json:"state"`
	ReturnURL string `json:"return_url"`
	IssuedAt  int64  `json:"issued_at"`
}

// Handler handles Google OAuth sign-in.
//
// Google only proves identity. A successful callback still runs through the
// profile gate: if no member profile matches the Google email, the session
// lands in the explicit profile-missing state, not on the dashboard.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Members    *memberstore.Store
	Logins     *loginstore.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://chapterhub.example.com/auth/google/callback"

	codec *securecookie.SecureCookie
}

// NewHandler creates a Google OAuth handler. stateKey signs the state
// cookie; it can be the session key.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	clientID, clientSecret, baseURL, stateKey string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		Members:      memberstore.New(db),
		Logins:       loginstore.New(db),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  strings.TrimRight(baseURL, "/") + "/auth/google/callback",
		codec:        securecookie.New([]byte(stateKey), nil),
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Redirects to Google's consent screen with a signed state cookie.             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	payload := statePayload{
		State:     state,
		ReturnURL: query.Get(r, "return"),
		IssuedAt:  time.Now().Unix(),
	}
	encoded, err := h.codec.Encode(stateCookie, payload)
	if err != nil {
		h.Log.Error("failed to encode OAuth state cookie", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Validates state, exchanges the code, and signs the identity in.              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	payload, ok := h.readState(r)
	if !ok || payload.State == "" || payload.State != r.URL.Query().Get("state") {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}
	h.clearState(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}
	if !googleUser.EmailVerified {
		h.Log.Warn("Google account email not verified", zap.String("email", googleUser.Email))
		http.Redirect(w, r, "/login?error=email_unverified", http.StatusSeeOther)
		return
	}

	// Identity established. Sign in with the Google subject as the session
	// user id; the profile middleware resolves the email to a member
	// profile on each request, or parks the session in the
	// profile-missing state.
	if err := h.SessionMgr.SignIn(w, r, googleUser.ID, googleUser.Email); err != nil {
		h.Log.Error("session save failed after Google sign-in", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	h.recordLogin(r, googleUser.Email)

	dest := "/dashboard"
	if ret := payload.ReturnURL; ret != "" && strings.HasPrefix(ret, "/") && !strings.HasPrefix(ret, "//") {
		dest = ret
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) readState(r *http.Request) (statePayload, bool) {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return statePayload{}, false
	}
	var payload statePayload
	if err := h.codec.Decode(stateCookie, c.Value, &payload); err != nil {
		return statePayload{}, false
	}
	if time.Since(time.Unix(payload.IssuedAt, 0)) > 10*time.Minute {
		return statePayload{}, false
	}
	return payload, true
}

func (h *Handler) clearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// recordLogin appends a login-history row when the Google email resolves to
// a member profile. Identities with no profile are not recorded; they never
// get past the profile gate.
func (h *Handler) recordLogin(r *http.Request, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	member, err := h.Members.GetByEmail(ctx, email)
	if err != nil || member == nil {
		return
	}
	if err := h.Logins.Record(ctx, member.ID, email, "google",
		ratelimit.ClientIP(r), r.UserAgent()); err != nil {
		h.Log.Warn("failed to record login history", zap.Error(err))
	}
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// generateState returns a cryptographically random state value.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
