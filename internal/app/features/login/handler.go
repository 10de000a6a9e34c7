// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	credstore "github.com/dalemusser/chapterhub/internal/app/store/credentials"
	loginstore "github.com/dalemusser/chapterhub/internal/app/store/logins"
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/dalemusser/chapterhub/internal/app/system/ratelimit"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Creds      *credstore.Store
	Logins     *loginstore.Store
	Limiter    *ratelimit.LoginLimiter

	GoogleEnabled bool // true if Google OAuth is configured
	MockEnabled   bool // true if a mock user is injected (dev only)
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
	MockEnabled   bool
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	limiter *ratelimit.LoginLimiter,
	googleEnabled bool,
	mockEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Creds:         credstore.New(db),
		Logins:        loginstore.New(db),
		Limiter:       limiter,
		GoogleEnabled: googleEnabled,
		MockEnabled:   mockEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
		MockEnabled:   h.MockEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email, ret)
		return
	}

	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("email", email),
			zap.String("reason", reason),
			zap.String("ip", ratelimit.ClientIP(r)))
		h.renderFormWithError(w, r, "Too many sign-in attempts. Please wait a few minutes and try again.", email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cred, err := h.Creds.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, credstore.ErrInvalidCredentials) {
			// Deliberately the same message for unknown email and wrong
			// password.
			h.renderFormWithError(w, r, "Invalid email or password.", email, ret)
			return
		}
		h.ErrLog.LogServerError(w, r, "credential verify failed", err, "Sign-in is unavailable right now. Please try again.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, cred.UserID.Hex(), cred.Email); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Sign-in is unavailable right now. Please try again.", "/login")
		return
	}

	h.Limiter.ResetEmail(email)
	h.recordLogin(r, cred)

	dest := "/dashboard"
	if ret != "" && strings.HasPrefix(ret, "/") && !strings.HasPrefix(ret, "//") {
		dest = ret
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// recordLogin appends a login-history row. Failures are logged and do not
// block the sign-in.
func (h *Handler) recordLogin(r *http.Request, cred *models.Credential) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	err := h.Logins.Record(ctx, cred.UserID, cred.Email, "password",
		ratelimit.ClientIP(r), r.UserAgent())
	if err != nil {
		h.Log.Warn("failed to record login history", zap.Error(err))
	}
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
		MockEnabled:   h.MockEnabled,
	})
}
