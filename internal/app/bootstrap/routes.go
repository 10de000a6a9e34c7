// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	analyticsfeature "github.com/dalemusser/chapterhub/internal/app/features/analytics"
	authgooglefeature "github.com/dalemusser/chapterhub/internal/app/features/authgoogle"
	calendarfeature "github.com/dalemusser/chapterhub/internal/app/features/calendar"
	contenttemplatesfeature "github.com/dalemusser/chapterhub/internal/app/features/contenttemplates"
	dashboardfeature "github.com/dalemusser/chapterhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/chapterhub/internal/app/features/errors"
	generatefeature "github.com/dalemusser/chapterhub/internal/app/features/generate"
	healthfeature "github.com/dalemusser/chapterhub/internal/app/features/health"
	homefeature "github.com/dalemusser/chapterhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/chapterhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/chapterhub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/chapterhub/internal/app/features/members"
	postsfeature "github.com/dalemusser/chapterhub/internal/app/features/posts"
	profilefeature "github.com/dalemusser/chapterhub/internal/app/features/profile"
	settingsfeature "github.com/dalemusser/chapterhub/internal/app/features/settings"
	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/dalemusser/chapterhub/internal/app/system/ratelimit"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// loginLimiter is created in BuildHandler and stopped in Shutdown.
var loginLimiter *ratelimit.LoginLimiter

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// ChapterHub initializes the template engine, applies session and CSRF
// middleware, and mounts feature routers for all application areas:
// authentication, dashboard, calendar, posts, templates, generation,
// analytics, settings, members, and profile.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.ChapterHubMongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// File storage for chapter logos and profile photos.
	store, err := newStorage(context.Background(), appCfg, logger)
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}
	viewdata.Init(store)

	// Set up the profile fetcher so LoadSessionUser overlays fresh member
	// data on each request. Role changes, disabled accounts, and profile
	// updates take effect immediately.
	members := memberstore.New(db)
	sessionMgr.SetProfileFetcher(memberstore.NewFetcher(members, store))

	if appCfg.MockAuth {
		// ValidateConfig already rejected mock_auth in prod. The mock
		// identity must resolve to a real member so chapter scoping and
		// role checks behave like a genuine session.
		mockUser, err := loadMockUser(appCfg.MockAuthEmail, members, store)
		if err != nil {
			logger.Error("mock auth init failed", zap.Error(err))
			return nil, err
		}
		sessionMgr.SetMockUser(mockUser)
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Failed-login throttling, shared by the password login handler.
	// Kept in a package var so Shutdown can stop its cleanup goroutines.
	limiter := ratelimit.NewLoginLimiterWithConfig(
		appCfg.LoginIPLimit, appCfg.LoginIPWindow,
		appCfg.LoginEmailLimit, appCfg.LoginEmailWindow,
	)
	loginLimiter = limiter

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	r := chi.NewRouter()

	// Global auth middleware: loads the session user into context so all
	// handlers can read it via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ChapterHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Locally stored uploads (logos, photos) are served straight from disk.
	// With S3 storage the URLs point at CloudFront instead.
	if appCfg.StorageType == "local" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Public landing page
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, limiter, googleEnabled, appCfg.MockAuth, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(db, sessionMgr,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret,
			appCfg.BaseURL, appCfg.SessionKey, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.Get("/profile-error", errorsHandler.ProfileError)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		templates.Render(w, r, "not_found", nil)
	})

	// Chapter overview
	dashboardHandler := dashboardfeature.NewHandler(db, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Events
	calendarHandler := calendarfeature.NewHandler(db, errLog, logger)
	r.Mount("/calendar", calendarfeature.Routes(calendarHandler, sessionMgr))

	// Social posts and content generation
	postsHandler := postsfeature.NewHandler(db, errLog, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler, sessionMgr))

	generateHandler := generatefeature.NewHandler(db, errLog, logger)
	r.Mount("/generate", generatefeature.Routes(generateHandler, sessionMgr))

	ctHandler := contenttemplatesfeature.NewHandler(db, errLog, logger)
	r.Mount("/templates", contenttemplatesfeature.Routes(ctHandler, sessionMgr))

	// Analytics
	analyticsHandler := analyticsfeature.NewHandler(db, errLog, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

	// Chapter administration
	settingsHandler := settingsfeature.NewHandler(db, errLog, store, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(db, errLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	// Own profile
	profileHandler := profilefeature.NewHandler(db, errLog, store, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Every state-changing form in the app carries the CSRF token; the
	// middleware wraps the whole router so a new mount cannot forget it.
	protect := csrf.Protect([]byte(appCfg.SessionKey), csrf.Secure(secure), csrf.Path("/"))
	return protect(r), nil
}

// loadMockUser resolves the configured mock email to a real member profile.
func loadMockUser(email string, members *memberstore.Store, urls memberstore.URLResolver) (*auth.SessionUser, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	u, err := members.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load mock user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("mock_auth_email %q matches no member", email)
	}

	su := &auth.SessionUser{
		ID:        u.ID.Hex(),
		Name:      u.DisplayName,
		Email:     u.Email,
		Role:      u.Role,
		ChapterID: u.ChapterID,
	}
	if urls != nil && u.HasPhoto() {
		su.PhotoURL = urls.URL(u.PhotoPath)
	}
	return su, nil
}
