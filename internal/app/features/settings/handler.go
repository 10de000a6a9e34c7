// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	settingsstore "github.com/dalemusser/chapterhub/internal/app/store/settings"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/uploads"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxSettingsBody bounds the settings form, which can include a logo.
const maxSettingsBody = 8 << 20

var hexColorRE = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Settings *settingsstore.Store
	Storage  storage.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Settings: settingsstore.New(db),
		Storage:  store,
	}
}

type settingsVM struct {
	viewdata.BaseVM
	Settings  models.ChapterSettings
	Platforms []string
	Emails    string
	Error     string
}

// ServeSettings displays the settings form.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	settings, err := h.Settings.Get(ctx, authz.ChapterID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings failed", err, "Failed to load settings.", "/dashboard")
		return
	}

	h.render(w, r, settings, "")
}

// HandleSettings processes the settings form submission.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	chapterID := authz.ChapterID(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxSettingsBody)
	if err := r.ParseMultipartForm(maxSettingsBody); err != nil {
		if err.Error() == "http: request body too large" {
			h.ErrLog.LogBadRequest(w, r, "request too large", err, "Request is too large. Maximum size is 8 MB.", "/settings")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/settings")
		return
	}

	primary := strings.TrimSpace(r.FormValue("primary_color"))
	secondary := strings.TrimSpace(r.FormValue("secondary_color"))
	accent := strings.TrimSpace(r.FormValue("accent_color"))
	platforms := r.Form["default_platforms"]
	autoScheduling := r.FormValue("auto_scheduling") != ""
	approvalRequired := r.FormValue("approval_required") != ""
	emails := splitEmails(r.FormValue("notification_emails"))
	removeLogo := r.FormValue("remove_logo") != ""

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	current, err := h.Settings.Get(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings failed", err, "Failed to load settings.", "/settings")
		return
	}

	if !hexColorRE.MatchString(primary) || !hexColorRE.MatchString(secondary) {
		h.render(w, r, current, "Brand colors must be hex values like #4285F4.")
		return
	}
	if accent != "" && !hexColorRE.MatchString(accent) {
		h.render(w, r, current, "Accent color must be a hex value like #FBBC05.")
		return
	}
	for _, p := range platforms {
		if !models.IsValidPlatform(p) {
			h.render(w, r, current, "Unknown platform selected.")
			return
		}
	}

	settings := models.ChapterSettings{
		BrandColors: models.BrandColors{
			Primary:   primary,
			Secondary: secondary,
			Accent:    accent,
		},
		DefaultPlatforms:   platforms,
		AutoScheduling:     autoScheduling,
		ApprovalRequired:   approvalRequired,
		NotificationEmails: emails,
	}

	_, uname, userID, _ := authz.UserCtx(r)
	if err := h.Settings.Save(ctx, chapterID, settings, userID, uname); err != nil {
		h.Log.Error("failed to save settings", zap.Error(err))
		h.render(w, r, current, "Failed to save settings.")
		return
	}

	if removeLogo && current.HasLogo() {
		if h.Storage == nil {
			h.render(w, r, current, "File storage is unavailable; logo changes are disabled.")
			return
		}
		if err := h.Storage.Delete(ctx, current.LogoPath); err != nil {
			h.Log.Warn("failed to delete old logo", zap.String("path", current.LogoPath), zap.Error(err))
		}
		if err := h.Settings.ClearLogo(ctx, chapterID); err != nil {
			h.ErrLog.LogServerError(w, r, "clear logo failed", err, "Failed to remove the logo.", "/settings")
			return
		}
	}

	file, header, fileErr := r.FormFile("logo")
	if fileErr == nil && header != nil && header.Size > 0 {
		defer file.Close()

		if h.Storage == nil {
			h.render(w, r, current, "File storage is unavailable; logo changes are disabled.")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			h.render(w, r, current, "Logo must be an image file.")
			return
		}

		if current.HasLogo() && !removeLogo {
			if err := h.Storage.Delete(ctx, current.LogoPath); err != nil {
				h.Log.Warn("failed to delete old logo", zap.String("path", current.LogoPath), zap.Error(err))
			}
		}

		path, err := uploads.Save(ctx, h.Storage, "logos", header.Filename, file, contentType)
		if err != nil {
			h.Log.Error("logo upload failed", zap.Error(err))
			h.render(w, r, current, "Failed to upload logo. Please try again.")
			return
		}
		if err := h.Settings.SetLogo(ctx, chapterID, path, header.Filename); err != nil {
			h.ErrLog.LogServerError(w, r, "save logo failed", err, "Failed to save the logo.", "/settings")
			return
		}
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, settings models.ChapterSettings, errMsg string) {
	templates.Render(w, r, "settings", settingsVM{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Settings", "/dashboard"),
		Settings:  settings,
		Platforms: models.Platforms,
		Emails:    strings.Join(settings.NotificationEmails, "\n"),
		Error:     errMsg,
	})
}

func splitEmails(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if e := strings.ToLower(strings.TrimSpace(line)); e != "" {
			out = append(out, e)
		}
	}
	return out
}
