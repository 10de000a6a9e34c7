// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	loginstore "github.com/dalemusser/chapterhub/internal/app/store/logins"
	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
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

// maxProfileBody bounds the profile form, which can include a photo.
const maxProfileBody = 4 << 20

const recentLoginsLimit = 10

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Members *memberstore.Store
	Logins  *loginstore.Store
	Storage storage.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Members: memberstore.New(db),
		Logins:  loginstore.New(db),
		Storage: store,
	}
}

type profileVM struct {
	viewdata.BaseVM
	Member   models.User
	PhotoURL string
	Logins   []models.LoginRecord
	Error    string
}

// ServeProfile displays the signed-in member's own profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadSelf(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	logins, err := h.Logins.Recent(ctx, member.ID, recentLoginsLimit)
	if err != nil {
		h.Log.Warn("load login history failed", zap.Error(err))
	}

	h.render(w, r, *member, logins, "")
}

// HandleProfile updates the member's display name and photo.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadSelf(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileBody)
	if err := r.ParseMultipartForm(maxProfileBody); err != nil {
		if err.Error() == "http: request body too large" {
			h.ErrLog.LogBadRequest(w, r, "request too large", err, "Request is too large. Maximum size is 4 MB.", "/profile")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	displayName := strings.TrimSpace(r.FormValue("display_name"))
	if displayName == "" {
		h.render(w, r, *member, nil, "Display name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	upd := memberstore.Update{DisplayName: &displayName}

	file, header, fileErr := r.FormFile("photo")
	if fileErr == nil && header != nil && header.Size > 0 {
		defer file.Close()

		if h.Storage == nil {
			h.render(w, r, *member, nil, "File storage is unavailable; photo changes are disabled.")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			h.render(w, r, *member, nil, "Profile photo must be an image file.")
			return
		}

		if member.HasPhoto() {
			if err := h.Storage.Delete(ctx, member.PhotoPath); err != nil {
				h.Log.Warn("failed to delete old photo", zap.String("path", member.PhotoPath), zap.Error(err))
			}
		}

		path, err := uploads.Save(ctx, h.Storage, "photos", header.Filename, file, contentType)
		if err != nil {
			h.Log.Error("photo upload failed", zap.Error(err))
			h.render(w, r, *member, nil, "Failed to upload the photo. Please try again.")
			return
		}
		filename := header.Filename
		upd.PhotoPath = &path
		upd.PhotoName = &filename
	}

	if err := h.Members.Update(ctx, member.ID, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "Failed to save your profile.", "/profile")
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handler) loadSelf(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Members.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "Failed to load your profile.", "/dashboard")
		return nil, false
	}
	if member == nil {
		// Google-only identities have no profile keyed by ObjectID; fall
		// back to the session email.
		if su, ok := auth.CurrentUser(r); ok {
			member, err = h.Members.GetByEmail(ctx, su.Email)
			if err != nil {
				h.ErrLog.LogServerError(w, r, "load profile failed", err, "Failed to load your profile.", "/dashboard")
				return nil, false
			}
		}
	}
	if member == nil {
		http.Redirect(w, r, "/profile-error", http.StatusSeeOther)
		return nil, false
	}
	return member, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, member models.User, logins []models.LoginRecord, errMsg string) {
	photoURL := ""
	if member.HasPhoto() && h.Storage != nil {
		photoURL = h.Storage.URL(member.PhotoPath)
	}

	templates.Render(w, r, "profile", profileVM{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Your profile", "/dashboard"),
		Member:   member,
		PhotoURL: photoURL,
		Logins:   logins,
		Error:    errMsg,
	})
}
