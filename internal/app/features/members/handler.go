// internal/app/features/members/handler.go
package members

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	credstore "github.com/dalemusser/chapterhub/internal/app/store/credentials"
	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Members *memberstore.Store
	Creds   *credstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Members: memberstore.New(db),
		Creds:   credstore.New(db),
	}
}

type listData struct {
	viewdata.BaseVM
	Members []models.User
}

type formData struct {
	viewdata.BaseVM
	Member models.User
	Roles  []string
	IsNew  bool
	Error  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /members                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Members.Query(ctx, "chapter_id", "==", authz.ChapterID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load members failed", err, "Failed to load members.", "/dashboard")
		return
	}

	templates.Render(w, r, "members_list", listData{
		BaseVM:  viewdata.NewBaseVM(r, h.DB, "Members", "/dashboard"),
		Members: list,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /members/new, POST /members                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "members_form", formData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "New member", "/members"),
		Member: models.User{Role: authz.RoleViewer},
		Roles:  authz.AllRoles,
		IsNew:  true,
	})
}

// HandleCreate adds a member profile and, when a password is supplied,
// a password credential so the member can sign in right away. Members
// without a credential can still arrive through Google sign-in.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/members")
		return
	}

	member := models.User{
		Email:       strings.TrimSpace(r.FormValue("email")),
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
		Role:        r.FormValue("role"),
		ChapterID:   authz.ChapterID(r),
	}
	password := r.FormValue("password")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Members.Create(ctx, member)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, memberstore.ErrDuplicateEmail) {
			msg = "A member with that email already exists."
		}
		templates.Render(w, r, "members_form", formData{
			BaseVM: viewdata.NewBaseVM(r, h.DB, "New member", "/members"),
			Member: member,
			Roles:  authz.AllRoles,
			IsNew:  true,
			Error:  msg,
		})
		return
	}

	if password != "" {
		if _, err := h.Creds.Create(ctx, created.Email, password, created.ID); err != nil {
			// Profile exists but sign-in does not; the admin can retry
			// from the edit page.
			h.Log.Error("create credential failed",
				zap.String("member_id", created.ID.Hex()),
				zap.Error(err))
			h.ErrLog.LogServerError(w, r, "create credential failed", err, "Member created, but setting the password failed: "+err.Error(), "/members")
			return
		}
	}

	h.Log.Info("member created",
		zap.String("member_id", created.ID.Hex()),
		zap.String("chapter_id", created.ChapterID),
		zap.String("role", created.Role))

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /members/{id}/edit, POST /members/{id}                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	templates.Render(w, r, "members_form", formData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Edit member", "/members"),
		Member: *member,
		Roles:  authz.AllRoles,
	})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/members")
		return
	}

	displayName := strings.TrimSpace(r.FormValue("display_name"))
	role := r.FormValue("role")
	status := r.FormValue("status")

	// An admin cannot demote or disable themselves; chapters must keep a
	// working admin account.
	_, _, selfID, _ := authz.UserCtx(r)
	if member.ID == selfID && (role != authz.RoleAdmin || status == "disabled") {
		h.ErrLog.LogForbidden(w, r, "self demotion blocked", "You cannot change your own role or disable yourself.", "/members/"+member.ID.Hex()+"/edit")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Members.Update(ctx, member.ID, memberstore.Update{
		DisplayName: &displayName,
		Role:        &role,
		Status:      &status,
	})
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "update member failed", err, "Failed to save the member: "+err.Error(), "/members/"+member.ID.Hex()+"/edit")
		return
	}

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /members/{id}/delete                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	_, _, selfID, _ := authz.UserCtx(r)
	if member.ID == selfID {
		h.ErrLog.LogForbidden(w, r, "self deletion blocked", "You cannot delete your own account.", "/members")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Members.Delete(ctx, member.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete member failed", err, "Failed to delete the member.", "/members")
		return
	}
	if err := h.Creds.Delete(ctx, member.Email); err != nil {
		h.Log.Warn("delete credential failed",
			zap.String("member_id", member.ID.Hex()),
			zap.Error(err))
	}

	h.Log.Info("member deleted", zap.String("member_id", member.ID.Hex()))
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (h *Handler) loadMember(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid member id", err, "That member does not exist.", "/members")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Members.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load member failed", err, "Failed to load the member.", "/members")
		return nil, false
	}
	if member == nil || member.ChapterID != authz.ChapterID(r) {
		h.ErrLog.LogBadRequest(w, r, "member not found", nil, "That member does not exist.", "/members")
		return nil, false
	}
	return member, true
}
