// internal/app/features/contenttemplates/handler.go
package contenttemplates

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	templatestore "github.com/dalemusser/chapterhub/internal/app/store/templates"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/placeholders"
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
	DB        *mongo.Database
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Templates *templatestore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		Templates: templatestore.New(db),
	}
}

type listData struct {
	viewdata.BaseVM
	Templates []models.Template
}

type formData struct {
	viewdata.BaseVM
	Template models.Template
	Types    []string
	IsNew    bool
	Error    string
}

type viewPageData struct {
	viewdata.BaseVM
	Template   models.Template
	Preview    string
	Unresolved bool
	Values     map[string]string
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Templates.GetByChapter(ctx, authz.ChapterID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load templates failed", err, "Failed to load templates.", "/dashboard")
		return
	}

	templates.Render(w, r, "templates_list", listData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Templates", "/dashboard"),
		Templates: list,
	})
}

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "templates_form", formData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "New template", "/templates"),
		Template: models.Template{Type: "custom"},
		Types:    models.TemplateTypes,
		IsNew:    true,
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/templates")
		return
	}

	_, userName, _, _ := authz.UserCtx(r)
	tmpl := models.Template{
		ChapterID:   authz.ChapterID(r),
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Type:        r.FormValue("type"),
		Body:        r.FormValue("body"),
		Platforms:   r.Form["platforms"],
		Variables:   splitVariables(r.FormValue("variables")),
		CreatedBy:   userName,
	}
	// Authors rarely bother declaring variables; fall back to the tokens
	// actually present in the body.
	if len(tmpl.Variables) == 0 {
		tmpl.Variables = placeholders.Tokens(tmpl.Body)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Templates.Create(ctx, tmpl)
	if err != nil {
		templates.Render(w, r, "templates_form", formData{
			BaseVM:   viewdata.NewBaseVM(r, h.DB, "New template", "/templates"),
			Template: tmpl,
			Types:    models.TemplateTypes,
			IsNew:    true,
			Error:    err.Error(),
		})
		return
	}

	h.Log.Info("template created",
		zap.String("template_id", created.ID.Hex()),
		zap.String("chapter_id", created.ChapterID),
		zap.String("name", created.Name))

	http.Redirect(w, r, "/templates/"+created.ID.Hex(), http.StatusSeeOther)
}

// ServeView shows a template along with a live preview. Submitted var_*
// form values are substituted into the body so the author can see the
// rendered text before copying it into a post.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}

	values := make(map[string]string)
	for _, v := range tmpl.Variables {
		values[v] = r.URL.Query().Get("var_" + v)
	}
	preview := placeholders.Substitute(tmpl.Body, values)

	templates.Render(w, r, "templates_view", viewPageData{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, tmpl.Name, "/templates"),
		Template:   *tmpl,
		Preview:    preview,
		Unresolved: placeholders.Unresolved(preview),
		Values:     values,
	})
}

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}

	templates.Render(w, r, "templates_form", formData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Edit template", "/templates"),
		Template: *tmpl,
		Types:    models.TemplateTypes,
	})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/templates")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	tmplType := r.FormValue("type")
	body := r.FormValue("body")
	platforms := r.Form["platforms"]
	variables := splitVariables(r.FormValue("variables"))
	if len(variables) == 0 {
		variables = placeholders.Tokens(body)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Templates.Update(ctx, id, templatestore.Update{
		Name:        &name,
		Description: &description,
		Type:        &tmplType,
		Body:        &body,
		Platforms:   &platforms,
		Variables:   &variables,
	})
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "update template failed", err, "Failed to save the template: "+err.Error(), "/templates/"+id.Hex()+"/edit")
		return
	}

	http.Redirect(w, r, "/templates/"+id.Hex(), http.StatusSeeOther)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Templates.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete template failed", err, "Failed to delete the template.", "/templates")
		return
	}

	h.Log.Info("template deleted", zap.String("template_id", id.Hex()))
	http.Redirect(w, r, "/templates", http.StatusSeeOther)
}

func (h *Handler) templateID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid template id", err, "That template does not exist.", "/templates")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) loadTemplate(w http.ResponseWriter, r *http.Request) (*models.Template, bool) {
	id, ok := h.templateID(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	tmpl, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load template failed", err, "Failed to load the template.", "/templates")
		return nil, false
	}
	if tmpl == nil || tmpl.ChapterID != authz.ChapterID(r) {
		h.ErrLog.LogBadRequest(w, r, "template not found", nil, "That template does not exist.", "/templates")
		return nil, false
	}
	return tmpl, true
}

func splitVariables(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
