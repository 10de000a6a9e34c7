// internal/app/features/calendar/handler.go
package calendar

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/chapterhub/internal/app/store/events"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/htmlsanitize"
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
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Events *eventstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Events: eventstore.New(db),
	}
}

type listData struct {
	viewdata.BaseVM
	Events []models.Event
}

type formData struct {
	viewdata.BaseVM
	Event      models.Event
	EventTypes []string
	IsNew      bool
	Error      string
}

type viewData struct {
	viewdata.BaseVM
	Event models.Event
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /calendar                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	chapterID := authz.ChapterID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.GetByChapter(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load events failed", err, "Failed to load the calendar.", "/dashboard")
		return
	}

	templates.Render(w, r, "calendar_list", listData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Calendar", "/dashboard"),
		Events: events,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /calendar/new, POST /calendar                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "calendar_form", formData{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, "New event", "/calendar"),
		Event:      models.Event{Status: models.EventStatusDraft},
		EventTypes: models.EventTypes,
		IsNew:      true,
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/calendar")
		return
	}

	_, userName, _, _ := authz.UserCtx(r)
	ev := h.eventFromForm(r)
	ev.ChapterID = authz.ChapterID(r)
	ev.CreatedBy = userName

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Events.Create(ctx, ev)
	if err != nil {
		templates.Render(w, r, "calendar_form", formData{
			BaseVM:     viewdata.NewBaseVM(r, h.DB, "New event", "/calendar"),
			Event:      ev,
			EventTypes: models.EventTypes,
			IsNew:      true,
			Error:      err.Error(),
		})
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", created.ID.Hex()),
		zap.String("chapter_id", created.ChapterID),
		zap.String("title", created.Title))

	http.Redirect(w, r, "/calendar/"+created.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /calendar/{id}, GET /calendar/{id}/edit, POST /calendar/{id}            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	templates.Render(w, r, "calendar_view", viewData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, ev.Title, "/calendar"),
		Event:  *ev,
	})
}

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	templates.Render(w, r, "calendar_form", formData{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, "Edit event", "/calendar"),
		Event:      *ev,
		EventTypes: models.EventTypes,
	})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/calendar")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	date := strings.TrimSpace(r.FormValue("date"))
	timeStr := strings.TrimSpace(r.FormValue("time"))
	duration := strings.TrimSpace(r.FormValue("duration"))
	description := htmlsanitize.Strip(r.FormValue("description"))
	link := strings.TrimSpace(r.FormValue("link"))
	evType := r.FormValue("type")
	location := strings.TrimSpace(r.FormValue("location"))

	upd := eventstore.Update{
		Title:       &title,
		Date:        &date,
		Time:        &timeStr,
		Duration:    &duration,
		Description: &description,
		Link:        &link,
		Type:        &evType,
		Location:    &location,
	}
	if v := strings.TrimSpace(r.FormValue("attendees_count")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			upd.Attendees = &n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Events.Update(ctx, id, upd); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update event failed", err, "Failed to save the event: "+err.Error(), "/calendar/"+id.Hex()+"/edit")
		return
	}

	http.Redirect(w, r, "/calendar/"+id.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /calendar/{id}/status, POST /calendar/{id}/delete                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleStatus moves an event between draft, scheduled, completed, and
// cancelled. Status is always an explicit user action here; no background
// job advances events past their date.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/calendar")
		return
	}

	status := r.FormValue("status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Events.SetStatus(ctx, id, status); err != nil {
		h.ErrLog.LogBadRequest(w, r, "set event status failed", err, "Failed to change the event status.", "/calendar/"+id.Hex())
		return
	}

	http.Redirect(w, r, "/calendar/"+id.Hex(), http.StatusSeeOther)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete event failed", err, "Failed to delete the event.", "/calendar")
		return
	}

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))
	http.Redirect(w, r, "/calendar", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid event id", err, "That event does not exist.", "/calendar")
		return primitive.NilObjectID, false
	}
	return id, true
}

// loadEvent fetches the event and verifies it belongs to the user's
// chapter. Events from other chapters 404 rather than leak.
func (h *Handler) loadEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	id, ok := h.eventID(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, "Failed to load the event.", "/calendar")
		return nil, false
	}
	if ev == nil || ev.ChapterID != authz.ChapterID(r) {
		h.ErrLog.LogBadRequest(w, r, "event not found", nil, "That event does not exist.", "/calendar")
		return nil, false
	}
	return ev, true
}

func (h *Handler) eventFromForm(r *http.Request) models.Event {
	return models.Event{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Time:        strings.TrimSpace(r.FormValue("time")),
		Duration:    strings.TrimSpace(r.FormValue("duration")),
		Description: htmlsanitize.Strip(r.FormValue("description")),
		Link:        strings.TrimSpace(r.FormValue("link")),
		Type:        r.FormValue("type"),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Status:      models.EventStatusDraft,
	}
}
