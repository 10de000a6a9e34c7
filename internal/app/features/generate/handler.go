// internal/app/features/generate/handler.go
package generate

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/chapterhub/internal/app/store/events"
	poststore "github.com/dalemusser/chapterhub/internal/app/store/posts"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Events    *eventstore.Store
	Posts     *poststore.Store
	Generator Generator
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		Events:    eventstore.New(db),
		Posts:     poststore.New(db),
		Generator: NewCannedGenerator(),
	}
}

type pageData struct {
	viewdata.BaseVM
	Events    []models.Event
	Platforms []string
	EventID   string
	Tone      string
	Drafts    []Draft
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /generate                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "generate", pageData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Generate content", "/posts"),
		Events:    h.chapterEvents(r),
		Platforms: models.Platforms,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /generate                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/generate")
		return
	}

	eventID, err := primitive.ObjectIDFromHex(r.FormValue("event_id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid event id", err, "Please pick an event.", "/generate")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, "Failed to load the event.", "/generate")
		return
	}
	if ev == nil || ev.ChapterID != authz.ChapterID(r) {
		h.ErrLog.LogBadRequest(w, r, "event not found", nil, "That event does not exist.", "/generate")
		return
	}

	platforms := r.Form["platforms"]
	if len(platforms) == 0 {
		platforms = models.Platforms
	}
	tone := r.FormValue("tone")

	drafts, err := h.Generator.Generate(ctx, *ev, platforms, tone)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "generate drafts failed", err, "Content generation failed. Please try again.", "/generate")
		return
	}

	h.Log.Info("drafts generated",
		zap.String("event_id", ev.ID.Hex()),
		zap.Int("count", len(drafts)))

	templates.Render(w, r, "generate", pageData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Generate content", "/posts"),
		Events:    h.chapterEvents(r),
		Platforms: models.Platforms,
		EventID:   ev.ID.Hex(),
		Tone:      tone,
		Drafts:    drafts,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /generate/save                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSave stores the drafts the user kept as draft posts. The drafts
// travel back through the form; the indexes in "keep" select which ones.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/generate")
		return
	}

	var eventID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(r.FormValue("event_id")); err == nil {
		eventID = &oid
	}
	_, userName, _, _ := authz.UserCtx(r)
	chapterID := authz.ChapterID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	saved := 0
	for _, idx := range r.Form["keep"] {
		i, err := strconv.Atoi(idx)
		if err != nil {
			continue
		}
		text := htmlsanitize.Strip(r.FormValue(fmt.Sprintf("text_%d", i)))
		platform := r.FormValue(fmt.Sprintf("platform_%d", i))
		if text == "" || !models.IsValidPlatform(platform) {
			continue
		}

		_, err = h.Posts.Create(ctx, models.SocialPost{
			ChapterID: chapterID,
			Text:      text,
			Platform:  platform,
			EventID:   eventID,
			CreatedBy: userName,
			Status:    models.PostStatusDraft,
		})
		if err != nil {
			h.ErrLog.LogServerError(w, r, "save draft failed", err, "Failed to save the drafts.", "/generate")
			return
		}
		saved++
	}

	if saved == 0 {
		h.ErrLog.LogBadRequest(w, r, "no drafts selected", nil, "Select at least one draft to save.", "/generate")
		return
	}

	h.Log.Info("generated drafts saved",
		zap.String("chapter_id", chapterID),
		zap.Int("count", saved))

	http.Redirect(w, r, "/posts?status=draft", http.StatusSeeOther)
}

func (h *Handler) chapterEvents(r *http.Request) []models.Event {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Events.GetByChapter(ctx, authz.ChapterID(r))
	if err != nil {
		h.Log.Warn("load events for generate form failed", zap.Error(err))
		return nil
	}
	return events
}
