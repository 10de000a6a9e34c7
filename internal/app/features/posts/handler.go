// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/chapterhub/internal/app/store/events"
	poststore "github.com/dalemusser/chapterhub/internal/app/store/posts"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
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
	Posts  *poststore.Store
	Events *eventstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Posts:  poststore.New(db),
		Events: eventstore.New(db),
	}
}

type listData struct {
	viewdata.BaseVM
	Posts        []models.SocialPost
	StatusFilter string
}

type formData struct {
	viewdata.BaseVM
	Post      models.SocialPost
	Platforms []string
	Events    []models.Event
	IsNew     bool
	Error     string
}

type viewData struct {
	viewdata.BaseVM
	Post  models.SocialPost
	Event *models.Event
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /posts                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	chapterID := authz.ChapterID(r)
	statusFilter := query.Get(r, "status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.GetByChapter(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load posts failed", err, "Failed to load posts.", "/dashboard")
		return
	}

	if models.IsValidPostStatus(statusFilter) {
		filtered := posts[:0]
		for _, p := range posts {
			if p.Status == statusFilter {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	templates.Render(w, r, "posts_list", listData{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Posts", "/dashboard"),
		Posts:        posts,
		StatusFilter: statusFilter,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /posts/new, POST /posts                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "posts_form", formData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "New post", "/posts"),
		Post:      models.SocialPost{Status: models.PostStatusDraft},
		Platforms: models.Platforms,
		Events:    h.chapterEvents(r),
		IsNew:     true,
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/posts")
		return
	}

	_, userName, _, _ := authz.UserCtx(r)
	post := models.SocialPost{
		ChapterID: authz.ChapterID(r),
		Text:      htmlsanitize.Strip(r.FormValue("text")),
		Platform:  r.FormValue("platform"),
		CreatedBy: userName,
		MediaURLs: splitMediaURLs(r.FormValue("media_urls")),
	}
	if id, err := primitive.ObjectIDFromHex(r.FormValue("event_id")); err == nil {
		post.EventID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Posts.Create(ctx, post)
	if err != nil {
		templates.Render(w, r, "posts_form", formData{
			BaseVM:    viewdata.NewBaseVM(r, h.DB, "New post", "/posts"),
			Post:      post,
			Platforms: models.Platforms,
			Events:    h.chapterEvents(r),
			IsNew:     true,
			Error:     err.Error(),
		})
		return
	}

	h.Log.Info("post created",
		zap.String("post_id", created.ID.Hex()),
		zap.String("chapter_id", created.ChapterID),
		zap.String("platform", created.Platform))

	http.Redirect(w, r, "/posts/"+created.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /posts/{id}, GET /posts/{id}/edit, POST /posts/{id}                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	var ev *models.Event
	if post.EventID != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		// Linked event may have been deleted; the page just omits it.
		ev, _ = h.Events.GetByID(ctx, *post.EventID)
	}

	templates.Render(w, r, "posts_view", viewData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Post", "/posts"),
		Post:   *post,
		Event:  ev,
	})
}

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	templates.Render(w, r, "posts_form", formData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Edit post", "/posts"),
		Post:      *post,
		Platforms: models.Platforms,
		Events:    h.chapterEvents(r),
	})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/posts")
		return
	}

	text := htmlsanitize.Strip(r.FormValue("text"))
	platform := r.FormValue("platform")
	media := splitMediaURLs(r.FormValue("media_urls"))

	upd := poststore.Update{
		Text:      &text,
		Platform:  &platform,
		MediaURLs: &media,
	}
	var eventID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(r.FormValue("event_id")); err == nil {
		eventID = &oid
	}
	upd.EventID = &eventID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Posts.Update(ctx, id, upd); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update post failed", err, "Failed to save the post: "+err.Error(), "/posts/"+id.Hex()+"/edit")
		return
	}

	http.Redirect(w, r, "/posts/"+id.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Lifecycle actions                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/posts")
		return
	}

	// The form sends a datetime-local value in the chapter's local time;
	// it is stored as provided and interpreted as UTC.
	at, err := time.Parse("2006-01-02T15:04", r.FormValue("scheduled_for"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad schedule time", err, "Please pick a valid date and time.", "/posts/"+id.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.Schedule(ctx, id, at); err != nil {
		h.ErrLog.LogBadRequest(w, r, "schedule post failed", err, "Failed to schedule the post.", "/posts/"+id.Hex())
		return
	}

	http.Redirect(w, r, "/posts/"+id.Hex(), http.StatusSeeOther)
}

// HandlePublish records that the user posted the content on the platform.
// The dashboard never talks to the social networks themselves.
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.MarkPublished(ctx, id); err != nil {
		h.ErrLog.LogBadRequest(w, r, "publish post failed", err, "Failed to mark the post published.", "/posts/"+id.Hex())
		return
	}

	h.Log.Info("post marked published", zap.String("post_id", id.Hex()))
	http.Redirect(w, r, "/posts/"+id.Hex(), http.StatusSeeOther)
}

func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.Archive(ctx, id); err != nil {
		h.ErrLog.LogBadRequest(w, r, "archive post failed", err, "Failed to archive the post.", "/posts/"+id.Hex())
		return
	}

	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

// HandleMetrics stores manually-entered engagement numbers.
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/posts")
		return
	}

	m := models.PerformanceMetrics{
		EngagementRate: formFloat(r, "engagement_rate"),
		ClickRate:      formFloat(r, "click_rate"),
		Reach:          formInt(r, "reach"),
		Likes:          formInt(r, "likes"),
		Shares:         formInt(r, "shares"),
		Comments:       formInt(r, "comments"),
		Clicks:         formInt(r, "clicks"),
		Impressions:    formInt(r, "impressions"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.SetMetrics(ctx, id, m); err != nil {
		h.ErrLog.LogBadRequest(w, r, "set post metrics failed", err, "Failed to save the metrics.", "/posts/"+id.Hex())
		return
	}

	http.Redirect(w, r, "/posts/"+id.Hex(), http.StatusSeeOther)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete post failed", err, "Failed to delete the post.", "/posts")
		return
	}

	h.Log.Info("post deleted", zap.String("post_id", id.Hex()))
	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid post id", err, "That post does not exist.", "/posts")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request) (*models.SocialPost, bool) {
	id, ok := h.postID(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load post failed", err, "Failed to load the post.", "/posts")
		return nil, false
	}
	if post == nil || post.ChapterID != authz.ChapterID(r) {
		h.ErrLog.LogBadRequest(w, r, "post not found", nil, "That post does not exist.", "/posts")
		return nil, false
	}
	return post, true
}

// chapterEvents loads the chapter's events for the event picker on the
// post form. A load failure leaves the picker empty rather than failing
// the whole page.
func (h *Handler) chapterEvents(r *http.Request) []models.Event {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Events.GetByChapter(ctx, authz.ChapterID(r))
	if err != nil {
		h.Log.Warn("load events for post form failed", zap.Error(err))
		return nil
	}
	return events
}

func splitMediaURLs(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if u := strings.TrimSpace(line); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func formInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if n < 0 {
		return 0
	}
	return n
}

func formFloat(r *http.Request, name string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(r.FormValue(name)), 64)
	if f < 0 {
		return 0
	}
	return f
}
