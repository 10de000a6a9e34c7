// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/chapterhub/internal/app/store/events"
	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	poststore "github.com/dalemusser/chapterhub/internal/app/store/posts"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Events  *eventstore.Store
	Posts   *poststore.Store
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Events:  eventstore.New(db),
		Posts:   poststore.New(db),
		Members: memberstore.New(db),
	}
}

type dashboardData struct {
	viewdata.BaseVM

	UpcomingEvents []models.Event
	MemberCount    int64
	EventCounts    map[string]int64
	PostCounts     map[string]int64
	RecentPosts    []models.SocialPost
}

// ServeDashboard handles GET /dashboard. One dashboard for every role;
// edit affordances are hidden in the template for viewers.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	chapterID := authz.ChapterID(r)
	if chapterID == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	today := time.Now().UTC().Format("2006-01-02")
	upcoming, err := h.Events.Upcoming(ctx, chapterID, today, 5)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load upcoming events failed", err, "Failed to load the dashboard.", "/")
		return
	}

	eventCounts, err := h.Events.CountByStatus(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count events failed", err, "Failed to load the dashboard.", "/")
		return
	}

	postCounts, err := h.Posts.CountByStatus(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count posts failed", err, "Failed to load the dashboard.", "/")
		return
	}

	memberCount, err := h.Members.CountByChapter(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count members failed", err, "Failed to load the dashboard.", "/")
		return
	}

	recent, err := h.Posts.Published(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load recent posts failed", err, "Failed to load the dashboard.", "/")
		return
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	data := dashboardData{
		BaseVM:         viewdata.NewBaseVM(r, h.DB, "Dashboard", "/"),
		UpcomingEvents: upcoming,
		MemberCount:    memberCount,
		EventCounts:    eventCounts,
		PostCounts:     postCounts,
		RecentPosts:    recent,
	}

	templates.Render(w, r, "dashboard", data)
}
