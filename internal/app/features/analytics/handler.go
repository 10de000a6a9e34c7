// internal/app/features/analytics/handler.go
package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/chapterhub/internal/app/features/errors"
	poststore "github.com/dalemusser/chapterhub/internal/app/store/posts"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/app/system/viewdata"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const topPostsLimit = 5

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Posts  *poststore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Posts:  poststore.New(db),
	}
}

type pageData struct {
	viewdata.BaseVM
	Stats      []poststore.PlatformStats
	TopPosts   []models.SocialPost
	TotalPosts int
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	chapterID := authz.ChapterID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := h.Posts.StatsByPlatform(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "aggregate platform stats failed", err, "Failed to load analytics.", "/dashboard")
		return
	}
	top, err := h.Posts.TopByEngagement(ctx, chapterID, topPostsLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load top posts failed", err, "Failed to load analytics.", "/dashboard")
		return
	}

	total := 0
	for _, s := range stats {
		total += s.Posts
	}

	templates.Render(w, r, "analytics", pageData{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, "Analytics", "/dashboard"),
		Stats:      stats,
		TopPosts:   top,
		TotalPosts: total,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics/export                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeExport streams the chapter's published posts and their metrics as
// a CSV download.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	chapterID := authz.ChapterID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	posts, err := h.Posts.Published(ctx, chapterID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load posts for export failed", err, "Failed to export analytics.", "/analytics")
		return
	}

	filename := fmt.Sprintf("%s-posts-%s.csv", chapterID, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"published_at", "platform", "text",
		"reach", "impressions", "likes", "shares", "comments", "clicks",
		"engagement_rate", "click_rate",
	})

	for _, p := range posts {
		published := ""
		if p.PublishedAt != nil {
			published = p.PublishedAt.Format(time.RFC3339)
		}
		m := p.Metrics
		if m == nil {
			m = &models.PerformanceMetrics{}
		}
		_ = cw.Write([]string{
			published,
			p.Platform,
			p.Text,
			fmt.Sprint(m.Reach),
			fmt.Sprint(m.Impressions),
			fmt.Sprint(m.Likes),
			fmt.Sprint(m.Shares),
			fmt.Sprint(m.Comments),
			fmt.Sprint(m.Clicks),
			fmt.Sprint(m.EngagementRate),
			fmt.Sprint(m.ClickRate),
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("csv export write failed", zap.Error(err))
	}
}
