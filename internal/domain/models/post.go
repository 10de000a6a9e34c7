// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Social post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// Platforms lists the supported social platforms.
var Platforms = []string{"twitter", "linkedin", "facebook", "instagram"}

// PerformanceMetrics holds manually-entered engagement numbers for a
// published post. Nothing in this system computes these; they are recorded
// from the platforms by hand.
type PerformanceMetrics struct {
	EngagementRate float64 `bson:"engagement_rate,omitempty" json:"engagement_rate,omitempty"`
	ClickRate      float64 `bson:"click_rate,omitempty" json:"click_rate,omitempty"`
	Reach          int     `bson:"reach,omitempty" json:"reach,omitempty"`
	Likes          int     `bson:"likes,omitempty" json:"likes,omitempty"`
	Shares         int     `bson:"shares,omitempty" json:"shares,omitempty"`
	Comments       int     `bson:"comments,omitempty" json:"comments,omitempty"`
	Clicks         int     `bson:"clicks,omitempty" json:"clicks,omitempty"`
	Impressions    int     `bson:"impressions,omitempty" json:"impressions,omitempty"`
}

// SocialPost is a piece of social content, optionally tied to an event
// and/or generated from a template.
type SocialPost struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ChapterID  string              `bson:"chapter_id" json:"chapter_id"`
	Text       string              `bson:"text" json:"text"`
	Platform   string              `bson:"platform" json:"platform"` // twitter | linkedin | facebook | instagram
	EventID    *primitive.ObjectID `bson:"event_id,omitempty" json:"event_id,omitempty"`
	TemplateID *primitive.ObjectID `bson:"template_id,omitempty" json:"template_id,omitempty"`
	CreatedBy  string              `bson:"created_by" json:"created_by"`
	Status     string              `bson:"status" json:"status"` // draft | scheduled | published | archived

	ScheduledFor *time.Time `bson:"scheduled_for,omitempty" json:"scheduled_for,omitempty"`
	PublishedAt  *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`

	Metrics   *PerformanceMetrics `bson:"performance_metrics,omitempty" json:"performance_metrics,omitempty"`
	MediaURLs []string            `bson:"media_urls,omitempty" json:"media_urls,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidPlatform reports whether p is a supported platform.
func IsValidPlatform(p string) bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

// IsValidPostStatus reports whether s is a valid post status.
func IsValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}
