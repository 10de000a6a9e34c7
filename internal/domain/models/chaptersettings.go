// internal/domain/models/chaptersettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BrandColors holds a chapter's branding palette.
type BrandColors struct {
	Primary   string `bson:"primary" json:"primary"`
	Secondary string `bson:"secondary" json:"secondary"`
	Accent    string `bson:"accent,omitempty" json:"accent,omitempty"`
}

// ChapterSettings holds per-chapter configuration editable by admins.
// One document per chapter_id.
type ChapterSettings struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ChapterID string             `bson:"chapter_id" json:"chapter_id"`

	BrandColors        BrandColors `bson:"brand_colors" json:"brand_colors"`
	DefaultPlatforms   []string    `bson:"default_platforms,omitempty" json:"default_platforms,omitempty"`
	AutoScheduling     bool        `bson:"auto_scheduling" json:"auto_scheduling"`
	ApprovalRequired   bool        `bson:"approval_required" json:"approval_required"`
	NotificationEmails []string    `bson:"notification_emails,omitempty" json:"notification_emails,omitempty"`

	// Logo (file upload)
	LogoPath string `bson:"logo_path,omitempty" json:"logo_path,omitempty"` // storage path
	LogoName string `bson:"logo_name,omitempty" json:"logo_name,omitempty"` // original filename

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// HasLogo returns true if a logo has been uploaded.
func (s *ChapterSettings) HasLogo() bool {
	return s.LogoPath != ""
}

// Default branding used when a chapter has no saved settings.
const (
	DefaultPrimaryColor   = "#4285F4"
	DefaultSecondaryColor = "#34A853"
)
