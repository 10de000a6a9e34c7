// internal/domain/models/chapter.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chapter is a local community group: the tenancy/grouping key for events,
// posts, templates, and settings. Chapters are created by seeding scripts
// and rarely mutated afterward.
type Chapter struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug        string             `bson:"slug" json:"slug"` // unique, e.g. "gdg-providence"
	Name        string             `bson:"name" json:"name"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Founded     string             `bson:"founded,omitempty" json:"founded,omitempty"` // YYYY-MM-DD
	MemberCount int                `bson:"member_count" json:"member_count"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	SocialMedia map[string]string  `bson:"social_media,omitempty" json:"social_media,omitempty"` // platform -> URL
	LogoURL     string             `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
