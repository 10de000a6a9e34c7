// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the application-level profile record for a chapter member.
//
// NOTE:
//   - Credential verification is a separate gate (see models.Credential).
//     A valid credential whose email resolves to no User record is the
//     explicit "profile not found" state, not "signed out".
//   - For legacy compatibility the same profile is stored in BOTH the
//     "users" and "members" collections. The dual-write is centralized in
//     memberstore; nothing else writes these collections.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	DisplayName   string             `bson:"display_name" json:"display_name"`
	DisplayNameCI string             `bson:"display_name_ci" json:"display_name_ci"` // lowercase, diacritics-stripped
	Role          string             `bson:"role" json:"role"`                       // admin | editor | viewer
	ChapterID     string             `bson:"chapter_id" json:"chapter_id"`           // chapter slug, e.g. "gdg-providence"
	PhotoPath     string             `bson:"photo_path,omitempty" json:"photo_path,omitempty"`
	PhotoName     string             `bson:"photo_name,omitempty" json:"photo_name,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPhoto returns true if a profile photo has been uploaded.
func (u *User) HasPhoto() bool {
	return u.PhotoPath != ""
}
