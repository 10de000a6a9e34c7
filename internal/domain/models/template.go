// internal/domain/models/template.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateTypes lists the valid template type values.
var TemplateTypes = []string{"event-announcement", "event-recap", "news", "welcome", "custom"}

// Template is a reusable content template. The body contains placeholder
// tokens ({var} or {{var}}) that are substituted textually; the declared
// Variables list documents which tokens the author intended, but nothing
// validates the body against it.
type Template struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChapterID   string             `bson:"chapter_id" json:"chapter_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Type        string             `bson:"type" json:"type"` // event-announcement | event-recap | news | welcome | custom
	Body        string             `bson:"body" json:"body"`
	Platforms   []string           `bson:"platforms,omitempty" json:"platforms,omitempty"`
	Variables   []string           `bson:"variables,omitempty" json:"variables,omitempty"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidTemplateType reports whether t is one of the fixed template types.
func IsValidTemplateType(t string) bool {
	for _, v := range TemplateTypes {
		if v == t {
			return true
		}
	}
	return false
}
