// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses. Transitions are user-driven through the calendar pages;
// no background job ever advances an event's status.
const (
	EventStatusDraft     = "draft"
	EventStatusScheduled = "scheduled"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// EventTypes lists the valid event type values.
var EventTypes = []string{"meetup", "workshop", "conference", "hackathon", "online", "other"}

// Speaker is an embedded speaker entry on an event.
type Speaker struct {
	Name     string `bson:"name" json:"name"`
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Company  string `bson:"company,omitempty" json:"company,omitempty"`
	PhotoURL string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
}

// Event is a chapter event shown on the calendar and dashboard.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChapterID      string             `bson:"chapter_id" json:"chapter_id"`
	Title          string             `bson:"title" json:"title"`
	Date           string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time           string             `bson:"time" json:"time"` // HH:MM (24h)
	Duration       string             `bson:"duration,omitempty" json:"duration,omitempty"`
	Description    string             `bson:"description" json:"description"`
	Link           string             `bson:"link,omitempty" json:"link,omitempty"`
	Type           string             `bson:"type" json:"type"` // meetup | workshop | conference | hackathon | online | other
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Speakers       []Speaker          `bson:"speakers,omitempty" json:"speakers,omitempty"`
	AttendeesCount int                `bson:"attendees_count,omitempty" json:"attendees_count,omitempty"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	Status         string             `bson:"status" json:"status"` // draft | scheduled | completed | cancelled
	CoverImage     string             `bson:"cover_image,omitempty" json:"cover_image,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidEventType reports whether t is one of the fixed event types.
func IsValidEventType(t string) bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValidEventStatus reports whether s is a valid event status.
func IsValidEventStatus(s string) bool {
	switch s {
	case EventStatusDraft, EventStatusScheduled, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
