// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/chapterhub/internal/app/store/query"
	"github.com/dalemusser/chapterhub/internal/app/system/normalize"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errNoTitle    = errors.New("event title is required")
	errNoChapter  = errors.New("event must have chapter_id")
	errBadDate    = errors.New("event date must be YYYY-MM-DD")
	errBadTime    = errors.New("event time must be HH:MM")
	errBadType    = errors.New("unknown event type")
	errBadStatus  = errors.New("unknown event status")
	ErrNotFound   = errors.New("event not found")
)

// Store provides access to event records.
type Store struct {
	c *mongo.Collection
}

// New creates an event store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// GetByID loads an event. Returns (nil, nil) when not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var ev models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetAll returns every event across all chapters. Iteration order is
// unspecified.
func (s *Store) GetAll(ctx context.Context) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByChapter returns a chapter's events sorted by date then time,
// earliest first.
func (s *Store) GetByChapter(ctx context.Context, chapterID string) ([]models.Event, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"chapter_id": normalize.Slug(chapterID)},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upcoming returns the next scheduled events on or after the given date
// (YYYY-MM-DD), earliest first, up to limit.
func (s *Store) Upcoming(ctx context.Context, chapterID, fromDate string, limit int64) ([]models.Event, error) {
	filter := bson.M{
		"chapter_id": normalize.Slug(chapterID),
		"date":       bson.M{"$gte": fromDate},
		"status":     models.EventStatusScheduled,
	}
	cur, err := s.c.Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Query returns events matching a single-field predicate.
func (s *Store) Query(ctx context.Context, field, op string, value interface{}) ([]models.Event, error) {
	filter, err := query.Filter(field, op, value)
	if err != nil {
		return nil, err
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create validates and inserts a new event. Status defaults to draft.
func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	ev.ChapterID = normalize.Slug(ev.ChapterID)
	if ev.Status == "" {
		ev.Status = models.EventStatusDraft
	}
	if err := validate(&ev); err != nil {
		return models.Event{}, err
	}

	ev.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Update describes the event fields that can change. Nil pointers leave the
// stored value untouched.
type Update struct {
	Title       *string
	Date        *string
	Time        *string
	Duration    *string
	Description *string
	Link        *string
	Type        *string
	Location    *string
	Speakers    *[]models.Speaker
	Attendees   *int
	Status      *string
	CoverImage  *string
}

// Update merges the provided fields into an existing event.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Date != nil {
		if _, err := time.Parse("2006-01-02", *upd.Date); err != nil {
			return errBadDate
		}
		set["date"] = *upd.Date
	}
	if upd.Time != nil {
		if _, err := time.Parse("15:04", *upd.Time); err != nil {
			return errBadTime
		}
		set["time"] = *upd.Time
	}
	if upd.Duration != nil {
		set["duration"] = *upd.Duration
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Link != nil {
		set["link"] = *upd.Link
	}
	if upd.Type != nil {
		if !models.IsValidEventType(*upd.Type) {
			return errBadType
		}
		set["type"] = *upd.Type
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Speakers != nil {
		set["speakers"] = *upd.Speakers
	}
	if upd.Attendees != nil {
		set["attendees_count"] = *upd.Attendees
	}
	if upd.Status != nil {
		if !models.IsValidEventStatus(*upd.Status) {
			return errBadStatus
		}
		set["status"] = *upd.Status
	}
	if upd.CoverImage != nil {
		set["cover_image"] = *upd.CoverImage
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus changes an event's status. All transitions are user-driven;
// any valid status can follow any other.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.IsValidEventStatus(status) {
		return errBadStatus
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event. Missing ids are not an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CountByStatus returns event counts per status for a chapter.
func (s *Store) CountByStatus(ctx context.Context, chapterID string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, status := range []string{
		models.EventStatusDraft,
		models.EventStatusScheduled,
		models.EventStatusCompleted,
		models.EventStatusCancelled,
	} {
		n, err := s.c.CountDocuments(ctx, bson.M{
			"chapter_id": normalize.Slug(chapterID),
			"status":     status,
		})
		if err != nil {
			return nil, fmt.Errorf("count %s events: %w", status, err)
		}
		out[status] = n
	}
	return out, nil
}

func validate(ev *models.Event) error {
	if ev.Title == "" {
		return errNoTitle
	}
	if ev.ChapterID == "" {
		return errNoChapter
	}
	if _, err := time.Parse("2006-01-02", ev.Date); err != nil {
		return errBadDate
	}
	if _, err := time.Parse("15:04", ev.Time); err != nil {
		return errBadTime
	}
	if !models.IsValidEventType(ev.Type) {
		return errBadType
	}
	if !models.IsValidEventStatus(ev.Status) {
		return errBadStatus
	}
	return nil
}
