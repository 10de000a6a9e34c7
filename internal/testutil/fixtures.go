package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateChapter creates a test chapter with the given slug and name.
func (f *Fixtures) CreateChapter(ctx context.Context, slug, name string) models.Chapter {
	f.t.Helper()

	now := time.Now().UTC()
	ch := models.Chapter{
		ID:        primitive.NewObjectID(),
		Slug:      slug,
		Name:      name,
		Location:  "Test City, TS",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("chapters").InsertOne(ctx, ch)
	if err != nil {
		f.t.Fatalf("failed to create test chapter: %v", err)
	}

	return ch
}

// CreateMember creates a test member profile with the given role.
// The record is written to both the members and users collections, same as
// the production write path.
func (f *Fixtures) CreateMember(ctx context.Context, displayName, email, role, chapterID string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		DisplayName:   displayName,
		DisplayNameCI: text.Fold(displayName),
		Role:          role,
		ChapterID:     chapterID,
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, coll := range []string{"members", "users"} {
		if _, err := f.db.Collection(coll).InsertOne(ctx, u); err != nil {
			f.t.Fatalf("failed to create test member in %s: %v", coll, err)
		}
	}

	return u
}

// CreateAdmin creates a test admin profile.
func (f *Fixtures) CreateAdmin(ctx context.Context, displayName, email, chapterID string) models.User {
	f.t.Helper()
	return f.CreateMember(ctx, displayName, email, "admin", chapterID)
}

// CreateDisabledMember creates a profile with disabled status.
func (f *Fixtures) CreateDisabledMember(ctx context.Context, displayName, email, chapterID string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		DisplayName:   displayName,
		DisplayNameCI: text.Fold(displayName),
		Role:          "viewer",
		ChapterID:     chapterID,
		Status:        "disabled",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, coll := range []string{"members", "users"} {
		if _, err := f.db.Collection(coll).InsertOne(ctx, u); err != nil {
			f.t.Fatalf("failed to create disabled test member in %s: %v", coll, err)
		}
	}

	return u
}

// CreateEvent creates a test event on the given date (YYYY-MM-DD).
func (f *Fixtures) CreateEvent(ctx context.Context, chapterID, title, date string) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:          primitive.NewObjectID(),
		ChapterID:   chapterID,
		Title:       title,
		Date:        date,
		Time:        "18:00",
		Description: "Test event description",
		Type:        "meetup",
		CreatedBy:   "fixtures",
		Status:      models.EventStatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("events").InsertOne(ctx, ev)
	if err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}

	return ev
}

// CreatePost creates a test social post with the given status.
func (f *Fixtures) CreatePost(ctx context.Context, chapterID, text, platform, status string) models.SocialPost {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.SocialPost{
		ID:        primitive.NewObjectID(),
		ChapterID: chapterID,
		Text:      text,
		Platform:  platform,
		CreatedBy: "fixtures",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == models.PostStatusPublished {
		p.PublishedAt = &now
	}

	_, err := f.db.Collection("posts").InsertOne(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}

	return p
}

// CreateTemplate creates a test content template.
func (f *Fixtures) CreateTemplate(ctx context.Context, chapterID, name, body string) models.Template {
	f.t.Helper()

	now := time.Now().UTC()
	tmpl := models.Template{
		ID:        primitive.NewObjectID(),
		ChapterID: chapterID,
		Name:      name,
		Type:      "custom",
		Body:      body,
		CreatedBy: "fixtures",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("templates").InsertOne(ctx, tmpl)
	if err != nil {
		f.t.Fatalf("failed to create test template: %v", err)
	}

	return tmpl
}

// CreateLoginRecord creates a login history row at the given time.
func (f *Fixtures) CreateLoginRecord(ctx context.Context, userID primitive.ObjectID, email string, at time.Time) models.LoginRecord {
	f.t.Helper()

	rec := models.LoginRecord{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Email:  email,
		Method: "password",
		At:     at,
	}

	_, err := f.db.Collection("login_history").InsertOne(ctx, rec)
	if err != nil {
		f.t.Fatalf("failed to create test login record: %v", err)
	}

	return rec
}
