// Command seedchapter populates a chapter with sample data for local
// development and demos.
//
// Usage:
//
//	seedchapter <chapterID>
//
// It upserts the chapter document and creates two events, two posts (one
// published with metrics), two content templates, and default settings.
// Running it twice adds a second batch of events/posts/templates; the
// chapter document and settings are upserted in place. Connection settings
// come from CHAPTERHUB_MONGO_URI and CHAPTERHUB_MONGO_DATABASE.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	chapterstore "github.com/dalemusser/chapterhub/internal/app/store/chapters"
	eventstore "github.com/dalemusser/chapterhub/internal/app/store/events"
	poststore "github.com/dalemusser/chapterhub/internal/app/store/posts"
	settingsstore "github.com/dalemusser/chapterhub/internal/app/store/settings"
	templatestore "github.com/dalemusser/chapterhub/internal/app/store/templates"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: seedchapter <chapterID>")
		os.Exit(1)
	}
	chapterID := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, disconnect, err := connect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer disconnect()

	if err := seed(ctx, db, chapterID); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded chapter %s\n", chapterID)
}

func seed(ctx context.Context, db *mongo.Database, chapterID string) error {
	nextMonth := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")

	chapters := chapterstore.New(db)
	if err := chapters.Upsert(ctx, models.Chapter{
		Slug:        chapterID,
		Name:        chapterID,
		Description: "Seeded chapter for local development.",
	}); err != nil {
		return fmt.Errorf("chapter: %w", err)
	}

	events := eventstore.New(db)
	meetup, err := events.Create(ctx, models.Event{
		ChapterID:   chapterID,
		Title:       "Monthly Meetup",
		Date:        nextMonth,
		Time:        "18:30",
		Duration:    "2h",
		Description: "Talks, demos, and pizza.",
		Type:        "meetup",
		Location:    "Community Hall",
		CreatedBy:   "seed",
		Status:      models.EventStatusScheduled,
	})
	if err != nil {
		return fmt.Errorf("event: %w", err)
	}
	if _, err := events.Create(ctx, models.Event{
		ChapterID:   chapterID,
		Title:       "Intro Workshop",
		Date:        nextMonth,
		Time:        "10:00",
		Duration:    "3h",
		Description: "Hands-on session for newcomers.",
		Type:        "workshop",
		Location:    "Online",
		CreatedBy:   "seed",
		Status:      models.EventStatusDraft,
	}); err != nil {
		return fmt.Errorf("event: %w", err)
	}

	posts := poststore.New(db)
	published, err := posts.Create(ctx, models.SocialPost{
		ChapterID: chapterID,
		Text:      "Thanks to everyone who came to last month's meetup!",
		Platform:  "twitter",
		CreatedBy: "seed",
		Status:    models.PostStatusPublished,
	})
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	if err := posts.MarkPublished(ctx, published.ID); err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	if err := posts.SetMetrics(ctx, published.ID, models.PerformanceMetrics{
		Reach:          1200,
		Impressions:    2400,
		Likes:          85,
		Shares:         12,
		Comments:       7,
		EngagementRate: 4.3,
	}); err != nil {
		return fmt.Errorf("post metrics: %w", err)
	}
	if _, err := posts.Create(ctx, models.SocialPost{
		ChapterID: chapterID,
		Text:      "Join us for the Monthly Meetup on " + meetup.Date + " at 18:30!",
		Platform:  "linkedin",
		EventID:   &meetup.ID,
		CreatedBy: "seed",
		Status:    models.PostStatusDraft,
	}); err != nil {
		return fmt.Errorf("post: %w", err)
	}

	tmpls := templatestore.New(db)
	if _, err := tmpls.Create(ctx, models.Template{
		ChapterID:   chapterID,
		Name:        "Event announcement",
		Description: "Standard announcement for upcoming events.",
		Type:        "event-announcement",
		Body:        "Join us for {event_title} on {event_date} at {event_location}! Details: {event_link}",
		Platforms:   []string{"twitter", "linkedin"},
		Variables:   []string{"event_title", "event_date", "event_location", "event_link"},
		CreatedBy:   "seed",
	}); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if _, err := tmpls.Create(ctx, models.Template{
		ChapterID:   chapterID,
		Name:        "Event recap",
		Description: "Thank-you post after an event.",
		Type:        "event-recap",
		Body:        "What a turnout at {event_title}! Thanks to all {attendee_count} attendees.",
		Platforms:   []string{"twitter", "facebook"},
		Variables:   []string{"event_title", "attendee_count"},
		CreatedBy:   "seed",
	}); err != nil {
		return fmt.Errorf("template: %w", err)
	}

	settings := settingsstore.New(db)
	if err := settings.Save(ctx, chapterID, models.ChapterSettings{
		BrandColors: models.BrandColors{
			Primary:   models.DefaultPrimaryColor,
			Secondary: models.DefaultSecondaryColor,
		},
		DefaultPlatforms: []string{"twitter", "linkedin"},
	}, primitive.NilObjectID, "seed"); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	return nil
}

func connect(ctx context.Context) (*mongo.Database, func(), error) {
	uri := os.Getenv("CHAPTERHUB_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("CHAPTERHUB_MONGO_DATABASE")
	if dbName == "" {
		dbName = "chapterhub"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	disconnect := func() {
		_ = client.Disconnect(context.Background())
	}
	return client.Database(dbName), disconnect, nil
}
