// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/chapterhub/internal/app/system/normalize"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to per-chapter settings. One document per
// chapter_id; chapters with no saved document get defaults.
type Store struct {
	c *mongo.Collection
}

// New creates a settings store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chapter_settings")}
}

// Get returns the settings for a chapter, falling back to defaults when no
// document has been saved yet.
func (s *Store) Get(ctx context.Context, chapterID string) (models.ChapterSettings, error) {
	chapterID = normalize.Slug(chapterID)

	var settings models.ChapterSettings
	err := s.c.FindOne(ctx, bson.M{"chapter_id": chapterID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return defaults(chapterID), nil
	}
	if err != nil {
		return models.ChapterSettings{}, err
	}

	if settings.BrandColors.Primary == "" {
		settings.BrandColors.Primary = models.DefaultPrimaryColor
	}
	if settings.BrandColors.Secondary == "" {
		settings.BrandColors.Secondary = models.DefaultSecondaryColor
	}
	return settings, nil
}

// Save upserts a chapter's settings document. updatedBy records who made the
// change for the settings page audit line.
func (s *Store) Save(ctx context.Context, chapterID string, settings models.ChapterSettings, updatedByID primitive.ObjectID, updatedByName string) error {
	chapterID = normalize.Slug(chapterID)
	now := time.Now().UTC()

	set := bson.M{
		"brand_colors":        settings.BrandColors,
		"default_platforms":   settings.DefaultPlatforms,
		"auto_scheduling":     settings.AutoScheduling,
		"approval_required":   settings.ApprovalRequired,
		"notification_emails": settings.NotificationEmails,
		"updated_at":          now,
		"updated_by_id":       updatedByID,
		"updated_by_name":     updatedByName,
	}
	if settings.LogoPath != "" {
		set["logo_path"] = settings.LogoPath
		set["logo_name"] = settings.LogoName
	}

	_, err := s.c.UpdateOne(ctx,
		bson.M{"chapter_id": chapterID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"chapter_id": chapterID},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// SetLogo records an uploaded logo without touching the other settings.
func (s *Store) SetLogo(ctx context.Context, chapterID, logoPath, logoName string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"chapter_id": normalize.Slug(chapterID)},
		bson.M{
			"$set": bson.M{
				"logo_path":  logoPath,
				"logo_name":  logoName,
				"updated_at": time.Now().UTC(),
			},
			"$setOnInsert": bson.M{"chapter_id": normalize.Slug(chapterID)},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// ClearLogo removes the stored logo reference.
func (s *Store) ClearLogo(ctx context.Context, chapterID string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"chapter_id": normalize.Slug(chapterID)},
		bson.M{
			"$unset": bson.M{"logo_path": "", "logo_name": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

func defaults(chapterID string) models.ChapterSettings {
	return models.ChapterSettings{
		ChapterID: chapterID,
		BrandColors: models.BrandColors{
			Primary:   models.DefaultPrimaryColor,
			Secondary: models.DefaultSecondaryColor,
		},
		DefaultPlatforms: []string{"twitter", "linkedin"},
	}
}
