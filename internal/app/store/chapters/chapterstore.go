// internal/app/store/chapters/chapterstore.go
package chapterstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/chapterhub/internal/app/system/normalize"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug is returned when creating a chapter whose slug is taken.
var ErrDuplicateSlug = errors.New("a chapter with this slug already exists")

// Store provides access to chapter records.
type Store struct {
	c *mongo.Collection
}

// New creates a chapter store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chapters")}
}

// GetBySlug loads a chapter by its unique slug. Returns (nil, nil) when
// not found.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Chapter, error) {
	var ch models.Chapter
	err := s.c.FindOne(ctx, bson.M{"slug": normalize.Slug(slug)}).Decode(&ch)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// GetAll returns all chapters sorted by name.
func (s *Store) GetAll(ctx context.Context) ([]models.Chapter, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Chapter
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new chapter. The slug is normalized and must be unique.
func (s *Store) Create(ctx context.Context, ch models.Chapter) (models.Chapter, error) {
	ch.Slug = normalize.Slug(ch.Slug)
	if ch.Slug == "" {
		return models.Chapter{}, errors.New("chapter slug is required")
	}
	if ch.Name == "" {
		return models.Chapter{}, errors.New("chapter name is required")
	}

	now := time.Now().UTC()
	ch.CreatedAt = now
	ch.UpdatedAt = now

	res, err := s.c.InsertOne(ctx, ch)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Chapter{}, ErrDuplicateSlug
		}
		return models.Chapter{}, err
	}
	ch.ID = res.InsertedID.(primitive.ObjectID)
	return ch, nil
}

// Upsert inserts or refreshes a chapter keyed by slug. Seeding uses this so
// re-running the seed command is safe.
func (s *Store) Upsert(ctx context.Context, ch models.Chapter) error {
	ch.Slug = normalize.Slug(ch.Slug)
	now := time.Now().UTC()

	_, err := s.c.UpdateOne(ctx,
		bson.M{"slug": ch.Slug},
		bson.M{
			"$set": bson.M{
				"name":         ch.Name,
				"location":     ch.Location,
				"founded":      ch.Founded,
				"member_count": ch.MemberCount,
				"website":      ch.Website,
				"social_media": ch.SocialMedia,
				"description":  ch.Description,
				"updated_at":   now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// SetMemberCount updates the cached member count for a chapter.
func (s *Store) SetMemberCount(ctx context.Context, slug string, count int) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"slug": normalize.Slug(slug)},
		bson.M{"$set": bson.M{"member_count": count, "updated_at": time.Now().UTC()}},
	)
	return err
}
