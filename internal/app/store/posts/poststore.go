// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
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
	// ErrNotFound is returned by mutations that matched no post.
	ErrNotFound = errors.New("post not found")

	errNoText      = errors.New("post text is required")
	errNoChapter   = errors.New("post must have chapter_id")
	errBadPlatform = errors.New("unknown platform")
	errBadStatus   = errors.New("unknown post status")
)

// Store provides access to social post records.
type Store struct {
	c *mongo.Collection
}

// New creates a post store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// GetByID loads a post. Returns (nil, nil) when not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SocialPost, error) {
	var p models.SocialPost
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns every post across all chapters. Iteration order is
// unspecified.
func (s *Store) GetAll(ctx context.Context) ([]models.SocialPost, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SocialPost
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByChapter returns a chapter's posts, newest first.
func (s *Store) GetByChapter(ctx context.Context, chapterID string) ([]models.SocialPost, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"chapter_id": normalize.Slug(chapterID)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SocialPost
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Published returns a chapter's published posts, most recent first. The
// analytics pages aggregate over this set.
func (s *Store) Published(ctx context.Context, chapterID string) ([]models.SocialPost, error) {
	cur, err := s.c.Find(ctx,
		bson.M{
			"chapter_id": normalize.Slug(chapterID),
			"status":     models.PostStatusPublished,
		},
		options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SocialPost
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Query returns posts matching a single-field predicate.
func (s *Store) Query(ctx context.Context, field, op string, value interface{}) ([]models.SocialPost, error) {
	filter, err := query.Filter(field, op, value)
	if err != nil {
		return nil, err
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SocialPost
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create validates and inserts a new post. Status defaults to draft.
func (s *Store) Create(ctx context.Context, p models.SocialPost) (models.SocialPost, error) {
	p.ChapterID = normalize.Slug(p.ChapterID)
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}

	if p.Text == "" {
		return models.SocialPost{}, errNoText
	}
	if p.ChapterID == "" {
		return models.SocialPost{}, errNoChapter
	}
	if !models.IsValidPlatform(p.Platform) {
		return models.SocialPost{}, errBadPlatform
	}
	if !models.IsValidPostStatus(p.Status) {
		return models.SocialPost{}, errBadStatus
	}

	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.SocialPost{}, err
	}
	return p, nil
}

// Update describes the post fields that can change. Nil pointers leave the
// stored value untouched.
type Update struct {
	Text      *string
	Platform  *string
	EventID   **primitive.ObjectID
	MediaURLs *[]string
}

// Update merges the provided fields into an existing post.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if upd.Text != nil {
		if *upd.Text == "" {
			return errNoText
		}
		set["text"] = *upd.Text
	}
	if upd.Platform != nil {
		if !models.IsValidPlatform(*upd.Platform) {
			return errBadPlatform
		}
		set["platform"] = *upd.Platform
	}
	if upd.EventID != nil {
		set["event_id"] = *upd.EventID
	}
	if upd.MediaURLs != nil {
		set["media_urls"] = *upd.MediaURLs
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

// Schedule marks a post scheduled for the given time.
func (s *Store) Schedule(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	at = at.UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":        models.PostStatusScheduled,
			"scheduled_for": at,
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPublished records that a post went out. Publishing is a bookkeeping
// action by the user; nothing here talks to the platforms.
func (s *Store) MarkPublished(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":       models.PostStatusPublished,
			"published_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Archive moves a post to archived status.
func (s *Store) Archive(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     models.PostStatusArchived,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMetrics stores manually-entered engagement numbers for a post.
func (s *Store) SetMetrics(ctx context.Context, id primitive.ObjectID, m models.PerformanceMetrics) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"performance_metrics": m,
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post. Missing ids are not an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CountByStatus returns post counts per status for a chapter.
func (s *Store) CountByStatus(ctx context.Context, chapterID string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, status := range []string{
		models.PostStatusDraft,
		models.PostStatusScheduled,
		models.PostStatusPublished,
		models.PostStatusArchived,
	} {
		n, err := s.c.CountDocuments(ctx, bson.M{
			"chapter_id": normalize.Slug(chapterID),
			"status":     status,
		})
		if err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, nil
}
