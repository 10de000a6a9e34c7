// internal/app/store/templates/templatestore.go
package templatestore

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
	// ErrNotFound is returned by mutations that matched no template.
	ErrNotFound = errors.New("template not found")

	errNoName    = errors.New("template name is required")
	errNoBody    = errors.New("template body is required")
	errNoChapter = errors.New("template must have chapter_id")
	errBadType   = errors.New("unknown template type")
)

// Store provides access to content template records.
type Store struct {
	c *mongo.Collection
}

// New creates a template store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("templates")}
}

// GetByID loads a template. Returns (nil, nil) when not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error) {
	var tmpl models.Template
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tmpl)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// GetAll returns every template across all chapters. Iteration order is
// unspecified.
func (s *Store) GetAll(ctx context.Context) ([]models.Template, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Template
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByChapter returns a chapter's templates sorted by name.
func (s *Store) GetByChapter(ctx context.Context, chapterID string) ([]models.Template, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"chapter_id": normalize.Slug(chapterID)},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Template
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Query returns templates matching a single-field predicate.
func (s *Store) Query(ctx context.Context, field, op string, value interface{}) ([]models.Template, error) {
	filter, err := query.Filter(field, op, value)
	if err != nil {
		return nil, err
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Template
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create validates and inserts a new template. Type defaults to custom.
func (s *Store) Create(ctx context.Context, tmpl models.Template) (models.Template, error) {
	tmpl.ChapterID = normalize.Slug(tmpl.ChapterID)
	if tmpl.Type == "" {
		tmpl.Type = "custom"
	}

	if tmpl.Name == "" {
		return models.Template{}, errNoName
	}
	if tmpl.Body == "" {
		return models.Template{}, errNoBody
	}
	if tmpl.ChapterID == "" {
		return models.Template{}, errNoChapter
	}
	if !models.IsValidTemplateType(tmpl.Type) {
		return models.Template{}, errBadType
	}

	tmpl.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, tmpl); err != nil {
		return models.Template{}, err
	}
	return tmpl, nil
}

// Update describes the template fields that can change. Nil pointers leave
// the stored value untouched.
type Update struct {
	Name        *string
	Description *string
	Type        *string
	Body        *string
	Platforms   *[]string
	Variables   *[]string
}

// Update merges the provided fields into an existing template.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if upd.Name != nil {
		if *upd.Name == "" {
			return errNoName
		}
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Type != nil {
		if !models.IsValidTemplateType(*upd.Type) {
			return errBadType
		}
		set["type"] = *upd.Type
	}
	if upd.Body != nil {
		if *upd.Body == "" {
			return errNoBody
		}
		set["body"] = *upd.Body
	}
	if upd.Platforms != nil {
		set["platforms"] = *upd.Platforms
	}
	if upd.Variables != nil {
		set["variables"] = *upd.Variables
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

// Delete removes a template. Posts generated from it keep their template_id
// reference; the reference simply stops resolving.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
