// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/chapterhub/internal/app/store/query"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/normalize"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateEmail is returned when creating a profile whose email already exists.
	ErrDuplicateEmail = errors.New("a member with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"editor"|"viewer"`)
	errChapterNeeded  = errors.New("member must have chapter_id")
)

// Store provides access to member profile records.
//
// For legacy compatibility the same profile document lives in BOTH the
// "members" and "users" collections (two historical read paths). The
// dual-write is centralized in put(); reads prefer "members" and fall back
// to "users" for records that predate the duplication.
type Store struct {
	members *mongo.Collection
	users   *mongo.Collection
}

// New creates a member store over the members/users collection pair.
func New(db *mongo.Database) *Store {
	return &Store{
		members: db.Collection("members"),
		users:   db.Collection("users"),
	}
}

// GetByID loads a profile by ObjectID. Returns (nil, nil) when no record
// exists; absence is an explicit state, not an error.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.members.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		err = s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	}
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a profile by case-insensitive email.
// Returns (nil, nil) when not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := bson.M{"email": normalize.Email(email)}

	var u models.User
	err := s.members.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		err = s.users.FindOne(ctx, filter).Decode(&u)
	}
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetAll returns every profile record. Iteration order is unspecified.
func (s *Store) GetAll(ctx context.Context) ([]models.User, error) {
	cur, err := s.members.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Query returns profiles matching a single-field predicate.
func (s *Store) Query(ctx context.Context, field, op string, value interface{}) ([]models.User, error) {
	filter, err := query.Filter(field, op, value)
	if err != nil {
		return nil, err
	}
	cur, err := s.members.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new profile after normalizing & validating fields.
// The record is dual-written to both collections.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.DisplayNameCI = text.Fold(u.DisplayName)
	u.ChapterID = normalize.Slug(u.ChapterID)
	if u.Status == "" {
		u.Status = "active"
	}

	if !authz.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.ChapterID == "" {
		return models.User{}, errChapterNeeded
	}

	if existing, err := s.GetByEmail(ctx, u.Email); err != nil {
		return models.User{}, err
	} else if existing != nil {
		return models.User{}, ErrDuplicateEmail
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.put(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Update describes the profile fields that can change. Nil pointers leave
// the stored value untouched (merge semantics, never replace).
type Update struct {
	DisplayName *string
	Role        *string
	ChapterID   *string
	PhotoPath   *string
	PhotoName   *string
	Status      *string
}

// Update merges the provided fields into an existing profile in both
// collections. Unspecified fields keep their stored values.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if upd.DisplayName != nil {
		name := normalize.Name(*upd.DisplayName)
		set["display_name"] = name
		set["display_name_ci"] = text.Fold(name)
	}
	if upd.Role != nil {
		if !authz.IsValidRole(*upd.Role) {
			return errBadRole
		}
		set["role"] = *upd.Role
	}
	if upd.ChapterID != nil {
		set["chapter_id"] = normalize.Slug(*upd.ChapterID)
	}
	if upd.PhotoPath != nil {
		set["photo_path"] = *upd.PhotoPath
	}
	if upd.PhotoName != nil {
		set["photo_name"] = *upd.PhotoName
	}
	if upd.Status != nil {
		set["status"] = normalize.Status(*upd.Status)
	}

	update := bson.M{"$set": set}
	if _, err := s.members.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return err
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete removes a profile from both collections. Deleting an id that does
// not exist is not an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.members.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	_, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CountByChapter counts active profiles in a chapter.
func (s *Store) CountByChapter(ctx context.Context, chapterID string) (int64, error) {
	return s.members.CountDocuments(ctx, bson.M{
		"chapter_id": normalize.Slug(chapterID),
		"status":     bson.M{"$ne": "disabled"},
	})
}

// InCollections reports which legacy collections hold a profile for the
// email: the "members" copy, the "users" copy, or both. Used by the
// verifyuser admin CLI to diagnose split records.
func (s *Store) InCollections(ctx context.Context, email string) (inMembers, inUsers bool, err error) {
	filter := bson.M{"email": normalize.Email(email)}

	if err := s.members.FindOne(ctx, filter).Err(); err == nil {
		inMembers = true
	} else if err != mongo.ErrNoDocuments {
		return false, false, err
	}

	if err := s.users.FindOne(ctx, filter).Err(); err == nil {
		inUsers = true
	} else if err != mongo.ErrNoDocuments {
		return inMembers, false, err
	}

	return inMembers, inUsers, nil
}

// put is the single place that writes a profile document. Both legacy
// collections receive the same record; call sites never write the
// collections directly.
func (s *Store) put(ctx context.Context, u models.User) error {
	if _, err := s.members.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}
