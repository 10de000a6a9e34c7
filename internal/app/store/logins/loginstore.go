// internal/app/store/logins/loginstore.go
package loginstore

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

// Store provides access to the append-only login history collection.
type Store struct {
	c *mongo.Collection
}

// New creates a login history store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_history")}
}

// Record appends a login history row.
func (s *Store) Record(ctx context.Context, userID primitive.ObjectID, email, method, ip, userAgent string) error {
	rec := models.LoginRecord{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Email:     normalize.Email(email),
		Method:    method,
		IP:        ip,
		UserAgent: userAgent,
		At:        time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// Recent returns the most recent logins for a user, newest first.
func (s *Store) Recent(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.LoginRecord, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LoginRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOlderThan removes rows older than cutoff and reports how many were
// deleted. The prune worker calls this on its retention schedule.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"at": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
