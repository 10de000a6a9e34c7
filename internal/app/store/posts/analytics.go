// internal/app/store/posts/analytics.go
package poststore

import (
	"context"

	"github.com/dalemusser/chapterhub/internal/app/system/normalize"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlatformStats summarizes a chapter's published posts on one platform.
type PlatformStats struct {
	Platform      string  `bson:"_id"`
	Posts         int     `bson:"posts"`
	AvgEngagement float64 `bson:"avg_engagement"`
	TotalReach    int     `bson:"total_reach"`
	TotalLikes    int     `bson:"total_likes"`
	TotalShares   int     `bson:"total_shares"`
}

// StatsByPlatform aggregates published post metrics per platform.
// Platforms with no published posts do not appear.
func (s *Store) StatsByPlatform(ctx context.Context, chapterID string) ([]PlatformStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"chapter_id": normalize.Slug(chapterID),
			"status":     models.PostStatusPublished,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$platform",
			"posts":          bson.M{"$sum": 1},
			"avg_engagement": bson.M{"$avg": "$performance_metrics.engagement_rate"},
			"total_reach":    bson.M{"$sum": "$performance_metrics.reach"},
			"total_likes":    bson.M{"$sum": "$performance_metrics.likes"},
			"total_shares":   bson.M{"$sum": "$performance_metrics.shares"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "posts", Value: -1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []PlatformStats
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopByEngagement returns a chapter's published posts with the highest
// manually-recorded engagement rates.
func (s *Store) TopByEngagement(ctx context.Context, chapterID string, limit int) ([]models.SocialPost, error) {
	cur, err := s.c.Find(ctx,
		bson.M{
			"chapter_id":          normalize.Slug(chapterID),
			"status":              models.PostStatusPublished,
			"performance_metrics": bson.M{"$ne": nil},
		},
		options.Find().
			SetSort(bson.D{{Key: "performance_metrics.engagement_rate", Value: -1}}).
			SetLimit(int64(limit)),
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
