// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and returns the dependency
// bundle handed to the remaining lifecycle hooks. The connection is verified
// with a ping so a bad URI fails startup instead of the first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		ChapterHubMongoClient:   client,
		ChapterHubMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the app relies on. CreateMany is
// idempotent: existing indexes with the same keys are left alone, so this
// runs safely on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.ChapterHubMongoDatabase

	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"credentials": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		// Member profiles are dual-written to both collections; each is
		// keyed by email on its own.
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "chapter_id", Value: 1}}},
		},
		"members": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "chapter_id", Value: 1}}},
		},
		"chapters": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		"chapter_settings": {
			{Keys: bson.D{{Key: "chapter_id", Value: 1}}, Options: unique},
		},
		"events": {
			{Keys: bson.D{{Key: "chapter_id", Value: 1}, {Key: "date", Value: 1}}},
		},
		"posts": {
			{Keys: bson.D{{Key: "chapter_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "chapter_id", Value: 1}, {Key: "platform", Value: 1}}},
		},
		"templates": {
			{Keys: bson.D{{Key: "chapter_id", Value: 1}}},
		},
		"login_history": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "at", Value: -1}}},
			{Keys: bson.D{{Key: "at", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}

	logger.Info("database indexes ensured")
	return nil
}
