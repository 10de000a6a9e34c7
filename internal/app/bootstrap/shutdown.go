// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down background workers and DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if loginPrune != nil {
		loginPrune.Stop()
	}
	if loginLimiter != nil {
		loginLimiter.Stop()
	}

	if deps.ChapterHubMongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.ChapterHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
