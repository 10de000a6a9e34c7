// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/chapterhub/internal/app/resources"
	loginstore "github.com/dalemusser/chapterhub/internal/app/store/logins"
	"github.com/dalemusser/chapterhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// loginPrune is started here and stopped in Shutdown.
var loginPrune *workers.LoginPrune

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, and launch
// background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	loginPrune = workers.NewLoginPrune(
		loginstore.New(deps.ChapterHubMongoDatabase),
		logger,
		appCfg.LoginPruneInterval,
		appCfg.LoginHistoryRetention,
	)
	loginPrune.Start()

	return nil
}
