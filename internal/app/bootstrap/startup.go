// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/activity"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
	"github.com/studybuddyhq/studybuddy/internal/app/system/workers"
)

// services holds the long-lived pieces built during Startup and shared
// with BuildHandler and Shutdown.
var services struct {
	broker       notify.Broker
	tracker      activity.Tracker
	expiryWorker *workers.ClubExpiry
}

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// StudyBuddy picks the notification and activity backends (Redis when
// configured, in-process otherwise) and starts the club expiry worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.RedisClient != nil {
		services.broker = notify.NewRedisBroker(deps.RedisClient, logger)
		services.tracker = activity.NewRedisTracker(deps.RedisClient, appCfg.ClubLifetime)
		logger.Info("using Redis-backed notifications and activity tracking")
	} else {
		services.broker = notify.NewMemoryBroker(logger)
		services.tracker = activity.NewMemoryTracker()
		logger.Info("using in-process notifications and activity tracking")
	}

	services.expiryWorker = workers.NewClubExpiry(
		clubstore.NewWithLifetime(deps.MongoDatabase, appCfg.ClubLifetime),
		userstore.New(deps.MongoDatabase),
		services.broker,
		services.tracker,
		logger,
		appCfg.ExpiryInterval,
	)
	services.expiryWorker.Start()

	return nil
}
