package app

import (
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"reviewhub/internal/config"
	"reviewhub/internal/services"
	"reviewhub/internal/store"
)

// App holds the wired application components shared by the CLI commands.
type App struct {
	Config *config.Config

	AssetStore        store.AssetRecordStore
	ModerationService *services.ModerationService

	// JobClient schedules synthetic pipeline events for the simulator. The
	// asynq client only touches redis on enqueue, so building it here costs
	// nothing for commands that never simulate.
	JobClient store.JobClient
}

func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	assetStore := store.NewAssetStore(
		cfg.Aggregator.Shards,
		cfg.Aggregator.EntryTTL,
		cfg.Aggregator.SweepInterval,
	)

	app := &App{
		Config:            cfg,
		AssetStore:        assetStore,
		ModerationService: services.NewModerationService(assetStore),
		JobClient: store.NewAsynqJobClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}),
	}

	log.Debug("application initialization complete")
	return app, nil
}

// Close releases the app's resources: stops the store janitor and closes the
// job client connection if one was ever opened.
func (a *App) Close() {
	if a.AssetStore != nil {
		a.AssetStore.Close()
	}
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.WithError(err).Warn("failed to close job client")
		}
	}
}
