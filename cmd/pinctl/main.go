package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/cli"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/config"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/content"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/database"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := cli.NewRootCommand(loadDeps).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadDeps wires the same options store as the service, so writes made here
// refresh the shared Redis cache entry.
func loadDeps(ctx context.Context, configPath string) (*cli.Deps, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Development: true})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}

	var store options.Store = options.NewRepository(db)
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, cached options may be stale until they expire", logger.Error(err))
		} else {
			store = options.NewCachedStore(store, redisClient, cfg.Cache.TTL, log, nil)
		}
	}

	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = db.Close()
		_ = log.Sync()
	}

	return &cli.Deps{
		Config:  cfg,
		Store:   store,
		Content: content.NewRepository(db),
		Logger:  log.With(logger.String("service", "pinctl")),
	}, cleanup, nil
}
