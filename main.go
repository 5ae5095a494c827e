package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	infraconfig "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/config"
	infraes "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/elasticsearch"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/api"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/config"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/content"
	contentes "github.com/jonesrussell/north-cloud/pinned-nav/internal/content/elasticsearch"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/database"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/navigation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/nonce"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/resolver"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := database.NewPostgresConnection(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	return runServer(ctx, cfg, log, db, redisClient)
}

func loadConfig() (*config.Config, error) {
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectRedis returns nil when the cache is disabled or unreachable; the
// service then reads options straight from PostgreSQL.
func connectRedis(ctx context.Context, cfg *config.Config, log logger.Logger) *redis.Client {
	if !cfg.Cache.Enabled {
		return nil
	}
	client, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, options cache disabled", logger.Error(err))
		return nil
	}
	log.Info("Redis connected", logger.String("address", cfg.Redis.Address))
	return client
}

func createSearcher(ctx context.Context, cfg *config.Config, log logger.Logger, repo *content.Repository) (content.Searcher, error) {
	if cfg.Search.Backend != config.SearchBackendElasticsearch {
		return repo, nil
	}
	client, err := infraes.NewClient(ctx, cfg.Elasticsearch, log)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return contentes.NewSearcher(client, cfg.Search.Index, log), nil
}

func runServer(ctx context.Context, cfg *config.Config, log logger.Logger, db *sqlx.DB, redisClient *redis.Client) int {
	tel := telemetry.NewProvider()

	contentRepo := content.NewRepository(db)
	searcher, err := createSearcher(ctx, cfg, log, contentRepo)
	if err != nil {
		log.Error("Failed to initialize search backend", logger.Error(err))
		return 1
	}

	var store options.Store = options.NewRepository(db)
	if redisClient != nil {
		store = options.NewCachedStore(store, redisClient, cfg.Cache.TTL, log, tel)
	}

	svc := curation.NewService(contentRepo, searcher, store, curation.Config{
		OptionKey:   cfg.Curation.OptionKey,
		SearchLimit: cfg.Curation.SearchLimit,
	}, log, tel)
	nav := navigation.NewProvider(store, resolver.New(contentRepo, log, tel), cfg.Curation.OptionKey)
	nonces := nonce.NewIssuer(cfg.Auth.NonceSecret, cfg.Auth.NonceLifetime)

	server := api.NewServer(api.Dependencies{
		Handler:       api.NewHandler(svc, nav, nonces, log),
		DB:            db,
		Redis:         redisClient,
		Telemetry:     tel,
		SearchLimiter: api.NewSubjectLimiter(cfg.Curation.SearchRPS, cfg.Curation.SearchBurst),
	}, cfg, log)

	log.Info("Pinned navigation service starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("search_backend", cfg.Search.Backend),
		logger.Bool("cache_enabled", redisClient != nil),
	)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Pinned navigation service exited cleanly")
	return 0
}
