package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	infragin "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/config"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	healthCheckTimeout  = 2 * time.Second
)

// Dependencies are the collaborators the HTTP server needs.
type Dependencies struct {
	Handler       *Handler
	DB            *sqlx.DB
	Redis         *redis.Client
	Telemetry     *telemetry.Provider
	SearchLimiter *SubjectLimiter
}

// NewServer creates a new HTTP server.
func NewServer(deps Dependencies, cfg *config.Config, log infralogger.Logger) *infragin.Server {
	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithDatabaseHealthCheck(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			defer cancel()
			return deps.DB.PingContext(ctx)
		}).
		WithMetricsHandler(deps.Telemetry.Handler()).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, deps.Handler, cfg.Auth.JWTSecret, deps.SearchLimiter)
		})

	if deps.Redis != nil {
		builder = builder.WithRedisHealthCheck(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			defer cancel()
			return deps.Redis.Ping(ctx).Err()
		})
	}

	return builder.Build()
}
