// Package bootstrap establishes runtime dependencies shared by the server
// and seeding entrypoints.
package bootstrap

import (
	"context"
	"fmt"

	"atrium/internal/cache"
	"atrium/internal/config"
	"atrium/internal/database"
	"atrium/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds initialized shared dependencies.
type Runtime struct {
	DB              *gorm.DB
	Redis           *redis.Client
	ShutdownTracing func(context.Context) error
}

// InitRuntime connects to the database and Redis and initializes tracing.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; the client is nil when unreachable.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	exporter := "stdout"
	if cfg.OTLPEndpoint != "" {
		exporter = "otlp"
	}
	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "atrium-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       exporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   1.0,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	return &Runtime{
		DB:              db,
		Redis:           r,
		ShutdownTracing: shutdownTracing,
	}, nil
}
