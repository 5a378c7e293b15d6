package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/jalanjalan-ai/trip-planner/app/db"
	"github.com/jalanjalan-ai/trip-planner/config"
	generativeAI "github.com/jalanjalan-ai/trip-planner/internal/api/generative_ai"
	"github.com/jalanjalan-ai/trip-planner/internal/api/media"
	"github.com/jalanjalan-ai/trip-planner/internal/api/poi"
	"github.com/jalanjalan-ai/trip-planner/internal/api/trip"
)

// Container holds all application dependencies.
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	TripHandler *trip.HandlerImpl
}

// NewContainer wires repositories, services and handlers. When no Postgres
// catalog is configured the embedded seed catalog serves lookups instead.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	var pool *pgxpool.Pool
	var poiRepo poi.Repository

	if cfg.CatalogEnabled() {
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, err
		}
		pool, err = database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			return nil, err
		}
		poiRepo = poi.NewPostgresRepository(pool, logger)
	} else {
		logger.Info("No Postgres catalog configured, using embedded seed catalog")
		poiRepo = poi.NewSeedRepository(logger)
	}

	poiService := poi.NewServiceImpl(poiRepo, logger)

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	imageClient := media.NewPollinationsClient(cfg.Media.BaseURL, cfg.Media.Verify, cfg.Media.Timeout, logger)

	sessionStore := trip.NewCacheStore()
	tripService := trip.NewServiceImpl(sessionStore, poiService, aiClient, imageClient, cfg.Gemini.Timeout, logger)
	tripHandler := trip.NewHandlerImpl(tripService, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Pool:        pool,
		TripHandler: tripHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready. No-op without a pool.
func (c *Container) WaitForDB(ctx context.Context) bool {
	if c.Pool == nil {
		return true
	}
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
