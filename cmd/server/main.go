package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tourhub-uz/tourhub/internal/server"
	"github.com/tourhub-uz/tourhub/modules"
	"github.com/tourhub-uz/tourhub/pkg/application"
	"github.com/tourhub-uz/tourhub/pkg/configuration"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/storage"
)

func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to reach database")
	}

	invalidator := invalidation.Noop()
	if conf.Redis.Enabled {
		opts, err := redis.ParseURL(conf.Redis.URL)
		if err != nil {
			logger.WithError(err).Fatal("failed to parse redis url")
		}
		invalidator = invalidation.NewRedis(redis.NewClient(opts), conf.Redis.Channel, logger)
	}

	var media *storage.MediaStorage
	if conf.Storage.Bucket != "" {
		media, err = storage.NewMediaStorage(ctx)
		if err != nil {
			logger.WithError(err).Warn("media storage unavailable, uploads disabled")
			media = nil
		}
	}

	app := application.New(&application.ApplicationOptions{
		Pool:        pool,
		EventBus:    eventbus.NewEventPublisher(logger),
		Logger:      logger,
		Invalidator: invalidator,
		Media:       media,
	})
	if err := modules.Load(app); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}

	srv := server.New(app)
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("failed to shut down cleanly")
		}
	}()
	if err := srv.Start(); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
