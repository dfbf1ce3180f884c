package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dotoole/photofolio-backend/api/routes"
	"github.com/dotoole/photofolio-backend/internal/albums"
	"github.com/dotoole/photofolio-backend/internal/auth"
	"github.com/dotoole/photofolio-backend/internal/credentials"
	"github.com/dotoole/photofolio-backend/internal/images"
	"github.com/dotoole/photofolio-backend/internal/profile"
	"github.com/dotoole/photofolio-backend/pkg/config"
	"github.com/dotoole/photofolio-backend/pkg/db"
	"github.com/dotoole/photofolio-backend/pkg/logger"
	"github.com/dotoole/photofolio-backend/pkg/migrate"
	"github.com/dotoole/photofolio-backend/pkg/redis"
	"github.com/dotoole/photofolio-backend/pkg/storage/r2"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, login rate limiting disabled")
	}

	storageClient, err := r2.New(cfg.R2)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(cfg.JWT, cfg.Admin)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	albumService, err := albums.NewService(albums.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create album service", err)
		os.Exit(1)
	}

	imageService, err := images.NewService(images.NewRepository(dbClient.DB()), albumService, storageClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create image service", err)
		os.Exit(1)
	}

	credentialService, err := credentials.NewService(storageClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create credential service", err)
		os.Exit(1)
	}

	profileService, err := profile.NewService(dbClient.DB(), storageClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg,
			routes.Dependencies{
				DB:    dbClient,
				Redis: redisClient,
				R2:    storageClient,
			},
			routes.Services{
				Auth:        authService,
				Images:      imageService,
				Albums:      albumService,
				Credentials: credentialService,
				Profile:     profileService,
			}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
